package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"ledwall-configurator/internal/sizing/application"
)

const defaultFormats = "pdf,xlsx,txt"

func (c *CLI) exportCommand() *cobra.Command {
	flags := defaultInputFlags()
	var formatsStr, outDir string

	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Write report documents for a screen",
		Example: `  ledcalc export -W 3840 -H 2160 --project "Main Hall" --format pdf,xlsx --out ./reports`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := parseFormats(formatsStr)
			if err != nil {
				return err
			}
			in, err := flags.input(cmd)
			if err != nil {
				return err
			}
			svc, err := c.newService()
			if err != nil {
				return err
			}
			report, err := svc.Calculate(cmd.Context(), in)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}

			prog := newProgress(c.Logger)
			paths := make([]string, len(formats))
			g, ctx := errgroup.WithContext(cmd.Context())
			for i, format := range formats {
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					data, err := svc.Render(format, report)
					if err != nil {
						return fmt.Errorf("render %s: %w", format, err)
					}
					path := filepath.Join(outDir, in.Project.FileName(format))
					if err := os.WriteFile(path, data, 0o644); err != nil {
						return fmt.Errorf("write %s: %w", format, err)
					}
					c.Logger.Debug("document written", "format", format, "bytes", len(data))
					paths[i] = path
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			for _, w := range report.Warnings {
				printWarning(c.out, "%s", w)
			}
			printSuccess(c.out, "%s", report.Title())
			for _, path := range paths {
				printFile(c.out, path)
			}
			prog.done(fmt.Sprintf("Wrote %d documents", len(paths)))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", defaultFormats, "comma-separated formats: pdf, xlsx, txt, json")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	return cmd
}

// parseFormats parses a comma-separated format list, dropping duplicates.
func parseFormats(s string) ([]application.ExportFormat, error) {
	if strings.TrimSpace(s) == "" {
		s = defaultFormats
	}
	seen := make(map[application.ExportFormat]bool)
	var out []application.ExportFormat
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		format, err := application.ParseExportFormat(part)
		if err != nil {
			return nil, &flagError{flag: "format", value: strings.TrimSpace(part)}
		}
		if seen[format] {
			continue
		}
		seen[format] = true
		out = append(out, format)
	}
	return out, nil
}
