package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ledwall-configurator/internal/sizing/application"
)

func (c *CLI) calcCommand() *cobra.Command {
	flags := defaultInputFlags()
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Size a screen and print the report",
		Example: `  ledcalc calc -W 3840 -H 2160 --pitch 2.5
  ledcalc calc -W 5000 -H 3000 --mounting cabinet --cabinet cab-960x960 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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
			if asJSON {
				return c.write(svc, application.FormatJSON, report)
			}
			if err := c.write(svc, application.FormatText, report); err != nil {
				return err
			}
			printSummary(c.out, report)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func (c *CLI) write(svc *application.Service, format application.ExportFormat, report application.Report) error {
	data, err := svc.Render(format, report)
	if err != nil {
		return err
	}
	_, err = c.out.Write(data)
	return err
}

// printSummary prints the one-line verdict under a text report.
func printSummary(w io.Writer, r application.Report) {
	res := r.Result
	fmt.Fprintln(w)
	for _, warning := range r.Warnings {
		if res.Overloaded() {
			printCritical(w, "%s", warning)
			continue
		}
		printWarning(w, "%s", warning)
	}
	if res.Overloaded() {
		return
	}
	printSuccess(w, "%d modules, %.2f kW peak, %d power supplies, %d receiving cards",
		res.OrderModules, res.PeakWithReserveKW, res.PSUCount, res.CardCount)
}
