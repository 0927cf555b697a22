// Package cli implements the ledcalc command-line interface.
//
// ledcalc runs the same sizing engine as the HTTP service against a local
// catalog. Commands:
//   - calc: size a screen and print the report
//   - export: write report documents in one or more formats
//   - catalog: list the reference tables or seed them into Postgres
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	catalogapp "ledwall-configurator/internal/catalog/application"
	catalog "ledwall-configurator/internal/catalog/domain"
	catalogfile "ledwall-configurator/internal/catalog/infrastructure/file"
	"ledwall-configurator/internal/sizing/application"
	sizing "ledwall-configurator/internal/sizing/domain"
	sizinginterfaces "ledwall-configurator/internal/sizing/interfaces"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Exit codes returned by ExitCode.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitRejected = 2
)

var version = "dev"

// SetVersion sets the version displayed by --version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out         io.Writer
	catalogPath string
}

// New creates a CLI writing reports to out and logs to errw.
func New(out, errw io.Writer, level log.Level) *CLI {
	if out == nil {
		out = os.Stdout
	}
	return &CLI{
		Logger: newLogger(errw, level),
		out:    out,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "ledcalc",
		Short:         "ledcalc sizes LED video walls",
		Long:          `ledcalc computes the module grid, power, control, electrical, structure and logistics figures of an LED video wall and itemizes its bill of materials.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(c.out)
	root.PersistentFlags().StringVar(&c.catalogPath, "catalog", "", "catalog overlay file (.yaml, .yml or .toml)")

	root.AddCommand(c.calcCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.catalogCommand())
	return root
}

// ExitCode maps a command error to a process exit code. Rejected input exits 2.
func ExitCode(err error) int {
	var verr *sizing.ValidationError
	var ferr *flagError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &verr), errors.As(err, &ferr), errors.Is(err, application.ErrInvalidProject):
		return ExitRejected
	default:
		return ExitFailure
	}
}

// loadCatalog returns the built-in catalog or the --catalog overlay.
func (c *CLI) loadCatalog() (*catalog.Catalog, error) {
	if c.catalogPath == "" {
		c.Logger.Debug("using built-in catalog")
		return catalog.Default(), nil
	}
	cat, err := catalogfile.Load(c.catalogPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("catalog loaded", "path", c.catalogPath)
	return cat, nil
}

// newService builds a sizing service with every document renderer registered.
func (c *CLI) newService() (*application.Service, error) {
	cat, err := c.loadCatalog()
	if err != nil {
		return nil, err
	}
	opts := append(sizinginterfaces.RendererOptions(),
		application.WithLogger(c.Logger.StandardLog(log.StandardLogOptions{ForceLevel: log.DebugLevel})))
	return application.NewService(catalogapp.NewStaticStore(cat), opts...)
}
