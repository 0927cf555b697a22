package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	catalog "ledwall-configurator/internal/catalog/domain"
	catalogrepo "ledwall-configurator/internal/catalog/infrastructure/postgres"
)

var errDSNRequired = errors.New("catalog seed: --dsn or DATABASE_URL is required")

func (c *CLI) catalogCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the reference tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.loadCatalog()
			if err != nil {
				return err
			}
			tables := cat.Tables()
			if asJSON {
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")
				return enc.Encode(tables)
			}
			return printTables(c.out, tables)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the tables as JSON")
	cmd.AddCommand(c.catalogSeedCommand())
	return cmd
}

func (c *CLI) catalogSeedCommand() *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the Postgres catalog with the active tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				dsn = os.Getenv("DATABASE_URL")
			}
			if dsn == "" {
				return errDSNRequired
			}
			cat, err := c.loadCatalog()
			if err != nil {
				return err
			}
			tables := cat.Tables()
			if err := seed(cmd.Context(), dsn, tables.AsOverlay()); err != nil {
				return err
			}
			c.Logger.Info("catalog seeded", "processors", len(tables.Processors), "cards", len(tables.Cards), "cabinets", len(tables.Cabinets))
			printSuccess(c.out, "Seeded %d processors, %d receiving cards, %d cabinets",
				len(tables.Processors), len(tables.Cards), len(tables.Cabinets))
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", "", "Postgres DSN (defaults to DATABASE_URL)")
	return cmd
}

func seed(ctx context.Context, dsn string, overlay catalog.Overlay) (err error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() {
		err = errors.Join(err, db.Close())
	}()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping db: %w", err)
	}
	return catalogrepo.NewCatalogRepository(db).Seed(ctx, overlay)
}

func printTables(w io.Writer, t catalog.Tables) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, StyleTitle.Render("Processors"))
	for _, p := range t.Processors {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%d ports\n", p.ID, p.Label, p.Family, p.Ports)
	}
	fmt.Fprintln(tw, "\n"+StyleTitle.Render("Receiving cards"))
	for _, card := range t.Cards {
		fmt.Fprintf(tw, "  %s\t%s\t%d × %d px\n", card.ID, card.Label, card.MaxWidthPx, card.MaxHeightPx)
	}
	fmt.Fprintln(tw, "\n"+StyleTitle.Render("Cabinets"))
	for _, cab := range t.Cabinets {
		fmt.Fprintf(tw, "  %s\t%s\t%d × %d mm\t%.1f kg\n", cab.ID, cab.Label, cab.WidthMM, cab.HeightMM, cab.WeightKG)
	}

	fmt.Fprintln(tw, "\n"+StyleTitle.Render("Pitches"))
	envs := make([]string, 0, len(t.Pitches))
	for env := range t.Pitches {
		envs = append(envs, string(env))
	}
	sort.Strings(envs)
	for _, env := range envs {
		fmt.Fprintf(tw, "  %s\t%v\n", env, t.Pitches[catalog.Environment(env)])
	}
	fmt.Fprintln(tw, "\n"+StyleTitle.Render("Refresh rates"))
	fmt.Fprintf(tw, "  %v Hz\n", t.RefreshRates)
	return tw.Flush()
}
