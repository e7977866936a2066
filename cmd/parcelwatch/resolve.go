package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/parcelwatch/internal/assessor"
	"github.com/jonathan/parcelwatch/internal/resolver"
)

var resolveLimit int

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve tax parcels to street addresses via the county assessor",
	Long: `Look up each unresolved parcel-bearing record on the county assessor site and
store its validated street address. Already-resolved records are never touched,
so the command is safe to re-run.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().IntVar(&resolveLimit, "limit", 0, "Maximum records to process (overrides config)")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	limit := cfg.ResolveLimit
	if resolveLimit > 0 {
		limit = resolveLimit
	}

	ctx := context.Background()
	database, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	lookup := assessor.NewClient(assessor.WithURLTemplate(cfg.AssessorURLTemplate))
	postal := resolver.PostalDefaults{City: cfg.DefaultCity, State: cfg.DefaultState, Zip: cfg.DefaultZip}
	svc := resolver.NewService(database, lookup, postal, cfg.ResolveConcurrency)

	outcome, err := svc.ResolveBatch(ctx, limit)
	if err != nil {
		return err
	}

	fmt.Printf("Processed %d: %d resolved, %d unresolved\n",
		outcome.Processed, outcome.Resolved, outcome.Unresolved)
	return nil
}
