package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/parcelwatch/internal/diffing"
	"github.com/jonathan/parcelwatch/internal/records"
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show what changed between the two most recent snapshot runs",
	RunE:  runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

func runDiff(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	database, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	view, err := diffing.NewEngine(database).Latest(ctx)
	if err != nil {
		return err
	}

	if view.Latest == nil {
		fmt.Println("No snapshot runs yet. Run 'parcelwatch snapshot' first.")
		return nil
	}

	fmt.Printf("Latest run: %d (%s)\n", view.Latest.ID, view.Latest.CreatedAt.Format("2006-01-02 15:04:05"))
	if view.Previous != nil {
		fmt.Printf("Compared against run %d\n", view.Previous.ID)
	} else {
		fmt.Println("First run: everything classifies NEW")
	}

	s := view.Summary
	fmt.Printf("\nNEW %d  REMOVED %d  UPDATED %d  UNCHANGED %d  (total %d)\n\n",
		s.New, s.Removed, s.Updated, s.Unchanged, s.Total())

	for _, rec := range view.Items {
		class := view.ClassOf(rec.ID)
		if class == diffing.ClassUnchanged && !cfg.Verbose {
			continue
		}
		fmt.Printf("%-9s %-18s %s\n", class, rec.Stage.Label(), displayAddress(rec))
	}

	if len(view.DuplicateKeys) > 0 {
		fmt.Printf("\nWarning: duplicate identity keys found: %s\n", strings.Join(view.DuplicateKeys, ", "))
	}
	return nil
}

func displayAddress(r records.Record) string {
	if r.ResolvedSitus != "" {
		return r.ResolvedSitus
	}
	if r.APN != "" && r.Address == records.PlaceholderAddress {
		return fmt.Sprintf("%s (apn %s)", r.Address, r.APN)
	}
	return fmt.Sprintf("%s, %s, %s", r.Address, r.City, r.State)
}
