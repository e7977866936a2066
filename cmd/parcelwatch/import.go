package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/parcelwatch/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import records from a CSV file",
	Long: `Parse a CSV file with columns stage, address, city, state (plus optional apn,
zip, record_date, doc_type, source_url) and insert its rows. A malformed file
imports nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = f.Close() }()

	recs, err := importer.ParseCSV(f)
	if err != nil {
		return err
	}

	ctx := context.Background()
	database, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.InsertItems(ctx, recs); err != nil {
		return err
	}

	fmt.Printf("Imported %d records from %s\n", len(recs), args[0])
	return nil
}
