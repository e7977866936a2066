package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/parcelwatch/internal/taxlist"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Replace tax-delinquency records from the county parcel list PDF",
	Long: `Locate the county's current delinquent-parcel PDF, extract its parcel numbers
and replace the whole tax-delinquency stage with fresh placeholder records.
Other stages are untouched. Run 'parcelwatch resolve' afterwards to fill in
street addresses.`,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()

	pdfURL := cfg.TaxListPDFURL
	if pdfURL == "" {
		pdfURL, err = taxlist.DiscoverPDFURL(ctx, cfg.TaxListPageURL)
		if err != nil {
			log.Printf("[refresh] PDF discovery failed, using fallback: %v", err)
		}
	}
	fmt.Printf("Parcel list: %s\n", pdfURL)

	apns, err := taxlist.FetchAPNs(ctx, pdfURL)
	if err != nil {
		return err
	}

	database, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	items := taxlist.PlaceholderRecords(apns, cfg.DefaultCity, cfg.DefaultState, cfg.DefaultZip)
	removed, added, err := database.ReplaceTaxItems(ctx, items)
	if err != nil {
		return err
	}

	fmt.Printf("Replaced tax records: %d removed, %d added\n", removed, added)
	return nil
}
