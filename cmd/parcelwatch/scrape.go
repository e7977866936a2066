package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/parcelwatch/internal/notices"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape foreclosure notices from the public notice search",
	Long: `Render the public notice search in a headless browser, follow each notice
detail page, classify the distress stage and guess the property address, then
insert the results. Requires Chrome or Chromium on the system.`,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()

	scraper := notices.NewScraper(cfg.NoticeSearchURL, cfg.DefaultCity, cfg.DefaultState, cfg.Verbose)
	recs, err := scraper.Scrape(ctx)
	if err != nil {
		return err
	}

	database, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.InsertItems(ctx, recs); err != nil {
		return err
	}

	fmt.Printf("Scraped %d notices\n", len(recs))
	return nil
}
