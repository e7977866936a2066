// Package main provides the entry point for the parcelwatch CLI and HTTP
// server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/parcelwatch/internal/config"
	"github.com/jonathan/parcelwatch/internal/db"
)

var rootCmd = &cobra.Command{
	Use:   "parcelwatch",
	Short: "Distressed property record tracker",
	Long: "Parcelwatch tracks pre-foreclosure, foreclosure sale, REO and tax-delinquency " +
		"records for Humboldt County NV, snapshots them over time and resolves " +
		"tax parcels to street addresses via the county assessor.",
}

var (
	configPath string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Print detailed debug information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig assembles the effective configuration: config file values,
// then environment variables, then built-in defaults for anything unset.
func loadConfig() (config.Config, error) {
	cfg := config.Config{}
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = *loaded
	}

	cfg.FromEnv()
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if verbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openDB connects to the configured database and ensures the schema exists.
func openDB(ctx context.Context, cfg config.Config) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.InitSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}
