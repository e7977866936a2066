package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop and recreate all tracker tables",
	Long:  `Drop the items, runs and snapshots tables, recreate them empty and reapply seed data. Destructive.`,
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "Confirm the destructive reset")
	rootCmd.AddCommand(resetCmd)
}

func runReset(_ *cobra.Command, _ []string) error {
	if !resetYes {
		return fmt.Errorf("reset deletes all data; re-run with --yes to confirm")
	}

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

	if err := database.Reset(ctx); err != nil {
		return err
	}
	if cfg.SeedFile != "" {
		if err := database.SeedFromFile(ctx, cfg.SeedFile); err != nil {
			return err
		}
	}

	fmt.Println("Database reset")
	return nil
}
