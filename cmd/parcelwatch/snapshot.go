package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture a snapshot run of the current records",
	Long:  `Record the identity key and content fingerprint of every current record under a new run, for later diffing.`,
	RunE:  runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
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

	run, captured, err := database.CreateRun(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Run %d captured %d items at %s\n", run.ID, captured, run.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}
