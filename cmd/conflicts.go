package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/16205/pmereporter/app"
	"github.com/16205/pmereporter/config"
	"github.com/16205/pmereporter/core/ingest"
	"github.com/16205/pmereporter/pkg/export"
)

var conflictsFormat string

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Report double-booked sources",
	RunE:  runConflicts,
}

func init() {
	conflictsCmd.Flags().StringVar(&eventsPath, "events", "", "planning export file (JSON)")
	conflictsCmd.Flags().StringVar(&conflictsFormat, "format", "csv", "output format: csv or json")
	_ = conflictsCmd.MarkFlagRequired("events")
	rootCmd.AddCommand(conflictsCmd)
}

func runConflicts(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	var payload ingest.Payload
	if err := readJSON(eventsPath, &payload); err != nil {
		return fmt.Errorf("read events: %w", err)
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	conflicts, err := svc.CheckConflicts(payload)
	if err != nil {
		return err
	}

	switch conflictsFormat {
	case "csv":
		return export.WriteConflictsCSV(cmd.OutOrStdout(), conflicts)
	case "json":
		return export.WriteConflictsJSON(cmd.OutOrStdout(), conflicts)
	default:
		return fmt.Errorf("unknown format %s", conflictsFormat)
	}
}
