package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/16205/pmereporter/app"
	"github.com/16205/pmereporter/config"
	"github.com/16205/pmereporter/core/ingest"
	"github.com/16205/pmereporter/core/model"
	"github.com/16205/pmereporter/infra/logger"
	"github.com/16205/pmereporter/pkg/export"
)

var (
	eventsPath    string
	sourcesPath   string
	locationsPath string
	outDir        string
	selectKeys    []string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Compile mission order documents",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&eventsPath, "events", "", "planning export file (JSON)")
	generateCmd.Flags().StringVar(&sourcesPath, "sources", "", "source registry file (JSON)")
	generateCmd.Flags().StringVar(&locationsPath, "locations", "", "optional location overrides file (JSON)")
	generateCmd.Flags().StringVarP(&outDir, "out", "o", "orders", "output directory")
	generateCmd.Flags().StringSliceVar(&selectKeys, "mission", nil, "limit output to these mission keys")
	_ = generateCmd.MarkFlagRequired("events")
	_ = generateCmd.MarkFlagRequired("sources")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var payload ingest.Payload
	if err := readJSON(eventsPath, &payload); err != nil {
		return fmt.Errorf("read events: %w", err)
	}
	var sources model.Registry
	if err := readJSON(sourcesPath, &sources); err != nil {
		return fmt.Errorf("read sources: %w", err)
	}
	var locations map[string]string
	if locationsPath != "" {
		if err := readJSON(locationsPath, &locations); err != nil {
			return fmt.Errorf("read locations: %w", err)
		}
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	res, err := svc.GenerateOrders(payload, sources, locations, selectKeys)
	if err != nil {
		return err
	}

	logg := logger.New("generate")
	if !res.Conflicts.Empty() {
		for _, src := range res.Conflicts.SourceKeys() {
			logg.Warnf("source %s double booked by missions %v", src, res.Conflicts[src])
		}
	}
	if err := export.WriteFiles(outDir, res.Plans); err != nil {
		return fmt.Errorf("write orders: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d order(s) written to %s\n", res.RunID, len(res.Plans), outDir)
	return nil
}

func readJSON(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(out)
}
