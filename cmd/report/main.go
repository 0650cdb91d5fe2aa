// Package main runs one campaign and writes its report files.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"retail-promo-lab/internal/campaign"
	"retail-promo-lab/internal/config"
	"retail-promo-lab/internal/logx"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "YAML campaign file (defaults: seed 1, 300 respondents, first two regions)")
	outputDir := flag.String("output-dir", "output", "Output directory for generated files")
	seed := flag.Uint64("seed", 0, "Override the campaign seed")
	respondents := flag.Int("respondents", 0, "Override respondents per region")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("LAB_POSTGRES_DSN"), "PostgreSQL connection string for export (optional)")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("LAB_CLICKHOUSE_DSN"), "ClickHouse connection string for export (optional)")
	runID := flag.String("run-id", "", "Run identifier (default: random UUID)")
	env := flag.String("env", "development", "Environment: development, testing or production")
	flag.Parse()

	logx.Init(logx.Options{Environment: config.ParseEnvironment(*env)})

	c, err := loadCampaign(*configPath)
	if err != nil {
		logx.Fatal().Err(err).Str("config", *configPath).Msg("load campaign")
	}
	applyOverrides(flag.CommandLine, c, *seed, *respondents)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sinks, cleanup, err := campaign.OpenSinks(ctx, *postgresDSN, *clickhouseDSN)
	if err != nil {
		logx.Fatal().Err(err).Msg("open export sinks")
	}
	defer cleanup()

	runner := campaign.NewRunner(campaign.Options{
		OutputDir: *outputDir,
		RunID:     *runID,
		Sinks:     sinks,
		Logger:    log.Logger,
	})

	res, err := runner.Run(ctx, c)
	if err != nil {
		logx.Error().Err(err).Msg("campaign run failed")
		cleanup()
		os.Exit(1)
	}

	logx.Info().
		Str("run_id", res.Run.RunID).
		Int("files", len(res.Files)).
		Int("sinks", len(res.Exported)).
		Msg("campaign complete")

	fmt.Printf("Campaign %s complete:\n", res.Run.RunID)
	for _, f := range res.Files {
		fmt.Printf("  - %s\n", f)
	}
	for _, s := range res.Exported {
		fmt.Printf("  exported to %s\n", s)
	}
}

// loadCampaign reads path, or returns the default campaign when path is empty.
func loadCampaign(path string) (*config.Campaign, error) {
	if path == "" {
		c := &config.Campaign{}
		c.ApplyDefaults()
		return c, nil
	}
	return config.LoadCampaign(path)
}

// applyOverrides copies --seed and --respondents into c when they were passed
// explicitly, so --seed 0 still overrides a file seed.
func applyOverrides(fs *flag.FlagSet, c *config.Campaign, seed uint64, respondents int) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			c.Seed = &seed
		case "respondents":
			c.RespondentsPerRegion = respondents
		}
	})
}
