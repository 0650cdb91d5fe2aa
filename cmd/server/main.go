// Package main provides the dashboard server: campaign runs over HTTP,
// a WebSocket feed of completed runs, and Prometheus metrics.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"retail-promo-lab/internal/campaign"
	"retail-promo-lab/internal/config"
	"retail-promo-lab/internal/dashboard"
	"retail-promo-lab/internal/logx"
)

func main() {
	cfg, err := config.LoadServer(".env")
	if err != nil {
		logx.Fatal().Err(err).Msg("load server config")
	}

	logx.Init(logx.Options{Environment: cfg.Env()})
	logger := logx.Component("server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var defaults *config.Campaign
	if cfg.CampaignFile != "" {
		defaults, err = config.LoadCampaign(cfg.CampaignFile)
		if err != nil {
			logger.Fatal().Err(err).Str("file", cfg.CampaignFile).Msg("load default campaign")
		}
	}

	sinks, cleanup, err := campaign.OpenSinks(ctx, cfg.PostgresDSN, cfg.ClickhouseDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("open export sinks")
	}
	defer cleanup()

	runner := campaign.NewRunner(campaign.Options{
		OutputDir: cfg.OutputDir,
		Sinks:     sinks,
		Logger:    log.Logger,
	})

	dash := dashboard.NewServer(dashboard.Options{
		Runner:  runner,
		Default: defaults,
		Logger:  log.Logger,
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: dash.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.HTTPAddr).
			Str("env", cfg.Env().String()).
			Int("sinks", len(sinks)).
			Msg("starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("HTTP server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	dash.Hub().Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("shutdown complete")
}
