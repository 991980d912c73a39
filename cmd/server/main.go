// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/streamgauge/docs" // swagger spec
	"github.com/tomtom215/streamgauge/internal/api"
	"github.com/tomtom215/streamgauge/internal/cache"
	"github.com/tomtom215/streamgauge/internal/config"
	"github.com/tomtom215/streamgauge/internal/database"
	"github.com/tomtom215/streamgauge/internal/eventprocessor"
	"github.com/tomtom215/streamgauge/internal/ingest"
	"github.com/tomtom215/streamgauge/internal/logging"
	"github.com/tomtom215/streamgauge/internal/supervisor"
	"github.com/tomtom215/streamgauge/internal/supervisor/services"
	ws "github.com/tomtom215/streamgauge/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Int("port", cfg.Server.Port).
		Bool("nats_enabled", cfg.NATS.Enabled).
		Msg("Starting StreamGauge with supervisor tree")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	wsHub := ws.NewHub()

	relay, err := InitNATS(cfg, wsHub)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize NATS relay")
	}

	reports := ingest.NewService(db, nil, broadcasters(wsHub, relay)...)
	if cfg.Server.ListCacheTTL > 0 {
		reports.WithListCache(cache.New("report_list", cfg.Server.ListCacheTTL, nil))
	}
	handler := api.NewHandler(reports, db, wsHub, cfg)
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(cfg.Security))
	server := newHTTPServer(cfg, router.SetupChi())

	// Data layer
	tree.AddDataService(services.NewCheckpointService(db, cfg.Database.CheckpointInterval, nil))

	// Messaging layer
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	AddNATSToSupervisor(tree, relay)

	// API layer
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	if relay != nil {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		relay.Close(closeCtx)
		closeCancel()
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// broadcasters lists where accepted reports are announced: always the local
// hub, plus the relay when one is running.
func broadcasters(hub *ws.Hub, relay *eventprocessor.Relay) []ingest.Broadcaster {
	out := []ingest.Broadcaster{hub}
	if relay != nil {
		out = append(out, relay)
	}
	return out
}

// newHTTPServer configures the listener. WriteTimeout stays zero so
// upgraded /ws connections are not cut off; the handler timeouts bound
// ordinary requests.
func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
}
