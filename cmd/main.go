package main

//
//  @title           exchange-volume API
//  @version         1.0
//  @description     Crypto exchange volume ingestion & CEX/DEX dominance aggregation service.
//  @termsOfService  https://github.com/SmoothBot/exchange-volume
//  @contact.name    API Support
//  @contact.url     https://github.com/SmoothBot/exchange-volume
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        dominance
//  @tag.description Endpoints for querying CEX/DEX dominance aggregates
//
//  @tag.name        volume
//  @tag.description Endpoints for querying USD-converted volume aggregates
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/SmoothBot/exchange-volume/config"
	_ "github.com/SmoothBot/exchange-volume/docs" // swagger docs
	"github.com/SmoothBot/exchange-volume/internal/app"
	"github.com/SmoothBot/exchange-volume/internal/coingecko"
	"github.com/SmoothBot/exchange-volume/internal/ingestion"
	"github.com/SmoothBot/exchange-volume/internal/logger"
	"github.com/SmoothBot/exchange-volume/internal/service"
	"github.com/SmoothBot/exchange-volume/internal/storage"
)

// startServer initializes the HTTP server for the given router and port.
// It does not begin listening; serveUntilSignal drives the lifecycle.
func startServer(router http.Handler, port string) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// serveUntilSignal runs the server until it fails or an OS interrupt
// (SIGINT, SIGTERM) arrives, then shuts it down gracefully and runs cleanup.
func serveUntilSignal(ctx context.Context, server *http.Server, cleanup func()) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.L().Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.L().Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	cleanup()
	logger.L().Info().Msg("server exited")
	return err
}

// runIngestion connects to the database and executes one ingestion run.
func runIngestion(ctx context.Context) error {
	cfg := config.AppConfig

	db, err := app.InitPostgres(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	client := coingecko.NewClient(coingecko.Config{
		BaseURL:      cfg.CoinGecko.BaseURL,
		APIKey:       cfg.CoinGecko.APIKey,
		PageSize:     cfg.CoinGecko.PageSize,
		WindowDays:   cfg.CoinGecko.WindowDays,
		MaxPages:     cfg.CoinGecko.MaxPages,
		RequestDelay: cfg.CoinGecko.RequestDelay,
		Timeout:      cfg.CoinGecko.Timeout,
	})

	repo := storage.NewRepository(db)
	orch := ingestion.NewOrchestrator(client, repo, cfg.Pipeline.SkipExchanges)

	_, err = orch.Run(ctx)
	return err
}

// runAggregation connects to the database, computes the dominance report and
// logs the series and its statistics. When a price table is configured the
// USD volume series is reported as well.
func runAggregation(ctx context.Context) error {
	cfg := config.AppConfig

	db, err := app.InitPostgres(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	svc := service.NewDominanceService(storage.NewRepository(db))

	report, err := svc.DominanceReport(ctx)
	if err != nil {
		return err
	}
	for _, p := range report.Series {
		logger.L().Info().
			Str("date", p.Date).
			Float64("centralized_pct", p.Centralized).
			Float64("decentralized_pct", p.Decentralized).
			Msg("dominance")
	}
	logger.L().Info().
		Float64("current", report.Stats.Current).
		Float64("average", report.Stats.Average).
		Float64("max", report.Stats.Max).
		Float64("min", report.Stats.Min).
		Float64("volatility", report.Stats.Volatility).
		Int("days", len(report.Series)).
		Msg("dominance statistics")

	if cfg.Pipeline.PriceTablePath == "" {
		return nil
	}
	prices, err := service.LoadPriceTable(cfg.Pipeline.PriceTablePath)
	if err != nil {
		return err
	}
	series, err := svc.DailyVolumeUSD(ctx, prices)
	if err != nil {
		return err
	}
	for _, p := range series {
		logger.L().Info().
			Str("date", p.Date).
			Float64("volume_usd", p.VolumeUSD).
			Msg("usd volume")
	}
	return nil
}

// main is the entry point of the exchange-volume application.
//
// Modes (selected via --mode flag):
//   - ingest:    Pulls the exchange catalog and volume history from the upstream API into Postgres.
//   - aggregate: Computes and logs the CEX/DEX dominance series and statistics.
//   - api:       Starts the REST API to expose aggregated dominance data.
//
// Flags:
//   - --mode: Execution mode ("ingest", "aggregate" or "api"). Default: "ingest".
//   - --port: Port for the API server. Defaults to value from config (SERVER_PORT).
func main() {
	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	mode := flag.String("mode", "ingest", "Mode: ingest, aggregate or api")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	// Interrupts cancel in-flight upstream calls and DB work
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "ingest":
		logger.L().Info().Msg("running ingestion")
		if err := runIngestion(ctx); err != nil {
			logger.L().Fatal().Err(err).Msg("ingestion failed")
		}
		logger.L().Info().Msg("ingestion completed successfully")

	case "aggregate":
		logger.L().Info().Msg("running aggregation")
		if err := runAggregation(ctx); err != nil {
			logger.L().Fatal().Err(err).Msg("aggregation failed")
		}

	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		if err := serveUntilSignal(ctx, server, cleanup); err != nil {
			logger.L().Fatal().Err(err).Msg("server error")
		}

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
