// Package app wires configuration, storage, services and HTTP routing
// into a runnable application.
package app

import (
	"fmt"

	"github.com/SmoothBot/exchange-volume/config"
	"github.com/SmoothBot/exchange-volume/internal/api"
	"github.com/SmoothBot/exchange-volume/internal/service"
	"github.com/SmoothBot/exchange-volume/internal/storage"
	"github.com/gin-gonic/gin"
)

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Connects to PostgreSQL using InitPostgres().
//   - Initializes the repository layer.
//   - Creates the dominance service and HTTP handler layer.
//   - Loads the optional USD price table (fail fast on a broken file).
//   - Configures the Gin router and health probes.
//   - Provides a cleanup function to close resources (e.g., DB connection).
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	// indirection for unit testing
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	repo := storage.NewRepository(db)
	svc := service.NewDominanceService(repo)

	// A configured but unreadable price table is a deployment error,
	// not something to limp along without.
	var prices service.PriceTable
	if cfg.Pipeline.PriceTablePath != "" {
		prices, err = service.LoadPriceTable(cfg.Pipeline.PriceTablePath)
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to load price table: %w", err)
		}
	}

	handler := api.NewHandler(svc, prices)
	router := api.NewRouter(handler)

	healthHandler := api.NewHealthHandler(db.Ping)
	healthHandler.Register(router)

	cleanup := func() {
		_ = db.Close()
	}

	return router, cleanup, nil
}
