package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment
// variables or a .env file.
//
// Example YAML/ENV equivalent:
//
//	SERVER_PORT=8080
//	POSTGRES_HOST=localhost
//	POSTGRES_PORT=5432
//	POSTGRES_USER=admin
//	POSTGRES_PASSWORD=secret
//	POSTGRES_DB=exchange_volume
//	POSTGRES_SSLMODE=disable
//	COINGECKO_BASE_URL=https://pro-api.coingecko.com/api/v3
//	COINGECKO_API_KEY=CG-...
//	SKIP_EXCHANGES=magicsea-v2.1-iota-evm
type Config struct {
	Server    ServerConfig    // HTTP server configuration
	Postgres  PostgresConfig  // PostgreSQL connection settings
	CoinGecko CoinGeckoConfig // Upstream market-data API settings
	Pipeline  PipelineConfig  // Ingestion/aggregation pipeline settings
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string // The TCP port the HTTP server will listen on (e.g., "8080")
}

// PostgresConfig defines connection details for PostgreSQL.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string // computed DSN used by database/sql
}

// CoinGeckoConfig defines how the upstream API is called.
//
// Fields:
//   - BaseURL: API root (pro endpoint by default).
//   - APIKey: sent as the x-cg-pro-api-key header when non-empty.
//   - PageSize: listing page size; 500 is the API maximum.
//   - WindowDays: length of the historical volume window per exchange.
//   - MaxPages: hard ceiling on listing pages, guards against an upstream
//     that never returns a short page.
//   - RequestDelay: fixed spacing between throttled upstream calls.
//   - Timeout: per-request HTTP timeout.
type CoinGeckoConfig struct {
	BaseURL      string
	APIKey       string
	PageSize     int
	WindowDays   int
	MaxPages     int
	RequestDelay time.Duration
	Timeout      time.Duration
}

// PipelineConfig holds pipeline-level settings.
//
// SkipExchanges lists upstream identifiers that must never be persisted or
// fetched for volume. PriceTablePath optionally points at a date,price CSV
// used for the USD aggregation mode; empty disables that mode.
type PipelineConfig struct {
	SkipExchanges  []string
	PriceTablePath string
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from a .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
func LoadConfig() {
	// Default values
	viper.SetDefault("SERVER_PORT", "8080")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "exchange_volume")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("COINGECKO_BASE_URL", "https://pro-api.coingecko.com/api/v3")
	viper.SetDefault("COINGECKO_API_KEY", "")
	viper.SetDefault("COINGECKO_PAGE_SIZE", 500)
	viper.SetDefault("COINGECKO_WINDOW_DAYS", 365)
	viper.SetDefault("COINGECKO_MAX_PAGES", 50)
	viper.SetDefault("COINGECKO_REQUEST_DELAY", "1s")
	viper.SetDefault("COINGECKO_HTTP_TIMEOUT", "30s")

	viper.SetDefault("SKIP_EXCHANGES", "magicsea-v2.1-iota-evm")
	viper.SetDefault("PRICE_TABLE_PATH", "")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		CoinGecko: CoinGeckoConfig{
			BaseURL:      viper.GetString("COINGECKO_BASE_URL"),
			APIKey:       viper.GetString("COINGECKO_API_KEY"),
			PageSize:     viper.GetInt("COINGECKO_PAGE_SIZE"),
			WindowDays:   viper.GetInt("COINGECKO_WINDOW_DAYS"),
			MaxPages:     viper.GetInt("COINGECKO_MAX_PAGES"),
			RequestDelay: viper.GetDuration("COINGECKO_REQUEST_DELAY"),
			Timeout:      viper.GetDuration("COINGECKO_HTTP_TIMEOUT"),
		},
		Pipeline: PipelineConfig{
			SkipExchanges:  splitList(viper.GetString("SKIP_EXCHANGES")),
			PriceTablePath: viper.GetString("PRICE_TABLE_PATH"),
		},
	}

	// Construct Postgres DSN (used by database/sql)
	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	validateConfig()
}

// splitList parses a comma-separated env value into a trimmed, non-empty slice.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
func validateConfig() {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.Postgres.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if AppConfig.Postgres.Port == 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if AppConfig.Postgres.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if AppConfig.Postgres.Password == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if AppConfig.Postgres.DBName == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	if AppConfig.CoinGecko.BaseURL == "" {
		missing = append(missing, "COINGECKO_BASE_URL")
	}
	if AppConfig.CoinGecko.PageSize <= 0 {
		missing = append(missing, "COINGECKO_PAGE_SIZE")
	}
	if AppConfig.CoinGecko.WindowDays <= 0 {
		missing = append(missing, "COINGECKO_WINDOW_DAYS")
	}
	if AppConfig.CoinGecko.MaxPages <= 0 {
		missing = append(missing, "COINGECKO_MAX_PAGES")
	}
	if AppConfig.CoinGecko.RequestDelay <= 0 {
		missing = append(missing, "COINGECKO_REQUEST_DELAY")
	}

	if len(missing) > 0 {
		log.Fatalf("missing required environment variables: %v\n", missing)
	}
}
