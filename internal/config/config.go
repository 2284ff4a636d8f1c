package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	EthRPCURL                string
	VersionAddress           string
	RankingAddress           string
	PriceSourceAddress       string
	MarketDataProvider       string
	MessariURL               string
	CoinGeckoURL             string
	MarketDataRateLimit      int
	MarketDataRetryMax       int
	MarketDataRetryBaseDelay time.Duration
	RateRefreshInterval      time.Duration
	DisplaySymbol            string
	DatabaseURL              string
	SnapshotInterval         time.Duration
	ExportXLSXPath           string
	SheetsSpreadsheetID      string
	GoogleCredentialsJSON    string
	AdminAPIKey              string
	HTTPPort                 string
	LogLevel                 string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		EthRPCURL:                envOrDefault("ETH_RPC_URL", "http://localhost:8545"),
		VersionAddress:           envOrDefaultWarn("MELON_VERSION_ADDRESS", ""),
		RankingAddress:           envOrDefaultWarn("MELON_RANKING_ADDRESS", ""),
		PriceSourceAddress:       envOrDefaultWarn("MELON_PRICE_SOURCE_ADDRESS", ""),
		MarketDataProvider:       strings.ToLower(envOrDefault("MARKET_DATA_PROVIDER", "messari")),
		MessariURL:               envOrDefault("MESSARI_URL", "https://data.messari.io/api/v1"),
		CoinGeckoURL:             envOrDefault("COINGECKO_URL", "https://api.coingecko.com/api/v3"),
		MarketDataRateLimit:      envOrDefaultInt("MARKET_DATA_RATE_LIMIT", 2),
		MarketDataRetryMax:       envOrDefaultInt("MARKET_DATA_RETRY_MAX", 0),
		MarketDataRetryBaseDelay: envOrDefaultDuration("MARKET_DATA_RETRY_BASE_DELAY", 2*time.Second),
		RateRefreshInterval:      envOrDefaultDuration("RATE_REFRESH_INTERVAL", 0),
		DisplaySymbol:            strings.ToUpper(envOrDefault("DISPLAY_SYMBOL", "ETH")),
		DatabaseURL:              envOrDefault("DATABASE_URL", ""),
		SnapshotInterval:         envOrDefaultDuration("SNAPSHOT_INTERVAL", 24*time.Hour),
		ExportXLSXPath:           envOrDefault("EXPORT_XLSX_PATH", ""),
		SheetsSpreadsheetID:      envOrDefault("SHEETS_SPREADSHEET_ID", ""),
		GoogleCredentialsJSON:    envOrDefault("GOOGLE_CREDENTIALS_JSON", ""),
		AdminAPIKey:              envOrDefaultWarn("ADMIN_API_KEY", ""),
		HTTPPort:                 envOrDefault("HTTP_PORT", "8080"),
		LogLevel:                 envOrDefault("LOG_LEVEL", "info"),
	}
}

// SlogLevel maps LogLevel onto a slog level. Unknown values fall back to info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		slog.Warn("invalid log level, using info", "value", c.LogLevel)
		return slog.LevelInfo
	}
	return level
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultWarn(key, defaultVal string) string {
	v := envOrDefault(key, defaultVal)
	if v == "" {
		slog.Warn("required env var not set", "key", key)
	}
	return v
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}
