package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP API
	ListenAddr string

	// Record store
	StorePath string

	// Play-by-play source
	PBPBaseURL   string
	PBPRateLimit int // requests per second

	// Sportsbook odds feed (empty disables the feed; the mock market
	// covers games without stored lines)
	OddsFeedURL string

	// Betting
	BettingLimitsPath string

	// Telemetry
	LogLevel string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ListenAddr: envStr("GRIDIRON_LISTEN_ADDR", ":8090"),
		StorePath:  envStr("GRIDIRON_STORE_PATH", "data/gridiron.db"),

		PBPBaseURL:   envStr("GRIDIRON_PBP_BASE_URL", "https://data.gridironlabs.io/pbp"),
		PBPRateLimit: envInt("GRIDIRON_PBP_RATE_LIMIT", 5),

		OddsFeedURL: envStr("GRIDIRON_ODDS_FEED_URL", ""),

		BettingLimitsPath: envStr("GRIDIRON_BETTING_LIMITS_PATH", "internal/config/betting_limits.yaml"),

		LogLevel: envStr("LOG_LEVEL", "info"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
