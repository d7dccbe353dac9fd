package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"github.com/jimmy058910/replitballgame-sub001/internal/constants"
)

type Config struct {
	DBPath          string
	ServerPort      string
	LogLevel        string
	ResultCacheTTL  time.Duration
	RedisAddr       string // empty disables event broadcasting
	CamaraderieURL  string // empty selects the store-backed provider
	RateLimit       int
	RateLimitWindow time.Duration
}

func Load() (*Config, error) {
	// Absent .env is fine; plain environment variables or defaults apply.
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:          getEnv("DB_PATH", "realmball.db"),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ResultCacheTTL:  getDurationSeconds("RESULT_CACHE_TTL_SECONDS", constants.ResultCacheTTL),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		CamaraderieURL:  getEnv("CAMARADERIE_URL", ""),
		RateLimit:       getInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow: getDurationSeconds("RATE_LIMIT_WINDOW_SECONDS", time.Minute),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getDurationSeconds(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}

var Module = fx.Provide(Load)
