package config

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Host        string
	Port        string
	LogLevel    string
	LogFormat   string
	Environment string

	ModelPath    string
	ModelVersion string
	ModelPreload bool

	ModelLoadBreakerEnabled     bool
	ModelLoadBreakerFailures    int
	ModelLoadBreakerOpenSeconds int

	CityTiersPath string

	AllowedOrigins     []string
	AllowedHosts       []string
	RateLimitPerMinute int

	FrontendAPIURL string

	ShutdownTimeoutSeconds int
}

func Load() Config {
	return Config{
		Host:        mustEnv("HOST", "0.0.0.0"),
		Port:        mustEnv("PORT", "8000"),
		LogLevel:    mustEnv("LOG_LEVEL", "info"),
		LogFormat:   mustEnv("LOG_FORMAT", "json"),
		Environment: mustEnv("ENVIRONMENT", "development"),

		ModelPath:    mustEnv("MODEL_PATH", "model/model.json"),
		ModelVersion: mustEnv("MODEL_VERSION", "1.0.0"),
		ModelPreload: mustEnvBool("MODEL_PRELOAD", true),

		ModelLoadBreakerEnabled:     mustEnvBool("MODEL_LOAD_BREAKER_ENABLED", false),
		ModelLoadBreakerFailures:    mustEnvInt("MODEL_LOAD_BREAKER_FAILURES", 5),
		ModelLoadBreakerOpenSeconds: mustEnvInt("MODEL_LOAD_BREAKER_OPEN_SECONDS", 10),

		CityTiersPath: mustEnv("CITY_TIERS_PATH", ""),

		AllowedOrigins: mustEnvList("ALLOWED_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:8000",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:8000",
		}),
		AllowedHosts:       mustEnvList("ALLOWED_HOSTS", []string{"*"}),
		RateLimitPerMinute: mustEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		FrontendAPIURL: mustEnv("FRONTEND_API_URL", "http://localhost:8000"),

		ShutdownTimeoutSeconds: mustEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 10),
	}
}

// Addr is the listen address built from Host and Port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c Config) ShutdownTimeout() time.Duration {
	if c.ShutdownTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
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

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// mustEnvList reads a comma separated list, dropping blank entries.
func mustEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	items := make([]string, 0, strings.Count(v, ",")+1)
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
