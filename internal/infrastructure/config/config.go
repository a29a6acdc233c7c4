package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	OTLP     OTLPConfig
	Catalog  CatalogConfig
	Checkout CheckoutConfig
}

type ServerConfig struct {
	Port                       string
	Host                       string
	DurationMillisecondsMetric bool
}

type OTLPConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	Environment string
	LogLevel    slog.Level
}

type CatalogConfig struct {
	LoadDelay time.Duration
	Fail      bool
}

type CheckoutConfig struct {
	TaxRate float64
}

// LoadConfig loads configuration from environment variables. A .env file in
// the working directory is read first; real environment variables win.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host:                       getEnv("SERVER_HOST", "0.0.0.0"),
			Port:                       getEnv("SERVER_PORT", "8080"),
			DurationMillisecondsMetric: getBool("HTTP_DURATION_MS_METRIC", false),
		},
		OTLP: OTLPConfig{
			Enabled:     getBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "storefront-api"),
			Environment: getEnv("OTEL_ENVIRONMENT", "development"),
			LogLevel:    getLevel("LOG_LEVEL", slog.LevelInfo),
		},
		Catalog: CatalogConfig{
			LoadDelay: getDuration("CATALOG_LOAD_DELAY", time.Second),
			Fail:      getBool("CATALOG_FAIL", false),
		},
		Checkout: CheckoutConfig{
			TaxRate: getFloat("CHECKOUT_TAX_RATE", 0.08),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, defaultValue.String()))
	if err != nil || v < 0 {
		return defaultValue
	}
	return v
}

func getFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil || v < 0 {
		return defaultValue
	}
	return v
}

func getLevel(key string, defaultValue slog.Level) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(getEnv(key, defaultValue.String())))); err != nil {
		return defaultValue
	}
	return level
}
