package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Config holds application configuration values.
type Config struct {
	Secret      string
	SessionKey  string
	DatabaseDSN string
	HTTPPort    string

	LogMode  string
	LogLevel string
	LogFile  string

	SeedProductsCSV string
	AdminUsername   string
	AdminPassword   string

	LowStockCron      string
	LowStockThreshold int

	CORSOrigins []string
}

// Load reads configuration from the environment, after merging an optional
// .env file, with reasonable defaults.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Secret:          envDefault("SECRET", "dev_secret"),
		SessionKey:      envDefault("SESSION_KEY", "dev_session_key"),
		DatabaseDSN:     envDefault("DATABASE_DSN", "zackie_pharma.db"),
		HTTPPort:        envDefault("HTTP_PORT", "8080"),
		LogMode:         envDefault("LOG_MODE", "development"),
		LogLevel:        envDefault("LOG_LEVEL", "info"),
		LogFile:         os.Getenv("LOG_FILE"),
		SeedProductsCSV: os.Getenv("SEED_PRODUCTS_CSV"),
		AdminUsername:   os.Getenv("ADMIN_USERNAME"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		LowStockCron:    envDefault("LOW_STOCK_CRON", "@every 1h"),
		CORSOrigins:     csv(os.Getenv("CORS_ORIGINS")),
	}

	cfg.LowStockThreshold = cast.ToInt(envDefault("LOW_STOCK_THRESHOLD", "0"))

	// Validate that port is numeric.
	if n, err := cast.ToIntE(cfg.HTTPPort); err != nil || n <= 0 {
		cfg.HTTPPort = "8080"
	}

	return cfg
}

func envDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func csv(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
