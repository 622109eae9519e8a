package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_PORT", "DATABASE_DSN", "LOW_STOCK_CRON", "LOW_STOCK_THRESHOLD", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "zackie_pharma.db", cfg.DatabaseDSN)
	assert.Equal(t, "@every 1h", cfg.LowStockCron)
	assert.Zero(t, cfg.LowStockThreshold)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-port")
	t.Setenv("LOW_STOCK_THRESHOLD", "3")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")

	cfg := Load()
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 3, cfg.LowStockThreshold)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}
