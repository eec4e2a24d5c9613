package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/travelhub/order-composer/internal/currency"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "KAFKA_BROKERS", "DEFAULT_SAR_TO_IDR", "DEFAULT_USD_TO_IDR", "RATE_CACHE_TTL", "RATESYNC_WORKERS"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.DefaultRates.IsDefault())
	assert.Equal(t, 10*time.Minute, cfg.RateCacheTTL)
	assert.Equal(t, 2, cfg.RateSyncWorkers)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("DEFAULT_SAR_TO_IDR", "4350.5")
	t.Setenv("DEFAULT_USD_TO_IDR", "-1")
	t.Setenv("RATE_CACHE_TTL", "30s")
	t.Setenv("RATESYNC_WORKERS", "abc")

	cfg := Load()
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "4350.5", cfg.DefaultRates.SARToIDR.String())
	assert.True(t, cfg.DefaultRates.USDToIDR.Equal(currency.DefaultUSDToIDR))
	assert.Equal(t, 30*time.Second, cfg.RateCacheTTL)
	assert.Equal(t, 2, cfg.RateSyncWorkers)
}
