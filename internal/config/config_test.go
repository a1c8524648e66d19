package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL())
	assert.False(t, cfg.GatewayMock)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STOREFRONT_HTTP_PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("PAYMENT_GATEWAY_MOCK", "true")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.GatewayMock)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("STOREFRONT_HTTP_PORT", "99999")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoad_BadGatewayURL(t *testing.T) {
	t.Setenv("PAYMENT_GATEWAY_URL", "not a url")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoad_BadSampleRate(t *testing.T) {
	t.Setenv("OTEL_SAMPLE_RATE", "1.5")

	_, err := Load()

	assert.Error(t, err)
}

func TestPostgresConfig(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	pg := cfg.PostgresConfig()
	assert.Equal(t, "localhost", pg.Host)
	assert.Equal(t, int32(25), pg.MaxConns)
	assert.Equal(t, time.Hour, pg.MaxConnLifetime)
}
