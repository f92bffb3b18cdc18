package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, StorageFile, cfg.CartStorage)
	assert.Equal(t, "cart", cfg.CartKey)
	assert.Equal(t, CatalogEmbedded, cfg.CatalogSource)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.StorageBreaker)
	assert.Equal(t, time.Duration(0), cfg.RedisTTL)
	assert.Equal(t, ExporterNone, cfg.OTelExporter)
	assert.Equal(t, 10*time.Second, cfg.MongoConnectTimeout)
	assert.Equal(t, 5*time.Second, cfg.MongoServerSelectionTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CART_STORAGE", "Redis")
	t.Setenv("CART_KEY", "shop-cart")
	t.Setenv("STORAGE_BREAKER", "true")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("REDIS_TTL", "1h")
	t.Setenv("MONGO_MAX_POOL_SIZE", "20")
	t.Setenv("OTEL_EXPORTER", "Stdout")
	t.Setenv("CATALOG_SOURCE", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, StorageRedis, cfg.CartStorage)
	assert.Equal(t, "shop-cart", cfg.CartKey)
	assert.True(t, cfg.StorageBreaker)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, time.Hour, cfg.RedisTTL)
	assert.Equal(t, uint64(20), cfg.MongoMaxPoolSize)
	assert.Equal(t, ExporterStdout, cfg.OTelExporter)
	assert.Equal(t, CatalogSQLite, cfg.CatalogSource)
}

func TestLoad_RejectsUnknownBackends(t *testing.T) {
	chdir(t, t.TempDir())

	t.Setenv("CART_STORAGE", "localstorage")
	_, err := Load()
	assert.ErrorContains(t, err, "CART_STORAGE")

	t.Setenv("CART_STORAGE", "memory")
	t.Setenv("CATALOG_SOURCE", "postgres")
	_, err = Load()
	assert.ErrorContains(t, err, "CATALOG_SOURCE")
}

func TestLoad_RejectsMalformedValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: "REQUEST_TIMEOUT", value: "abc"},
		{key: "REDIS_TTL", value: "not-a-duration"},
		{key: "STORAGE_BREAKER", value: "maybe"},
		{key: "MONGO_MAX_POOL_SIZE", value: "-1"},
		{key: "OTEL_EXPORTER", value: "jaeger"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.ErrorContains(t, err, tt.key)
		})
	}
}

func TestLoad_ReportsEveryMalformedValue(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("REQUEST_TIMEOUT", "soon")
	t.Setenv("SHUTDOWN_TIMEOUT", "later")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorContains(t, err, "REQUEST_TIMEOUT")
	assert.ErrorContains(t, err, "SHUTDOWN_TIMEOUT")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
