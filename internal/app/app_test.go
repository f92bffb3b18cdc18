package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/fjod/storefront/internal/catalog"
	"github.com/fjod/storefront/internal/config"
	"github.com/fjod/storefront/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func baseConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		CartStorage:   config.StorageMemory,
		CartKey:       "cart",
		CartDataDir:   t.TempDir(),
		CatalogSource: config.CatalogEmbedded,
	}
}

func TestNew_MemoryAndEmbeddedCatalog(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, baseConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	products, err := a.Catalog.Filter(ctx, catalog.Criteria{})
	require.NoError(t, err)
	assert.Len(t, products, 3)
	assert.Empty(t, a.Cart.Lines())
	assert.ErrorIs(t, a.Cart.RestoreErr(), repository.ErrCartNotFound)
}

func TestNew_FileStorageSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	cfg := baseConfig(t)
	cfg.CartStorage = config.StorageFile

	first, err := New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	p, _, err := first.Catalog.Get(ctx, "1")
	require.NoError(t, err)
	first.Cart.AddToCart(ctx, p, "9", "Red")
	first.Cart.AddToCart(ctx, p, "9", "Red")
	require.NoError(t, first.Close())

	second, err := New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer second.Close()

	require.NoError(t, second.Cart.RestoreErr())
	lines := second.Cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "9", lines[0].SelectedSize)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.FileExists(t, filepath.Join(cfg.CartDataDir, "cart.json"))
}

func TestNew_SQLiteCatalog(t *testing.T) {
	ctx := context.Background()
	cfg := baseConfig(t)
	cfg.CatalogSource = config.CatalogSQLite
	cfg.CatalogDBPath = filepath.Join(t.TempDir(), "db", "catalog.db")

	a, err := New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	categories, err := a.Catalog.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Shoes", "Clothing", "Accessories"}, categories)
}

func TestNew_RedisWithBreaker(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cfg := baseConfig(t)
	cfg.CartStorage = config.StorageRedis
	cfg.RedisAddr = mr.Addr()
	cfg.StorageBreaker = true

	a, err := New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	p, _, err := a.Catalog.Get(ctx, "3")
	require.NoError(t, err)
	a.Cart.AddToCart(ctx, p, "", "Blue")

	saved, err := mr.Get("storefront:cart")
	require.NoError(t, err)
	assert.Contains(t, saved, `"selectedColor":"Blue"`)
}

func TestNew_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := baseConfig(t)
	cfg.CartStorage = config.StorageRedis
	cfg.RedisAddr = addr

	_, err := New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
