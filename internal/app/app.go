package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fjod/storefront/internal/catalog"
	"github.com/fjod/storefront/internal/config"
	"github.com/fjod/storefront/internal/repository"
	"github.com/fjod/storefront/internal/service"
	"github.com/fjod/storefront/internal/storage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the wired catalog and cart for one process.
type App struct {
	Catalog *catalog.Service
	Cart    *service.CartService

	closers []func() error
	logger  *zap.Logger
}

// New opens the configured catalog source and cart storage and restores the
// saved cart. Close releases whatever was opened, also when New fails halfway.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{logger: logger}

	source, err := a.openCatalog(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Catalog = catalog.NewService(source)

	store, err := a.openStore(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	if cfg.StorageBreaker {
		store = storage.NewBreakerStore(store, cfg.CartStorage, storage.DefaultBreakerSettings(), logger)
	}

	a.Cart = service.NewCartService(ctx, repository.NewCartRepository(store, cfg.CartKey), logger)
	return a, nil
}

func (a *App) openCatalog(cfg *config.Config) (catalog.ProductSource, error) {
	switch cfg.CatalogSource {
	case config.CatalogSQLite:
		if dir := filepath.Dir(cfg.CatalogDBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create catalog dir: %w", err)
			}
		}
		repo, err := repository.NewProductRepository(cfg.CatalogDBPath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, repo.Close)

		if err := repo.RunMigrations(); err != nil {
			return nil, err
		}
		a.logger.Info("catalog loaded from sqlite", zap.String("path", cfg.CatalogDBPath))
		return repo, nil
	default:
		a.logger.Info("catalog loaded from embedded data")
		return catalog.NewEmbeddedSource(), nil
	}
}

func (a *App) openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.CartStorage {
	case config.StorageMemory:
		return storage.NewMemoryStore(), nil

	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		a.closers = append(a.closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		a.logger.Info("cart storage connected", zap.String("backend", "redis"), zap.String("addr", cfg.RedisAddr))
		return storage.NewRedisStore(client, cfg.RedisTTL), nil

	case config.StorageMongo:
		db, err := storage.ConnectMongoDB(ctx, storage.MongoOptions{
			URI:                    cfg.MongoURI,
			Database:               cfg.MongoDBName,
			ConnectTimeout:         cfg.MongoConnectTimeout,
			ServerSelectionTimeout: cfg.MongoServerSelectionTimeout,
			MaxPoolSize:            cfg.MongoMaxPoolSize,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error {
			return db.Client().Disconnect(context.Background())
		})
		a.logger.Info("cart storage connected", zap.String("backend", "mongo"), zap.String("db", cfg.MongoDBName))
		return storage.NewMongoStore(db), nil

	default:
		store, err := storage.NewFileStore(cfg.CartDataDir)
		if err != nil {
			return nil, err
		}
		a.logger.Info("cart storage ready", zap.String("backend", "file"), zap.String("dir", cfg.CartDataDir))
		return store, nil
	}
}

// Close releases resources in reverse opening order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
