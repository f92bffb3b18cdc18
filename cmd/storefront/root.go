package main

import (
	"context"
	"fmt"

	"github.com/fjod/storefront/internal/app"
	"github.com/fjod/storefront/internal/config"
	"github.com/fjod/storefront/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "storefront",
		Short: "Storefront catalog and shopping cart",
		Long: `Browse the product catalog and manage the shopping cart.

Configuration comes from the environment (or a .env file):
  CART_STORAGE    memory, file, redis or mongo (default file)
  CATALOG_SOURCE  embedded or sqlite (default embedded)
  HTTP_PORT       port for the serve command (default 8080)`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(),
		newProductsCmd(),
		newProductCmd(),
		newCartCmd(),
	)
	return root
}

// withApp loads the configuration, wires the application and closes it once
// fn returns.
func withApp(ctx context.Context, fn func(ctx context.Context, cfg *config.Config, a *app.App, logger *zap.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, "storefront")
	if err != nil {
		return err
	}
	defer logger.Sync()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("close failed", zap.Error(err))
		}
	}()

	return fn(ctx, cfg, a, logger)
}
