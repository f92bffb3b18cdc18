package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fjod/storefront/internal/app"
	"github.com/fjod/storefront/internal/catalog"
	"github.com/fjod/storefront/internal/config"
	"github.com/fjod/storefront/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newProductsCmd() *cobra.Command {
	var criteria catalog.Criteria

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List catalog products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, _ *config.Config, a *app.App, _ *zap.Logger) error {
				products, err := a.Catalog.Filter(ctx, criteria)
				if err != nil {
					return err
				}
				if len(products) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No products match.")
					return nil
				}
				return printProducts(cmd.OutOrStdout(), products)
			})
		},
	}

	cmd.Flags().StringVar(&criteria.Category, "category", "", "only list this category")
	cmd.Flags().Float64Var(&criteria.MaxPrice, "max-price", 0, "only list products at or below this price (0 for no limit)")
	return cmd
}

func newProductCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show one product and related products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, _ *config.Config, a *app.App, _ *zap.Logger) error {
				p, related, err := a.Catalog.Get(ctx, args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (%s)\n", p.Name, p.Category)
				fmt.Fprintf(out, "Price:  $%.2f\n", p.Price)
				if len(p.Sizes) > 0 {
					fmt.Fprintf(out, "Sizes:  %s\n", strings.Join(p.Sizes, ", "))
				}
				if len(p.Colors) > 0 {
					fmt.Fprintf(out, "Colors: %s\n", strings.Join(p.Colors, ", "))
				}
				if len(related) > 0 {
					fmt.Fprintln(out, "\nYou may also like:")
					return printProducts(out, related)
				}
				return nil
			})
		},
	}
}

func printProducts(w io.Writer, products []domain.Product) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t$%.2f\n", p.ID, p.Name, p.Category, p.Price)
	}
	return tw.Flush()
}
