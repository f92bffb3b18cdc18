package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/fjod/storefront/internal/app"
	"github.com/fjod/storefront/internal/catalog"
	"github.com/fjod/storefront/internal/config"
	"github.com/fjod/storefront/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and change the shopping cart",
	}
	cmd.AddCommand(
		newCartShowCmd(),
		newCartAddCmd(),
		newCartUpdateCmd(),
		newCartRemoveCmd(),
		newCartClearCmd(),
	)
	return cmd
}

func newCartShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show cart lines, item count and total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(_ context.Context, _ *config.Config, a *app.App, _ *zap.Logger) error {
				return printCart(cmd.OutOrStdout(), a.Cart.Lines())
			})
		},
	}
}

func newCartAddCmd() *cobra.Command {
	var size, color string

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add one unit of a product",
		Long: `Add one unit of a product to the cart.

Without --size or --color the product's first size and color are used.
Pass an empty value (--size "") to add without a size.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, _ *config.Config, a *app.App, _ *zap.Logger) error {
				p, _, err := a.Catalog.Get(ctx, args[0])
				if err != nil {
					return err
				}

				var sizeSel, colorSel *string
				if cmd.Flags().Changed("size") {
					sizeSel = &size
				}
				if cmd.Flags().Changed("color") {
					colorSel = &color
				}
				sel, err := catalog.ResolveSelection(p, sizeSel, colorSel)
				if err != nil {
					return err
				}

				line := a.Cart.AddToCart(ctx, p, sel.Size, sel.Color)
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (quantity %d)\n", describeLine(line), line.Quantity)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&size, "size", "", "size to add")
	cmd.Flags().StringVar(&color, "color", "", "color to add")
	return cmd
}

func newCartUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <index|line-id> <quantity>",
		Short: "Set the quantity of a line; zero or less removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			return withApp(cmd.Context(), func(ctx context.Context, _ *config.Config, a *app.App, _ *zap.Logger) error {
				var err error
				if index, convErr := strconv.Atoi(args[0]); convErr == nil {
					err = a.Cart.UpdateQuantity(ctx, index, quantity)
				} else {
					err = a.Cart.UpdateQuantityByID(ctx, args[0], quantity)
				}
				if err != nil {
					return err
				}
				return printCart(cmd.OutOrStdout(), a.Cart.Lines())
			})
		},
	}
}

func newCartRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <index|line-id>",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, _ *config.Config, a *app.App, _ *zap.Logger) error {
				var err error
				if index, convErr := strconv.Atoi(args[0]); convErr == nil {
					err = a.Cart.RemoveItem(ctx, index)
				} else {
					err = a.Cart.RemoveItemByID(ctx, args[0])
				}
				if err != nil {
					return err
				}
				return printCart(cmd.OutOrStdout(), a.Cart.Lines())
			})
		},
	}
}

func newCartClearCmd() *cobra.Command {
	var purge bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, _ *config.Config, a *app.App, _ *zap.Logger) error {
				if purge {
					a.Cart.PurgeCart(ctx)
					fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared and saved cart deleted.")
					return nil
				}
				a.Cart.ClearCart(ctx)
				fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared.")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&purge, "purge", false, "delete the saved cart instead of saving an empty one")
	return cmd
}

func describeLine(l domain.CartLine) string {
	s := l.Name
	if l.SelectedSize != "" {
		s += ", size " + l.SelectedSize
	}
	if l.SelectedColor != "" {
		s += ", " + l.SelectedColor
	}
	return s
}

func printCart(w io.Writer, lines []domain.CartLine) error {
	if len(lines) == 0 {
		_, err := fmt.Fprintln(w, "Your cart is empty.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tLINE\tITEM\tQTY\tSUBTOTAL")
	for i, l := range lines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t$%.2f\n", i, l.LineID, describeLine(l), l.Quantity, l.Subtotal())
	}
	fmt.Fprintf(tw, "\t\tItems: %d\t\tTotal: $%.2f\n", domain.Count(lines), domain.Total(lines))
	return tw.Flush()
}
