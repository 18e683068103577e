package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"kidsfocus/internal/app"
	"kidsfocus/internal/core/rewards"
)

func newShopCmd(opts *rootOptions) *cobra.Command {
	shop := &cobra.Command{Use: "shop", Short: "Spend points on items"}

	var cost int
	unlock := &cobra.Command{
		Use:   "unlock <theme|avatar|animal|soundscape> <item>",
		Short: "Unlock an item for the active profile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cost < 0 {
				return fmt.Errorf("cost must not be negative: %d", cost)
			}
			return withApp(opts, cmd, func(ctx context.Context, application *app.App) error {
				if err := application.Ledger.UnlockItem(ctx, rewards.ItemKind(args[0]), args[1], cost); err != nil {
					return err
				}
				active, _ := application.Ledger.ActiveProfile()
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "unlocked %s %s, %d points left\n", args[0], args[1], active.Points)
				return nil
			})
		},
	}
	unlock.Flags().IntVar(&cost, "cost", 0, "item price in points")
	_ = unlock.MarkFlagRequired("cost")

	shop.AddCommand(unlock)
	return shop
}
