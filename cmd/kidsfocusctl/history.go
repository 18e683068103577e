package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"kidsfocus/internal/app"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var profileID string
	var all bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List completed pomodoros of the last 30 days",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, cmd, func(ctx context.Context, application *app.App) error {
				filter := profileID
				if filter == "" && !all {
					filter = application.Ledger.ActiveProfileID()
				}
				records, err := application.History.Records(ctx, filter)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
					return nil
				}
				total := 0
				for _, record := range records {
					total += record.WorkMinutes
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %-9s %2d/%-2d min  profile=%s\n",
						record.Timestamp.Local().Format(time.DateTime), record.Type, record.WorkMinutes, record.BreakMinutes, record.ProfileID)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d sessions, %d focus minutes\n", len(records), total)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&profileID, "profile", "", "profile id (default: active profile)")
	cmd.Flags().BoolVar(&all, "all", false, "include every profile")
	return cmd
}
