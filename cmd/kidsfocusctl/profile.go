package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"kidsfocus/internal/app"
	"kidsfocus/internal/core/rewards"
)

// withApp opens the application for a one-shot command and closes it after.
func withApp(opts *rootOptions, cmd *cobra.Command, fn func(context.Context, *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	application, err := opts.openApp(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	runErr := fn(ctx, application)
	if closeErr := application.Close(); runErr == nil {
		runErr = closeErr
	}
	return runErr
}

func newProfileCmd(opts *rootOptions) *cobra.Command {
	profile := &cobra.Command{Use: "profile", Short: "Manage child profiles"}

	profile.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a profile and make it active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, cmd, func(ctx context.Context, application *app.App) error {
				created, err := application.Ledger.CreateProfile(ctx, args[0])
				if err != nil {
					return err
				}
				if err := application.Ledger.SelectProfile(ctx, created.ID); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", created.Name, created.ID)
				return nil
			})
		},
	})

	profile.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, cmd, func(_ context.Context, application *app.App) error {
				profiles := application.Ledger.Profiles()
				if len(profiles) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no profiles")
					return nil
				}
				activeID := application.Ledger.ActiveProfileID()
				for _, p := range profiles {
					marker := " "
					if p.ID == activeID {
						marker = "*"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %-12s points=%d pomodoros=%d streak=%d badges=%s\n",
						marker, p.ID, p.Name, p.Points, p.TotalPomodoros, p.CurrentStreak, strings.Join(p.Badges, ","))
				}
				return nil
			})
		},
	})

	profile.AddCommand(&cobra.Command{
		Use:   "select <id>",
		Short: "Make a profile active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, cmd, func(ctx context.Context, application *app.App) error {
				return application.Ledger.SelectProfile(ctx, args[0])
			})
		},
	})

	profile.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, cmd, func(ctx context.Context, application *app.App) error {
				return application.Ledger.DeleteProfile(ctx, args[0])
			})
		},
	})

	profile.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Clear the active profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, cmd, func(ctx context.Context, application *app.App) error {
				return application.Ledger.Logout(ctx)
			})
		},
	})

	profile.AddCommand(newProfileUpdateCmd(opts))
	return profile
}

func newProfileUpdateCmd(opts *rootOptions) *cobra.Command {
	var name, avatar, theme, indicator, music, animal string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change profile fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var update rewards.ProfileUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				update.Name = &name
			}
			if flags.Changed("avatar") {
				update.Avatar = &avatar
			}
			if flags.Changed("theme") {
				update.Theme = &theme
			}
			if flags.Changed("indicator") {
				update.ProgressIndicator = &indicator
			}
			if flags.Changed("music") {
				update.MusicPreference = &music
			}
			if flags.Changed("animal") {
				update.PathAnimal = &animal
			}

			return withApp(opts, cmd, func(ctx context.Context, application *app.App) error {
				if err := application.Ledger.UpdateProfile(ctx, args[0], update); err != nil {
					return err
				}
				if update.ProgressIndicator != nil && application.Ledger.ActiveProfileID() == args[0] {
					return application.Ledger.MarkIndicatorTried(ctx, indicator)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&avatar, "avatar", "", "avatar id")
	cmd.Flags().StringVar(&theme, "theme", "", "theme id")
	cmd.Flags().StringVar(&indicator, "indicator", "", "progress indicator id")
	cmd.Flags().StringVar(&music, "music", "", "soundscape id")
	cmd.Flags().StringVar(&animal, "animal", "", "path animal id")
	return cmd
}
