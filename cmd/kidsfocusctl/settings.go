package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"kidsfocus/internal/core/alerts"
	"kidsfocus/internal/core/model"
)

func newSettingsCmd(opts *rootOptions) *cobra.Command {
	settingsCmd := &cobra.Command{Use: "settings", Short: "Show or change saved settings"}

	settingsCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := opts.loadSettings()
			if err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), settings)
			return nil
		},
	})
	settingsCmd.AddCommand(newSettingsSetCmd(opts))
	return settingsCmd
}

func newSettingsSetCmd(opts *rootOptions) *cobra.Command {
	var (
		work, brk     int
		preset        string
		alertNames    []string
		notifications bool
		launch        bool
		feed          string
		level         string
		storeType     string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update saved settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := opts.loadSettings()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("work") {
				if work <= 0 {
					return fmt.Errorf("work minutes must be positive: %d", work)
				}
				settings.WorkMinutes = work
			}
			if flags.Changed("break") {
				if brk <= 0 {
					return fmt.Errorf("break minutes must be positive: %d", brk)
				}
				settings.BreakMinutes = brk
			}
			if flags.Changed("preset") {
				if _, ok := model.FindPreset(preset); !ok {
					return fmt.Errorf("unknown preset %q", preset)
				}
				settings.DefaultPreset = preset
			}
			if flags.Changed("alerts") {
				set, err := alerts.ParseSet(alertNames)
				if err != nil {
					return err
				}
				settings.Alerts = set
			}
			if flags.Changed("notifications") {
				settings.NotificationsEnabled = notifications
			}
			if flags.Changed("launch-at-login") {
				settings.LaunchAtLogin = launch
			}
			if flags.Changed("feed") {
				settings.FeedAddress = feed
			}
			if flags.Changed("level") {
				settings.LogLevel = level
			}
			if flags.Changed("storage") {
				settings.Storage.Type = storeType
			}
			if err := opts.saveSettings(settings); err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), settings)
			return nil
		},
	}
	cmd.Flags().IntVar(&work, "work", 0, "work minutes")
	cmd.Flags().IntVar(&brk, "break", 0, "break minutes")
	cmd.Flags().StringVar(&preset, "preset", "", "default preset: 25-5|50-10|custom")
	cmd.Flags().StringSliceVar(&alertNames, "alerts", nil, "enabled alerts: oneMinute,fiveMinutes,fiftyPercent,twentyFivePercent")
	cmd.Flags().BoolVar(&notifications, "notifications", true, "desktop notifications")
	cmd.Flags().BoolVar(&launch, "launch-at-login", false, "start the desktop app at login (applied on its next start)")
	cmd.Flags().StringVar(&feed, "feed", "", "websocket feed address, empty disables it")
	cmd.Flags().StringVar(&level, "level", "", "log level")
	cmd.Flags().StringVar(&storeType, "storage", "", "store backend: file|sqlite|redis|memory")
	return cmd
}

func printSettings(out io.Writer, settings model.Settings) {
	config := settings.TimeKeeperConfig()
	_, _ = fmt.Fprintf(out, "preset: %s\n", settings.DefaultPreset)
	_, _ = fmt.Fprintf(out, "work_minutes: %d\n", config.WorkMinutes)
	_, _ = fmt.Fprintf(out, "break_minutes: %d\n", config.BreakMinutes)
	_, _ = fmt.Fprintf(out, "alerts: %s\n", strings.Join(settings.Alerts.Names(), ","))
	_, _ = fmt.Fprintf(out, "notifications: %t\n", settings.NotificationsEnabled)
	_, _ = fmt.Fprintf(out, "launch_at_login: %t\n", settings.LaunchAtLogin)
	_, _ = fmt.Fprintf(out, "storage: %s\n", settings.Storage.Type)
	_, _ = fmt.Fprintf(out, "feed: %s\n", settings.FeedAddress)
	_, _ = fmt.Fprintf(out, "log_level: %s\n", settings.LogLevel)
}
