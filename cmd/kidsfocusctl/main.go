package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"kidsfocus/internal/app"
	"kidsfocus/internal/core/model"
	"kidsfocus/internal/storage"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	storeType  string
	storePath  string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "kidsfocusctl",
		Short:         "Headless KidsFocus timer and profile tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "settings file (default: user config dir)")
	root.PersistentFlags().StringVar(&opts.storeType, "store", "", "store backend override: file|sqlite|redis|memory")
	root.PersistentFlags().StringVar(&opts.storePath, "store-path", "", "store file path override")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override: debug|info|warn|error")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newProfileCmd(opts))
	root.AddCommand(newShopCmd(opts))
	root.AddCommand(newHistoryCmd(opts))
	root.AddCommand(newSettingsCmd(opts))
	return root
}

func (opts *rootOptions) settingsPath() (string, error) {
	if opts.configPath != "" {
		return opts.configPath, nil
	}
	return storage.SettingsPath(app.Name)
}

func (opts *rootOptions) loadSettings() (model.Settings, error) {
	path, err := opts.settingsPath()
	if err != nil {
		return model.DefaultSettings(), err
	}
	settings, err := storage.LoadSettingsFile(path)
	if err != nil {
		return settings, err
	}
	if opts.storeType != "" {
		settings.Storage.Type = opts.storeType
	}
	if opts.storePath != "" {
		settings.Storage.Path = opts.storePath
	}
	if opts.logLevel != "" {
		settings.LogLevel = opts.logLevel
	}
	return settings, nil
}

func (opts *rootOptions) saveSettings(settings model.Settings) error {
	path, err := opts.settingsPath()
	if err != nil {
		return err
	}
	return storage.SaveSettingsFile(path, settings)
}

// openApp assembles the application with JSON logs on stderr.
func (opts *rootOptions) openApp(ctx context.Context, stderr io.Writer) (*app.App, error) {
	settings, err := opts.loadSettings()
	if err != nil {
		return nil, err
	}
	logger := app.NewLogger(stderr, settings.LogLevel, true)
	return app.New(ctx, settings, app.Options{Logger: logger})
}
