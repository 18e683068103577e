package platform

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Autostart registers the desktop app to launch when the user logs in.
type Autostart struct {
	appName string
	// home and configDir are resolved lazily so tests can point them at a
	// temporary directory.
	home      func() (string, error)
	configDir func() (string, error)
	command   func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewAutostart returns an Autostart for appName.
func NewAutostart(appName string) *Autostart {
	return &Autostart{
		appName:   appName,
		home:      os.UserHomeDir,
		configDir: userConfigDir,
		command: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).CombinedOutput()
		},
	}
}

// Apply enables or disables launch at login. execPath is the binary to
// start and is only needed when enabling.
func (autostart *Autostart) Apply(ctx context.Context, enabled bool, execPath string) error {
	if strings.TrimSpace(autostart.appName) == "" {
		return fmt.Errorf("autostart: app name is empty")
	}
	if !enabled {
		if err := autostart.disable(ctx); err != nil {
			return fmt.Errorf("disable autostart: %w", err)
		}
		return nil
	}
	if execPath == "" {
		return fmt.Errorf("enable autostart: exec path is empty")
	}
	if err := autostart.enable(ctx, execPath); err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	return nil
}

func userConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}
	home, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}
	return fallbackConfigDir(home), nil
}

func slug(appName string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(appName)), " ", "-")
}
