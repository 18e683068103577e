//go:build windows

package platform

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (autostart *Autostart) enable(ctx context.Context, execPath string) error {
	value := `"` + strings.Trim(execPath, `"`) + `"`
	output, err := autostart.command(ctx, "reg", "add", registryRunKey, "/v", autostart.appName, "/t", "REG_SZ", "/d", value, "/f")
	if err != nil {
		return fmt.Errorf("reg add: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (autostart *Autostart) disable(ctx context.Context) error {
	output, err := autostart.command(ctx, "reg", "delete", registryRunKey, "/v", autostart.appName, "/f")
	if err != nil {
		// deleting a value that was never written is not an error
		if strings.Contains(string(output), "unable to find") {
			return nil
		}
		return fmt.Errorf("reg delete: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func fallbackConfigDir(home string) string {
	return filepath.Join(home, "AppData", "Roaming")
}
