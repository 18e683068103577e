//go:build linux

package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (autostart *Autostart) entryPath() (string, error) {
	configDir, err := autostart.configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "autostart", slug(autostart.appName)+".desktop"), nil
}

func (autostart *Autostart) enable(_ context.Context, execPath string) error {
	path, err := autostart.entryPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create autostart dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(desktopEntry(autostart.appName, execPath)), 0o644); err != nil {
		return fmt.Errorf("write desktop entry: %w", err)
	}
	return nil
}

func (autostart *Autostart) disable(context.Context) error {
	path, err := autostart.entryPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove desktop entry: %w", err)
	}
	return nil
}

func fallbackConfigDir(home string) string {
	return filepath.Join(home, ".config")
}

func desktopEntry(appName, execPath string) string {
	if strings.Contains(execPath, " ") && !strings.HasPrefix(execPath, `"`) {
		execPath = `"` + execPath + `"`
	}
	return fmt.Sprintf("[Desktop Entry]\nType=Application\nName=%s\nComment=Focus timer for kids\nExec=%s\nX-GNOME-Autostart-enabled=true\nTerminal=false\n",
		appName, execPath)
}
