//go:build darwin

package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (autostart *Autostart) entryPath() (string, error) {
	home, err := autostart.home()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, "Library", "LaunchAgents", launchAgentLabel(autostart.appName)+".plist"), nil
}

func (autostart *Autostart) enable(_ context.Context, execPath string) error {
	path, err := autostart.entryPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create LaunchAgents dir: %w", err)
	}
	content := launchAgentPlist(launchAgentLabel(autostart.appName), execPath)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write plist: %w", err)
	}
	return nil
}

func (autostart *Autostart) disable(context.Context) error {
	path, err := autostart.entryPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove plist: %w", err)
	}
	return nil
}

func fallbackConfigDir(home string) string {
	return filepath.Join(home, "Library", "Application Support")
}

func launchAgentLabel(appName string) string {
	return "com.kidsfocus." + slug(appName)
}

var plistEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;")

func launchAgentPlist(label, execPath string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>` + plistEscaper.Replace(label) + `</string>
	<key>ProgramArguments</key>
	<array>
		<string>` + plistEscaper.Replace(execPath) + `</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
</dict>
</plist>
`
}
