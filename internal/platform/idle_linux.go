package platform

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// idleProvider asks xprintidle on X11 and the GNOME idle monitor over
// D-Bus on Wayland.
type idleProvider struct {
	xprintidlePath string
	gdbusPath      string
}

func newIdleProvider() IdleProvider {
	xprintidle, _ := exec.LookPath("xprintidle")
	gdbus, _ := exec.LookPath("gdbus")

	wayland := strings.EqualFold(os.Getenv("XDG_SESSION_TYPE"), "wayland")
	switch {
	case wayland && gdbus != "":
		return &idleProvider{gdbusPath: gdbus}
	case xprintidle != "":
		return &idleProvider{xprintidlePath: xprintidle}
	case gdbus != "":
		return &idleProvider{gdbusPath: gdbus}
	}
	return unsupportedIdleProvider{}
}

func (provider *idleProvider) IdleDuration(ctx context.Context) (time.Duration, error) {
	if provider.xprintidlePath != "" {
		output, err := exec.CommandContext(ctx, provider.xprintidlePath).Output()
		if err != nil {
			return 0, fmt.Errorf("xprintidle: %w", err)
		}
		return parseMillis(string(output))
	}

	output, err := exec.CommandContext(ctx, provider.gdbusPath,
		"call", "--session",
		"--dest", "org.gnome.Mutter.IdleMonitor",
		"--object-path", "/org/gnome/Mutter/IdleMonitor/Core",
		"--method", "org.gnome.Mutter.IdleMonitor.GetIdletime",
	).Output()
	if err != nil {
		return 0, fmt.Errorf("mutter idle monitor: %w", err)
	}
	return parseMutterIdle(string(output))
}
