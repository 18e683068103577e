package resources

import (
	"embed"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"

	"kidsfocus/internal/core/timekeeper"
)

const iconDir = "icons/"

// Icon names.
const (
	IconLogo   = "logo.svg"
	IconActive = "active.svg"
	IconBreak  = "break.svg"
	IconPaused = "paused.svg"
)

//go:embed icons/*.svg
var iconFS embed.FS

var iconCache sync.Map

// Icon returns a Fyne resource for the given icon file.
func Icon(fileName string) (fyne.Resource, error) {
	return loadResource(iconFS, iconDir+fileName, &iconCache)
}

// MustIcon returns a Fyne resource or panics on error.
func MustIcon(fileName string) fyne.Resource {
	resource, err := Icon(fileName)
	if err != nil {
		panic(err)
	}
	return resource
}

// TrayIcon picks the tray icon matching the session phase.
func TrayIcon(snapshot timekeeper.Snapshot) fyne.Resource {
	switch snapshot.Phase {
	case timekeeper.PhaseOnBreak:
		return MustIcon(IconBreak)
	case timekeeper.PhasePaused:
		return MustIcon(IconPaused)
	case timekeeper.PhaseWorking:
		return MustIcon(IconActive)
	}
	return MustIcon(IconLogo)
}

func loadResource(fs embed.FS, path string, cache *sync.Map) (fyne.Resource, error) {
	if cached, ok := cache.Load(path); ok {
		return cached.(fyne.Resource), nil
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load resource %s: %w", path, err)
	}

	resource := fyne.NewStaticResource(path, data)
	cache.Store(path, resource)
	return resource, nil
}
