//go:build linux

package platform

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutostartDesktopEntry(t *testing.T) {
	dir := t.TempDir()
	autostart := NewAutostart("Kids Focus")
	autostart.configDir = func() (string, error) { return dir, nil }
	ctx := context.Background()
	entry := filepath.Join(dir, "autostart", "kids-focus.desktop")

	require.NoError(t, autostart.Apply(ctx, true, "/opt/kids focus/kidsfocus"))
	data, err := os.ReadFile(entry)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Name=Kids Focus\n")
	assert.Contains(t, string(data), `Exec="/opt/kids focus/kidsfocus"`)

	require.NoError(t, autostart.Apply(ctx, false, ""))
	assert.NoFileExists(t, entry)

	// disabling twice is fine
	require.NoError(t, autostart.Apply(ctx, false, ""))
}

func TestAutostartValidation(t *testing.T) {
	assert.ErrorContains(t, NewAutostart("").Apply(context.Background(), true, "/bin/x"), "app name is empty")
	assert.ErrorContains(t, NewAutostart("KidsFocus").Apply(context.Background(), true, ""), "exec path is empty")
}
