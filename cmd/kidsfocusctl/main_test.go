package main

import (
	"bytes"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctl struct {
	t   *testing.T
	dir string
}

func newCtl(t *testing.T) *ctl {
	return &ctl{t: t, dir: t.TempDir()}
}

func (c *ctl) run(args ...string) (string, error) {
	c.t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{
		"--config", filepath.Join(c.dir, "settings.yaml"),
		"--store-path", filepath.Join(c.dir, "data.json"),
	}, args...))
	err := root.Execute()
	return out.String(), err
}

func (c *ctl) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err)
	return out
}

var createdID = regexp.MustCompile(`\((profile-[^)]+)\)`)

func TestProfileLifecycle(t *testing.T) {
	c := newCtl(t)

	assert.Equal(t, "no profiles\n", c.mustRun("profile", "list"))

	out := c.mustRun("profile", "create", "Ana")
	match := createdID.FindStringSubmatch(out)
	require.Len(t, match, 2)
	anaID := match[1]

	out = c.mustRun("profile", "create", "Bia")
	biaID := createdID.FindStringSubmatch(out)[1]

	list := c.mustRun("profile", "list")
	assert.Contains(t, list, "* "+biaID)
	assert.Contains(t, list, "  "+anaID)

	c.mustRun("profile", "select", anaID)
	assert.Contains(t, c.mustRun("profile", "list"), "* "+anaID)

	c.mustRun("profile", "update", anaID, "--name", "Ana Clara")
	assert.Contains(t, c.mustRun("profile", "list"), "Ana Clara")

	c.mustRun("profile", "delete", anaID)
	assert.Contains(t, c.mustRun("profile", "list"), "* "+biaID)

	c.mustRun("profile", "logout")
	assert.NotContains(t, c.mustRun("profile", "list"), "*")

	_, err := c.run("profile", "select", "profile-missing")
	assert.ErrorContains(t, err, "profile not found")
}

func TestShopNeedsPointsAndActiveProfile(t *testing.T) {
	c := newCtl(t)

	_, err := c.run("shop", "unlock", "theme", "oceano", "--cost", "10")
	assert.ErrorContains(t, err, "no active profile")

	c.mustRun("profile", "create", "Ana")
	_, err = c.run("shop", "unlock", "theme", "oceano", "--cost", "10")
	assert.ErrorContains(t, err, "insufficient points")

	out := c.mustRun("shop", "unlock", "theme", "divertido", "--cost", "10")
	assert.Equal(t, "unlocked theme divertido, 0 points left\n", out)

	_, err = c.run("shop", "unlock", "sticker", "star", "--cost", "1")
	assert.ErrorContains(t, err, "unknown item kind")
}

func TestHistoryEmpty(t *testing.T) {
	c := newCtl(t)
	assert.Equal(t, "no sessions\n", c.mustRun("history", "--all"))
}

func TestSettingsSetAndShow(t *testing.T) {
	c := newCtl(t)

	show := c.mustRun("settings", "show")
	assert.Contains(t, show, "preset: 25-5")
	assert.Contains(t, show, "alerts: oneMinute")

	c.mustRun("settings", "set", "--preset", "custom", "--work", "20", "--break", "4",
		"--alerts", "fiveMinutes,fiftyPercent", "--notifications=false", "--launch-at-login")

	show = c.mustRun("settings", "show")
	assert.Contains(t, show, "preset: custom")
	assert.Contains(t, show, "work_minutes: 20")
	assert.Contains(t, show, "break_minutes: 4")
	assert.Contains(t, show, "alerts: fiveMinutes,fiftyPercent")
	assert.Contains(t, show, "notifications: false")
	assert.Contains(t, show, "launch_at_login: true")

	_, err := c.run("settings", "set", "--preset", "90-30")
	assert.ErrorContains(t, err, "unknown preset")
	_, err = c.run("settings", "set", "--alerts", "tenMinutes")
	assert.ErrorContains(t, err, "unknown alert kind")
	_, err = c.run("settings", "set", "--work", "0")
	assert.ErrorContains(t, err, "must be positive")
}
