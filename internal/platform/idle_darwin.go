package platform

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

type idleProvider struct{}

func newIdleProvider() IdleProvider {
	if _, err := exec.LookPath("ioreg"); err != nil {
		return unsupportedIdleProvider{}
	}
	return &idleProvider{}
}

func (provider *idleProvider) IdleDuration(ctx context.Context) (time.Duration, error) {
	output, err := exec.CommandContext(ctx, "ioreg", "-c", "IOHIDSystem", "-d", "4").Output()
	if err != nil {
		return 0, fmt.Errorf("ioreg: %w", err)
	}
	return parseHIDIdle(string(output))
}
