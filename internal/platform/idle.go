package platform

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrIdleUnsupported indicates idle detection is not available on this system.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// IdleProvider returns the duration since last user input.
type IdleProvider interface {
	IdleDuration(ctx context.Context) (time.Duration, error)
}

// NewIdleProvider returns a platform-specific idle provider.
func NewIdleProvider() IdleProvider {
	return newIdleProvider()
}

type unsupportedIdleProvider struct{}

func (unsupportedIdleProvider) IdleDuration(context.Context) (time.Duration, error) {
	return 0, ErrIdleUnsupported
}

// parseMillis reads xprintidle output.
func parseMillis(output string) (time.Duration, error) {
	value := strings.TrimSpace(output)
	millis, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle milliseconds %q: %w", value, err)
	}
	if millis < 0 {
		millis = 0
	}
	return time.Duration(millis) * time.Millisecond, nil
}

var mutterIdlePattern = regexp.MustCompile(`uint64\s+(\d+)`)

// parseMutterIdle reads the GVariant reply of
// org.gnome.Mutter.IdleMonitor.GetIdletime, e.g. "(uint64 1234,)".
func parseMutterIdle(output string) (time.Duration, error) {
	match := mutterIdlePattern.FindStringSubmatch(output)
	if match == nil {
		return 0, fmt.Errorf("parse mutter idle time: unexpected reply %q", strings.TrimSpace(output))
	}
	millis, err := strconv.ParseUint(match[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse mutter idle time: %w", err)
	}
	return time.Duration(millis) * time.Millisecond, nil
}

var hidIdlePattern = regexp.MustCompile(`"HIDIdleTime"\s*=\s*(\d+)`)

// parseHIDIdle reads the HIDIdleTime nanoseconds from `ioreg -c IOHIDSystem`.
func parseHIDIdle(output string) (time.Duration, error) {
	match := hidIdlePattern.FindStringSubmatch(output)
	if match == nil {
		return 0, fmt.Errorf("parse HIDIdleTime: %w", ErrIdleUnsupported)
	}
	nanos, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse HIDIdleTime: %w", err)
	}
	return time.Duration(nanos), nil
}
