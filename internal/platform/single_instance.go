package platform

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"net"
	"strings"
	"time"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

const showCommand = "show"

// InstanceGuard holds the single-instance lock. Only the holder runs a
// session engine, so two processes never tick against the same profile.
type InstanceGuard struct {
	listener net.Listener
	address  string
}

// AcquireSingleInstance attempts to bind a deterministic localhost port.
func AcquireSingleInstance(ctx context.Context, appName string) (*InstanceGuard, error) {
	address := instanceAddress(appName)
	var config net.ListenConfig
	listener, err := config.Listen(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyRunning, address)
	}
	return &InstanceGuard{listener: listener, address: address}, nil
}

// NotifyRunning asks the instance holding the lock to show itself.
func NotifyRunning(ctx context.Context, appName string) error {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", instanceAddress(appName))
	if err != nil {
		return fmt.Errorf("dial running instance: %w", err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	if _, err := fmt.Fprintln(conn, showCommand); err != nil {
		return fmt.Errorf("notify running instance: %w", err)
	}
	return nil
}

// Serve accepts show requests from later instances until the guard is
// released or ctx is cancelled.
func (guard *InstanceGuard) Serve(ctx context.Context, onShow func(), logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	go func() {
		<-ctx.Done()
		_ = guard.Release()
	}()

	for {
		conn, err := guard.listener.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				logger.Warn("instance guard accept failed", "error", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		line, _ := bufio.NewReader(conn).ReadString('\n')
		_ = conn.Close()
		if strings.TrimSpace(line) == showCommand {
			onShow()
		}
	}
}

// Release frees the single instance lock.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	err := guard.listener.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

func instanceAddress(appName string) string {
	return fmt.Sprintf("127.0.0.1:%d", portFromName(appName))
}

func portFromName(appName string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(strings.ToLower(appName)))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}
