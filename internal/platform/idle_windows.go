package platform

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"time"
	"unsafe"
)

var (
	user32           = syscall.NewLazyDLL("user32.dll")
	kernel32         = syscall.NewLazyDLL("kernel32.dll")
	getLastInputInfo = user32.NewProc("GetLastInputInfo")
	getTickCount64   = kernel32.NewProc("GetTickCount64")
)

type idleProvider struct{}

type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

func newIdleProvider() IdleProvider {
	if getLastInputInfo.Find() != nil || getTickCount64.Find() != nil {
		return unsupportedIdleProvider{}
	}
	return &idleProvider{}
}

func (provider *idleProvider) IdleDuration(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	info := lastInputInfo{cbSize: uint32(unsafe.Sizeof(lastInputInfo{}))}
	result, _, err := getLastInputInfo.Call(uintptr(unsafe.Pointer(&info)))
	if result == 0 {
		if err == nil {
			err = errors.New("unknown error")
		}
		return 0, fmt.Errorf("get last input info: %w", err)
	}

	ticks, _, _ := getTickCount64.Call()
	// dwTime wraps every 49.7 days; compare in the same 32-bit space
	idleMillis := uint32(uint64(ticks)) - info.dwTime
	return time.Duration(idleMillis) * time.Millisecond, nil
}
