//go:build !linux && !windows

package serial

import (
	"fmt"
	"runtime"
)

const defaultDeviceName = "/dev/ttyS0"

func isDeviceBusy(error) bool { return false }

func openNative(name string) (handle, error) {
	return nil, fmt.Errorf("%s: %w (%s)", name, ErrUnsupported, runtime.GOOS)
}
