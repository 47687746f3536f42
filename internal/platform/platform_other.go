//go:build !darwin && !linux && !windows

package platform

import (
	"fmt"
	"runtime"
)

// New reports that no adapter exists for this operating system.
func New() (*Platform, error) {
	return nil, fmt.Errorf("%s: %w", runtime.GOOS, ErrUnsupportedPlatform)
}
