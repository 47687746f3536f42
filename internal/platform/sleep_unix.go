//go:build darwin || linux

package platform

import (
	"time"

	"golang.org/x/sys/unix"
)

// NewSleepDetector creates a detector reading the kernel's awake and total clocks.
func NewSleepDetector() *SleepDetector {
	return newSleepDetector(readKernelClocks, SleepCheckInterval)
}

func readKernelClocks() (awake, total time.Duration, err error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(awakeClock, &ts); err != nil {
		return 0, 0, err
	}
	awake = time.Duration(ts.Nano())
	if err := unix.ClockGettime(totalClock, &ts); err != nil {
		return 0, 0, err
	}
	return awake, time.Duration(ts.Nano()), nil
}
