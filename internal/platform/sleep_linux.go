package platform

import "golang.org/x/sys/unix"

// CLOCK_MONOTONIC stops during suspend; CLOCK_BOOTTIME does not.
const (
	awakeClock = unix.CLOCK_MONOTONIC
	totalClock = unix.CLOCK_BOOTTIME
)
