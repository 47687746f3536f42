package platform

import "golang.org/x/sys/unix"

// CLOCK_UPTIME_RAW stops during sleep; CLOCK_MONOTONIC does not.
const (
	awakeClock = unix.CLOCK_UPTIME_RAW
	totalClock = unix.CLOCK_MONOTONIC
)
