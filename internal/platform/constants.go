package platform

import "time"

// Polling intervals used by adapters that cannot subscribe to OS notifications.
const (
	// IdlePollInterval is how often polled activity hooks sample system idle time.
	IdlePollInterval = time.Second

	// SessionPollInterval is how often lock state is sampled.
	SessionPollInterval = 2 * time.Second

	// SleepCheckInterval is how often the sleep detector samples the kernel clocks.
	SleepCheckInterval = 5 * time.Second

	// SuspendGapThreshold is the time unseen by the awake clock that counts as a suspend.
	SuspendGapThreshold = 2 * time.Second

	// commandTimeout bounds helper commands (xdotool, loginctl, osascript).
	commandTimeout = 3 * time.Second
)
