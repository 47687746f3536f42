package util

import (
	"fmt"
	"strconv"
	"time"
)

// ParseDuration accepts either a bare integer (minutes) or a Go duration string.
func ParseDuration(input string) (time.Duration, error) {
	if minutes, err := strconv.Atoi(input); err == nil {
		if minutes < 0 {
			return 0, durationError(input)
		}
		return time.Duration(minutes) * time.Minute, nil
	}

	duration, err := time.ParseDuration(input)
	if err != nil || duration < 0 {
		return 0, durationError(input)
	}
	return duration, nil
}

func durationError(input string) error {
	return fmt.Errorf("Invalid duration format: %q\n\nValid formats:\n"+
		"• minutes as a number (e.g., '4')\n"+
		"• Go duration (e.g., '90s', '4m', '1h30m')", input)
}
