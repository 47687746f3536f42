//go:build linux

package linux

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// SessionLocked reports the logind LockedHint of the current graphical session.
func SessionLocked() (bool, error) {
	id, err := sessionID()
	if err != nil {
		return false, err
	}
	out, err := runVerbose("loginctl", "show-session", id, "-p", "LockedHint", "--value")
	if err != nil {
		return false, fmt.Errorf("loginctl show-session %s: %w (output: %q)", id, err, out)
	}
	return parseLockedHint(out)
}

func sessionID() (string, error) {
	if id := os.Getenv("XDG_SESSION_ID"); id != "" {
		return id, nil
	}
	// Terminals started by systemd user units do not inherit XDG_SESSION_ID.
	out, err := runVerbose("loginctl", "show-user", os.Getenv("USER"), "-p", "Display", "--value")
	if err != nil {
		return "", fmt.Errorf("loginctl show-user: %w (output: %q)", err, out)
	}
	if out == "" {
		return "", errors.New("no graphical session found for user")
	}
	return out, nil
}

func parseLockedHint(out string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(out)) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("unexpected LockedHint value %q", out)
	}
}
