package config

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Usage renders the help text shown by --help and the TUI help screen.
func Usage() string {
	defaults := DefaultFile()

	names := make([]string, 0, len(Flags))
	descs := make([]string, 0, len(Flags))
	for _, f := range Flags {
		name := "    " + f.Long
		if f.Short != "" {
			name = f.Short + ", " + f.Long
		}
		if f.Arg != "" {
			name += " " + f.Arg
		}
		desc := f.Desc
		if d := flagDefault(f.Long, defaults); d != "" {
			desc += " (default " + d + ")"
		}
		names = append(names, "  "+name)
		descs = append(descs, desc)
	}
	table := lipgloss.JoinHorizontal(lipgloss.Top,
		strings.Join(names, "\n"), "  ", strings.Join(descs, "\n"))

	return "Silent Sentinel Help\n\n" +
		"Usage:\n  sentinel [flags]\n\n" +
		"Flags:\n" + table + "\n\n" +
		"Durations accept Go syntax (\"90s\", \"4m\") or a bare number of minutes.\n\n" +
		"Examples:\n" +
		"  sentinel                          # Start with the interactive TUI\n" +
		"  sentinel --idle-threshold 10m     # Resume only after 10 minutes away\n" +
		"  sentinel --headless --tick 30s    # Run in the background"
}

func flagDefault(long string, f *File) string {
	switch long {
	case "--config":
		return "~/.config/sentinel/config.yaml"
	case "--center":
		return f.Center
	case "--radius":
		return strconv.Itoa(f.Radius)
	case "--step":
		return strconv.Itoa(f.Step)
	case "--tick":
		return f.Tick
	case "--idle-check":
		return f.IdleCheck
	case "--idle-threshold":
		return f.IdleThreshold
	case "--focus-grace":
		return f.FocusGrace
	}
	return ""
}
