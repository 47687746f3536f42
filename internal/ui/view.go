package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/stigoleg/silent-sentinel/internal/keepalive"
)

// View renders the current state of the model to a string.
func View(m Model) string {
	if m.ShowHelp {
		return helpView(m)
	}
	return mainView(m)
}

// ButtonLabel returns the toggle label for a mode: the action the toggle takes.
func ButtonLabel(mode keepalive.Mode) string {
	if mode == keepalive.ModeActive {
		return "Stop"
	}
	return "Start"
}

func button(mode keepalive.Mode) string {
	if mode == keepalive.ModeActive {
		return Current.StopButton.Render(ButtonLabel(mode))
	}
	return Current.StartButton.Render(ButtonLabel(mode))
}

func mainView(m Model) string {
	var b strings.Builder
	st := m.Status

	b.WriteString(Current.Title.Render("Silent Sentinel"))
	b.WriteString("\n\n")

	b.WriteString(button(st.Mode))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(Current.Label.Render(fmt.Sprintf("%-15s", label)))
		b.WriteString(Current.Value.Render(value))
		b.WriteString("\n")
	}

	row("Mode", st.Mode.String())
	row("Cursor angle", fmt.Sprintf("%d°", st.Angle))
	row("Last activity", formatSince(st.SinceActivity))
	row("Injection", st.Health.String())
	if st.InjectionFailures > 0 {
		row("Failed ticks", fmt.Sprintf("%d", st.InjectionFailures))
	}
	if st.Platform != "" {
		row("Platform", st.Platform)
	}

	var warnings []string
	if st.Degraded {
		warnings = append(warnings, "Input hooks unavailable: automatic resume after inactivity is disabled")
	}
	if st.Locked {
		warnings = append(warnings, "Session locked: paused until unlock")
	}
	if st.Suspended {
		warnings = append(warnings, "System suspended")
	}
	for _, w := range warnings {
		b.WriteString("\n" + Current.Warning.Render("! "+w))
	}

	if m.ErrorMessage != "" {
		b.WriteString("\n\n" + Current.Error.Render(m.ErrorMessage))
	}

	b.WriteString("\n\n" + Current.Help.Render(m.help.View(m.keys.ForState(stateMain))))
	return b.String()
}

func formatSince(d time.Duration) string {
	if d < time.Second {
		return "just now"
	}
	return d.Truncate(time.Second).String() + " ago"
}

func helpView(m Model) string {
	return Current.Help.Render(m.Usage) + "\n\n" +
		Current.Help.Render(m.help.View(m.keys.ForState(stateHelp)))
}
