package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stigoleg/silent-sentinel/internal/keepalive"
	"github.com/stigoleg/silent-sentinel/internal/platform"
)

// refreshInterval is how often the status panel is refreshed.
const refreshInterval = time.Second

// ModeChangedMsg is sent by the engine observer after every mode change.
type ModeChangedMsg keepalive.Mode

// statusMsg carries a status snapshot fetched off the event loop.
type statusMsg keepalive.Status

// refreshMsg is sent when the status refresh timer ticks.
type refreshMsg time.Time

// Update handles messages and updates the model accordingly. Engine calls
// are made from commands so the event loop never waits on the engine worker.
func Update(msg tea.Msg, m Model) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return handleKey(msg, m)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.BlurMsg:
		return m, post(m.Engine, platform.AppDeactivated)

	case tea.FocusMsg:
		return m, post(m.Engine, platform.AppActivated)

	case ModeChangedMsg:
		m.Status.Mode = keepalive.Mode(msg)
		return m, fetchStatus(m.Engine)

	case statusMsg:
		m.Status = keepalive.Status(msg)
		return m, nil

	case refreshMsg:
		return m, tea.Batch(fetchStatus(m.Engine), refresh())
	}

	return m, nil
}

func handleKey(msg tea.KeyMsg, m Model) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.ToggleHelp):
		m.ShowHelp = !m.ShowHelp
		if m.ShowHelp {
			m.State = stateHelp
		} else {
			m.State = stateMain
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if m.State == stateHelp {
			m.ShowHelp = false
			m.State = stateMain
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Toggle):
		if m.State != stateMain {
			return m, nil
		}
		m.ErrorMessage = ""
		return m, toggle(m.Engine)
	}

	return m, nil
}

func toggle(engine Engine) tea.Cmd {
	if engine == nil {
		return nil
	}
	return func() tea.Msg {
		engine.Toggle()
		return statusMsg(engine.Status())
	}
}

func post(engine Engine, kind platform.SystemEventKind) tea.Cmd {
	if engine == nil {
		return nil
	}
	ev := platform.NewSystemEvent(kind)
	return func() tea.Msg {
		engine.Post(ev)
		return nil
	}
}

func fetchStatus(engine Engine) tea.Cmd {
	if engine == nil {
		return nil
	}
	return func() tea.Msg {
		return statusMsg(engine.Status())
	}
}

func refresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}
