package ui

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stigoleg/silent-sentinel/internal/keepalive"
	"github.com/stigoleg/silent-sentinel/internal/platform"
)

// Engine is the part of keepalive.Engine the TUI drives.
type Engine interface {
	Toggle()
	Status() keepalive.Status
	Post(ev platform.SystemEvent)
}

// Model holds the current state of the UI.
type Model struct {
	State        state
	Engine       Engine
	Status       keepalive.Status
	ErrorMessage string
	ShowHelp     bool
	Width        int

	// Usage is the flag reference shown on the help screen.
	Usage string

	keys KeyMap
	help help.Model
}

// InitialModel returns the initial model for the TUI.
func InitialModel(engine Engine) Model {
	return Model{
		State:  stateMain,
		Engine: engine,
		keys:   DefaultKeys(),
		help:   NewHelpModel(),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(fetchStatus(m.Engine), refresh())
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return Update(msg, m)
}

// View implements tea.Model
func (m Model) View() string {
	return View(m)
}

// NewProgram creates the bubbletea program for the model. Terminal focus
// reporting is enabled so focus changes reach the engine.
func NewProgram(m Model, opts ...tea.ProgramOption) *tea.Program {
	opts = append([]tea.ProgramOption{tea.WithReportFocus()}, opts...)
	return tea.NewProgram(m, opts...)
}

// Bind forwards engine mode changes to the running program. Call it before
// the engine starts.
func Bind(p *tea.Program, engine interface{ OnModeChanged(func(keepalive.Mode)) }) {
	engine.OnModeChanged(func(mode keepalive.Mode) {
		p.Send(ModeChangedMsg(mode))
	})
}
