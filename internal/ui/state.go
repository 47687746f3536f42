package ui

// state represents the different screens of the TUI.
type state int

const (
	stateMain state = iota
	stateHelp
)

func (s state) String() string {
	switch s {
	case stateMain:
		return "Main"
	case stateHelp:
		return "Help"
	default:
		return "Unknown"
	}
}
