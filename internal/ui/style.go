// Package ui provides the terminal user interface for the idle guard.
package ui

import "github.com/charmbracelet/lipgloss"

// Colors defines the color scheme used throughout the application
type Colors struct {
	Subtle    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Active    lipgloss.AdaptiveColor
	Idle      lipgloss.AdaptiveColor
	Warning   lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor
	Label     lipgloss.AdaptiveColor
}

var defaultColors = Colors{
	Subtle:    lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"},
	Highlight: lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"},
	Active:    lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF4040"},
	Idle:      lipgloss.AdaptiveColor{Light: "#2E9E4F", Dark: "#73F59F"},
	Warning:   lipgloss.AdaptiveColor{Light: "#B58900", Dark: "#FFD75F"},
	Error:     lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF4040"},
	Label:     lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1A1A1A"},
}

// Style represents a collection of styles used in the application
type Style struct {
	Title       lipgloss.Style
	StopButton  lipgloss.Style
	StartButton lipgloss.Style
	Label       lipgloss.Style
	Value       lipgloss.Style
	Warning     lipgloss.Style
	Help        lipgloss.Style
	Error       lipgloss.Style
}

// DefaultStyle returns the default style configuration
func DefaultStyle() Style {
	base := lipgloss.NewStyle().
		PaddingLeft(1).
		PaddingRight(1)

	button := base.
		Bold(true).
		Foreground(defaultColors.Label).
		Padding(0, 3)

	return Style{
		Title: base.
			Bold(true).
			Foreground(defaultColors.Highlight),

		StopButton: button.
			Background(defaultColors.Active),

		StartButton: button.
			Background(defaultColors.Idle),

		Label: base.
			Foreground(defaultColors.Subtle),

		Value: lipgloss.NewStyle().
			Foreground(defaultColors.Highlight),

		Warning: base.
			Foreground(defaultColors.Warning),

		Help: base.
			Foreground(defaultColors.Subtle),

		Error: base.
			Foreground(defaultColors.Error),
	}
}

// Current holds the current style configuration
var Current = DefaultStyle()
