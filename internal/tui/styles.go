package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the colour palette for the study screen.
type Theme struct {
	Primary    lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Error      lipgloss.Color
	Border     lipgloss.Color
}

func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"),
		Foreground: lipgloss.Color("#CDD6F4"),
		Muted:      lipgloss.Color("#6C7086"),
		Success:    lipgloss.Color("#A6E3A1"),
		Error:      lipgloss.Color("#F38BA8"),
		Border:     lipgloss.Color("#45475A"),
	}
}

// Styles holds the pre-configured lipgloss styles used by the views.
type Styles struct {
	Title        lipgloss.Style
	TabActive    lipgloss.Style
	TabInactive  lipgloss.Style
	Card         lipgloss.Style
	CardLabel    lipgloss.Style
	Muted        lipgloss.Style
	Error        lipgloss.Style
	Notification lipgloss.Style
	Modal        lipgloss.Style
	Help         lipgloss.Style
}

func DefaultStyles() *Styles {
	theme := DefaultTheme()
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),
		TabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder(), false, false, true, false).
			BorderForeground(theme.Primary),
		TabInactive: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 3).
			Width(64),
		CardLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),
		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),
		Error: lipgloss.NewStyle().
			Foreground(theme.Error),
		Notification: lipgloss.NewStyle().
			Foreground(theme.Success),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(theme.Error).
			Padding(1, 3).
			Width(56),
		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),
	}
}
