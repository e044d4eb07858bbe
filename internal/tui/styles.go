package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	colorPlaying = lipgloss.Color("2")  // green
	colorPaused  = lipgloss.Color("3")  // yellow
	colorError   = lipgloss.Color("1")  // red
	colorHeader  = lipgloss.Color("12") // bright blue
	colorMuted   = lipgloss.Color("8")  // dim
	colorAccent  = lipgloss.Color("6")  // cyan

	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHeader)

	infoStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	accentStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	notificationBarStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)
)

// playStyle returns the badge style for the playback state.
func playStyle(playing bool) lipgloss.Style {
	if playing {
		return lipgloss.NewStyle().Foreground(colorPlaying).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(colorPaused)
}

// playLabel returns the badge text for the playback state.
func playLabel(playing bool) string {
	if playing {
		return "▶ PLAYING"
	}
	return "❚❚ PAUSED"
}
