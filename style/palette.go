package style

import "github.com/charmbracelet/lipgloss"

// Theme colors of the player interface. These are fixed hex values so the
// panes look the same on every terminal theme.
var (
	Surface = lipgloss.Color("#1e1e2e")
	Text    = lipgloss.Color("#cdd6f4")
	Danger  = lipgloss.Color("#f38ba8")
	Accent  = lipgloss.Color("#cba6f7")
)

// Pane title colors, one per list the player shows.
var (
	ResultsColor  = lipgloss.Color("#b4befe")
	QueueColor    = lipgloss.Color("#fab387")
	PlaylistColor = lipgloss.Color("#89b4fa")
	HistoryColor  = lipgloss.Color("#f9e2af")
)
