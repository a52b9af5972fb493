// Package style holds the lipgloss renderers shared by the CLI and the player.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/ytfree-cli/ytfree/color"
)

// New is an empty style.
func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Fg renders with the foreground c.
func Fg(c lipgloss.Color) func(string) string {
	s := New().Foreground(c)
	return func(text string) string { return s.Render(text) }
}

var (
	Faint = func(s string) string { return New().Faint(true).Render(s) }
	Bold  = func(s string) string { return New().Bold(true).Render(s) }
)

// Truncate cuts rendered lines to max cells.
func Truncate(max int) func(string) string {
	return func(s string) string { return New().MaxWidth(max).Render(s) }
}

// Title is a pane heading.
func Title(s string) string {
	return banner(color.New("62")).Render(s)
}

// ErrorTitle is the heading of the error screen.
func ErrorTitle(s string) string {
	return banner(color.Red).Render(s)
}

func banner(bg lipgloss.Color) lipgloss.Style {
	return New().Foreground(color.New("230")).Background(bg).Padding(0, 1)
}
