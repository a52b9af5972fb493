// Package ui holds the transient notification line shown under the TUI.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ytfree-cli/ytfree/style"
)

// Lifetime is how long a notification stays visible.
const Lifetime = 3 * time.Second

// NotificationMsg shows Text until a newer notification replaces it or it expires.
type NotificationMsg struct {
	Text    string
	IsError bool
}

type clearMsg struct {
	id int
}

// Model is the notification line. The zero value is ready to use.
type Model struct {
	text    string
	isError bool
	id      int
}

// Notify returns a command that shows text.
func Notify(text string) tea.Cmd {
	return func() tea.Msg { return NotificationMsg{Text: text} }
}

// NotifyError returns a command that shows text highlighted as an error.
func NotifyError(text string) tea.Cmd {
	return func() tea.Msg { return NotificationMsg{Text: text, IsError: true} }
}

// Update consumes notification messages. Expiry of an older notification never clears a newer one.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotificationMsg:
		m.id++
		m.text = msg.Text
		m.isError = msg.IsError

		id := m.id
		return tea.Tick(Lifetime, func(time.Time) tea.Msg {
			return clearMsg{id: id}
		})
	case clearMsg:
		if msg.id == m.id {
			m.text = ""
			m.isError = false
		}
	}
	return nil
}

// Text is the visible notification, empty when there is none.
func (m *Model) Text() string {
	return m.text
}

// View appends the notification to the last line of content.
func (m *Model) View(content string) string {
	if m.text == "" {
		return content
	}

	render := style.Faint
	if m.isError {
		render = style.Fg(style.Danger)
	}

	lines := strings.Split(content, "\n")
	lines[len(lines)-1] += "  " + render(m.text)
	return strings.Join(lines, "\n")
}
