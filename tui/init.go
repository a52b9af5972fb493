package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ytfree-cli/ytfree/provider"
)

// Init picks the first screen and starts listening to the engine.
func (b *statefulBubble) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		b.waitForSnapshot(),
		b.requestSnapshot(),
		provider.UpdateCmd(),
	}

	switch {
	case b.options.History:
		b.setState(historyState)
		cmds = append(cmds, b.loadHistory())
	case b.catalog != nil:
		b.setState(searchState)
		b.inputC.Placeholder = "Search " + b.catalog.Name()
	default:
		b.setState(catalogsState)
		cmds = append(cmds, b.loadCatalogs())
	}

	return tea.Batch(cmds...)
}
