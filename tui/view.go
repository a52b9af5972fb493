package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/ytfree-cli/ytfree/color"
	"github.com/ytfree-cli/ytfree/icon"
	"github.com/ytfree-cli/ytfree/playback"
	"github.com/ytfree-cli/ytfree/style"
	"github.com/ytfree-cli/ytfree/util"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
	transportStyle        = lipgloss.NewStyle().Padding(0, 2)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case catalogsState:
		output = b.viewList(b.catalogsC.View())
	case searchState:
		output = b.viewSearch()
	case resultsState:
		output = b.viewList(b.resultsC.View())
	case queueState:
		output = b.viewList(b.queueC.View())
	case playlistsState:
		output = b.viewList(b.playlistsC.View())
	case playlistState:
		output = b.viewList(b.playlistC.View())
	case historyState:
		output = b.viewList(b.historyC.View())
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewList(content string) string {
	return listExtraPaddingStyle.Render(content) + "\n" + b.viewTransport()
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			style.Title("Loading"),
			"",
			b.spinnerC.View() + " " + b.progressStatus,
		},
	)
}

func (b *statefulBubble) viewSearch() string {
	input := b.inputC.View()
	if suggestion, ok := b.searchSuggestion.Get(); ok {
		rest := strings.TrimPrefix(suggestion, b.inputC.Value())
		if rest != suggestion {
			input += style.Faint(rest)
		} else {
			input += "  " + style.Faint(suggestion)
		}
	}

	title := "Search"
	if b.catalog != nil {
		title += " " + b.catalog.Name()
	}

	lines := []string{
		style.Title(title),
		"",
		input,
		"",
		style.Faint("Leave empty to see what is trending"),
	}

	return b.renderLines(true, lines) + "\n" + b.viewTransport()
}

// viewTransport renders the now playing line, the progress bar and the mode flags.
func (b *statefulBubble) viewTransport() string {
	st := b.snapshot

	current, ok := st.CurrentTrack.Get()
	if !ok {
		return transportStyle.Render(style.Faint("Nothing playing"))
	}

	stateIcon := icon.Get(icon.Pause)
	if st.IsPlaying {
		stateIcon = icon.Get(icon.Play)
	}

	nowPlaying := fmt.Sprintf("%s %s %s", stateIcon, style.Fg(color.Purple)(current.Title), style.Faint(current.Artist))

	position := fmt.Sprintf(" %s / %s", util.FormatSeconds(st.CurrentTime), util.FormatSeconds(st.Duration))

	return transportStyle.Render(strings.Join([]string{
		style.Truncate(b.width)(nowPlaying),
		b.progressC.ViewAs(st.Progress()) + position,
		modes(st),
	}, "\n"))
}

func modes(st playback.State) string {
	var parts []string

	if st.IsMuted || st.EffectiveVolume() == 0 {
		parts = append(parts, icon.Get(icon.Muted)+" muted")
	} else {
		parts = append(parts, fmt.Sprintf("%s %d%%", icon.Get(icon.Volume), int(math.Round(st.Volume*100))))
	}

	switch st.RepeatMode {
	case playback.RepeatOne:
		parts = append(parts, icon.Get(icon.RepeatOne)+" repeat one")
	case playback.RepeatAll:
		parts = append(parts, icon.Get(icon.RepeatAll)+" repeat all")
	}

	if st.IsShuffled {
		parts = append(parts, icon.Get(icon.Shuffle)+" shuffle")
	}

	parts = append(parts, st.PlayerMode.String())

	if n := len(st.Queue); n > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d", st.CurrentIndex()+1, n))
	}

	return style.Faint(strings.Join(parts, " • "))
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	errorBody := errorStyle.Render(b.lastError.Error())
	errorMsg := wrap.String(errorBody, b.width)
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
			errorMsg,
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if gap := b.height - h - transportHeight; gap > 0 {
			l += strings.Repeat("\n", gap)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
