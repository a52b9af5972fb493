package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/ytfree-cli/ytfree/color"
	"github.com/ytfree-cli/ytfree/style"
)

type statefulKeymap struct {
	state state

	quit, forceQuit,
	confirm, back,
	acceptSearchSuggestion,
	up, down, left, right,
	top, bottom,
	showHelp key.Binding

	// transport
	playPause, next, previous,
	seekForward, seekBackward,
	volumeUp, volumeDown, mute,
	shuffle, repeat, playerMode key.Binding

	// navigation
	search, changeCatalog, queue, playlists, history, more key.Binding

	// editing
	addToQueue, addToPlaylist, remove, clearQueue, moveUp, moveDown key.Binding
}

func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		acceptSearchSuggestion: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "accept suggestion"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "down"),
		),
		left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "prev page"),
		),
		right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "next page"),
		),
		top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "top"),
		),
		bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),

		playPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp(style.Fg(color.Orange)("space"), style.Fg(color.Orange)("play/pause")),
		),
		next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next"),
		),
		previous: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "previous"),
		),
		seekForward: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "+10s"),
		),
		seekBackward: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "-10s"),
		),
		volumeUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "volume up"),
		),
		volumeDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "volume down"),
		),
		mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		shuffle: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "shuffle"),
		),
		repeat: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "repeat"),
		),
		playerMode: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "audio/video"),
		),

		search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		changeCatalog: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "change catalog"),
		),
		queue: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "queue"),
		),
		playlists: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "playlists"),
		),
		history: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "history"),
		),
		more: key.NewBinding(
			key.WithKeys("M"),
			key.WithHelp("M", "more results"),
		),

		addToQueue: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add to queue"),
		),
		addToPlaylist: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "add to playlist"),
		),
		remove: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "remove"),
		),
		clearQueue: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "clear queue"),
		),
		moveUp: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "move up"),
		),
		moveDown: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "move down"),
		),
	}
}

func (k *statefulKeymap) transport() []key.Binding {
	return []key.Binding{
		k.playPause, k.next, k.previous,
		k.seekBackward, k.seekForward,
		k.volumeDown, k.volumeUp, k.mute,
		k.shuffle, k.repeat, k.playerMode,
	}
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	to2 := func(a []key.Binding) ([]key.Binding, []key.Binding) {
		return a, a
	}

	withTransport := func(short ...key.Binding) ([]key.Binding, []key.Binding) {
		return short, append(short, k.transport()...)
	}

	switch k.state {
	case loadingState:
		return to2(h(k.forceQuit, k.back))
	case catalogsState:
		return to2(h(withDescription(k.confirm, "use catalog"), k.quit))
	case searchState:
		return to2(h(withDescription(k.confirm, "search"), k.acceptSearchSuggestion, k.back, k.forceQuit))
	case resultsState:
		return withTransport(withDescription(k.confirm, "play"), k.addToQueue, k.addToPlaylist, k.more, k.search, k.queue, k.back)
	case queueState:
		return withTransport(withDescription(k.confirm, "jump"), k.remove, k.moveUp, k.moveDown, k.clearQueue, k.back)
	case playlistsState:
		return withTransport(withDescription(k.confirm, "open"), k.back)
	case playlistState:
		return withTransport(withDescription(k.confirm, "play"), k.addToQueue, k.remove, k.back)
	case historyState:
		return withTransport(withDescription(k.confirm, "play"), k.addToQueue, k.remove, k.back)
	case errorState:
		return to2(h(k.back, k.quit))
	default:
		return to2(h())
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}

func (k *statefulKeymap) forList() list.KeyMap {
	return list.KeyMap{
		CursorUp:             k.up,
		CursorDown:           k.down,
		NextPage:             k.right,
		PrevPage:             k.left,
		GoToStart:            k.top,
		GoToEnd:              k.bottom,
		ClearFilter:          k.back,
		CancelWhileFiltering: k.back,
		AcceptWhileFiltering: k.confirm,
		ShowFullHelp:         k.showHelp,
		CloseFullHelp:        k.showHelp,
		Quit:                 k.quit,
		ForceQuit:            k.forceQuit,
	}
}

func withDescription(k key.Binding, description string) key.Binding {
	return key.NewBinding(
		key.WithKeys(k.Keys()...),
		key.WithHelp(k.Help().Key, description),
	)
}
