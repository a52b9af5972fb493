package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/ytfree-cli/ytfree/adapter"
	"github.com/ytfree-cli/ytfree/catalog"
	"github.com/ytfree-cli/ytfree/constant"
	"github.com/ytfree-cli/ytfree/internal/ui"
	"github.com/ytfree-cli/ytfree/key"
	"github.com/ytfree-cli/ytfree/playback"
	"github.com/ytfree-cli/ytfree/playlist"
	"github.com/ytfree-cli/ytfree/style"
	"github.com/ytfree-cli/ytfree/track"
	"github.com/ytfree-cli/ytfree/util"
)

// transportHeight is the number of lines the transport bar takes under every list.
const transportHeight = 3

type statefulBubble struct {
	ctx context.Context

	state         state
	backStack     []state
	loading       bool

	keymap *statefulKeymap

	// components
	spinnerC    spinner.Model
	inputC      textinput.Model
	catalogsC   list.Model
	resultsC    list.Model
	queueC      list.Model
	playlistsC  list.Model
	playlistC   list.Model
	historyC    list.Model
	progressC   progress.Model
	helpC       help.Model
	notifier    *ui.Model
	unsubscribe func()

	player    Player
	seeker    adapter.Seeker
	snapshots chan playback.State
	snapshot  playback.State

	catalog catalog.Catalog
	query   string
	page    catalog.Page
	results []catalog.Result

	playlists        Playlists
	userID, userName string
	openPlaylist     *playlist.Playlist
	// pending is the track waiting for a playlist to be picked.
	pending mo.Option[track.Track]

	progressStatus   string
	searchSuggestion mo.Option[string]
	lastError        error

	width, height int

	options *Options
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	if !lo.Contains(transient, b.state) {
		b.backStack = append(b.backStack, b.state)
	}

	b.setState(s)
}

func (b *statefulBubble) previousState() {
	if s, ok := b.popState(); ok {
		b.setState(s)
	}
}

func (b *statefulBubble) popState() (state, bool) {
	n := len(b.backStack)
	if n == 0 {
		return 0, false
	}
	s := b.backStack[n-1]
	b.backStack = b.backStack[:n-1]
	return s, true
}

func (b *statefulBubble) lists() []*list.Model {
	return []*list.Model{&b.catalogsC, &b.resultsC, &b.queueC, &b.playlistsC, &b.playlistC, &b.historyC}
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	listWidth := width - xx
	listHeight := height - yy - transportHeight

	for _, l := range b.lists() {
		l.SetSize(listWidth, listHeight)
		l.Help.Width = listWidth
	}

	b.progressC.Width = listWidth - len(" 00:00:00 / 00:00:00")
	b.helpC.Width = listWidth

	b.width = width - x
	b.height = height - y
}

func (b *statefulBubble) startLoading(status string) tea.Cmd {
	b.loading = true
	b.progressStatus = status
	b.newState(loadingState)
	return b.spinnerC.Tick
}

func (b *statefulBubble) stopLoading() {
	b.loading = false
	b.progressStatus = ""
}

func newBubble(ctx context.Context, player Player, options *Options) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		ctx:           ctx,
		keymap:        keymap,
		notifier:      &ui.Model{},
		player:        player,
		seeker:        player.Seeker(),
		snapshots:     make(chan playback.State, 1),
		catalog:       options.Catalog,
		playlists:     options.Playlists,
		options:       options,
	}

	if user, ok := options.User.Get(); ok {
		bubble.userID, bubble.userName = user.ID, user.Name
	}

	bubble.unsubscribe = player.Subscribe(bubble.publish)

	makeList := func(title string, titleColor lipgloss.Color, singular, plural string) list.Model {
		delegate := list.NewDefaultDelegate()
		delegate.SetSpacing(viper.GetInt(key.TUIItemSpacing))
		delegate.Styles.SelectedTitle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(style.Accent).
			Foreground(style.Accent).
			Padding(0, 0, 0, 1)
		delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
		delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

		listC := list.New([]list.Item{}, delegate, 0, 0)
		listC.KeyMap = bubble.keymap.forList()
		listC.AdditionalShortHelpKeys = bubble.keymap.ShortHelp
		listC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
			return bubble.keymap.FullHelp()[0]
		}
		listC.Title = title
		listC.Styles.Title = lipgloss.NewStyle().Foreground(style.Surface).Background(titleColor).Padding(0, 1)
		listC.Styles.NoItems = paddingStyle
		listC.StatusMessageLifetime = time.Hour * 999
		listC.SetFilteringEnabled(false)
		listC.SetShowPagination(false)
		listC.SetShowStatusBar(false)
		listC.SetStatusBarItemName(singular, plural)

		return listC
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bubble.inputC = textinput.New()
	bubble.inputC.Placeholder = fmt.Sprintf("Search music (v%s)", constant.Version)
	bubble.inputC.CharLimit = 80
	bubble.inputC.Prompt = viper.GetString(key.TUISearchPromptString)

	bubble.progressC = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	bubble.catalogsC = makeList("Catalogs", style.Accent, "catalog", "catalogs")
	bubble.resultsC = makeList("Results", style.ResultsColor, "result", "results")
	bubble.queueC = makeList("Queue", style.QueueColor, "track", "tracks")
	bubble.playlistsC = makeList("Playlists", style.PlaylistColor, "playlist", "playlists")
	bubble.playlistC = makeList("Playlist", style.PlaylistColor, "track", "tracks")
	bubble.historyC = makeList("History", style.HistoryColor, "entry", "entries")

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	bubble.inputC.Focus()

	return &bubble
}
