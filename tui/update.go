package tui

import (
	"fmt"
	"strings"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/ytfree-cli/ytfree/catalog"
	"github.com/ytfree-cli/ytfree/history"
	"github.com/ytfree-cli/ytfree/internal/ui"
	"github.com/ytfree-cli/ytfree/log"
	"github.com/ytfree-cli/ytfree/playback"
	"github.com/ytfree-cli/ytfree/playlist"
	"github.com/ytfree-cli/ytfree/provider"
	"github.com/ytfree-cli/ytfree/query"
	"github.com/ytfree-cli/ytfree/track"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := b.notifier.Update(msg)

	switch msg := msg.(type) {
	case snapshotMsg:
		return b, tea.Batch(cmd, b.onSnapshot(playback.State(msg)), b.waitForSnapshot())
	case provider.SourcesUpdatedMsg:
		return b, tea.Batch(b.loadCatalogs(), ui.Notify("Updated "+strings.Join(msg.Updated, ", ")))
	case loopStoppedMsg:
		b.stopLoading()
		b.raiseError(msg.err)
		return b, cmd
	case error:
		log.Error(msg)
		b.stopLoading()
		b.raiseError(msg)
		return b, cmd
	case spinner.TickMsg:
		if !b.loading {
			return b, cmd
		}
		var tick tea.Cmd
		b.spinnerC, tick = b.spinnerC.Update(msg)
		return b, tea.Batch(cmd, tick)
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, cmd

	case catalogMsg:
		b.catalog = msg.catalog
		b.inputC.Placeholder = "Search " + b.catalog.Name()
		b.inputC.Focus()
		b.finishLoading(searchState)
		return b, cmd
	case pageMsg:
		return b, tea.Batch(cmd, b.onPage(msg))
	case trendingMsg:
		b.page = catalog.Page{}
		b.resultsC.Title = "Trending on " + b.catalog.Name()
		listCmd := b.setResults(msg)
		b.finishLoading(resultsState)
		return b, tea.Batch(cmd, listCmd)
	case playlistsMsg:
		items := make([]list.Item, len(msg))
		for i, p := range msg {
			items[i] = &listItem{internal: p}
		}
		if b.pending.IsPresent() {
			b.playlistsC.Title = "Add to playlist"
		} else {
			b.playlistsC.Title = "Playlists"
		}
		listCmd := b.playlistsC.SetItems(items)
		b.finishLoading(playlistsState)
		return b, tea.Batch(cmd, listCmd)
	case playlistMsg:
		listCmd := b.setPlaylist((*playlist.Playlist)(msg))
		b.finishLoading(playlistState)
		return b, tea.Batch(cmd, listCmd)
	case historyMsg:
		listCmd := b.setHistory(msg)
		b.finishLoading(historyState)
		return b, tea.Batch(cmd, listCmd)

	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}

		if bubblesKey.Matches(msg, b.keymap.back) && b.state != searchState {
			if b.state == playlistsState {
				b.pending = mo.None[track.Track]()
			}
			b.stopLoading()
			b.previousState()
			return b, cmd
		}
	}

	var stateCmd tea.Cmd
	b, stateCmd = b.updateState(msg)
	return b, tea.Batch(cmd, stateCmd)
}

func (b *statefulBubble) updateState(msg tea.Msg) (*statefulBubble, tea.Cmd) {
	switch b.state {
	case loadingState:
		return b, nil
	case catalogsState:
		return b.updateCatalogs(msg)
	case searchState:
		return b.updateSearch(msg)
	case resultsState:
		return b.updateResults(msg)
	case queueState:
		return b.updateQueue(msg)
	case playlistsState:
		return b.updatePlaylists(msg)
	case playlistState:
		return b.updatePlaylist(msg)
	case historyState:
		return b.updateHistory(msg)
	case errorState:
		return b.updateError(msg)
	}

	return b, nil
}

// finishLoading leaves the loading screen for s. Returning to the screen the
// load started from does not grow the back stack.
func (b *statefulBubble) finishLoading(s state) {
	b.stopLoading()
	if b.state != loadingState {
		b.newState(s)
		return
	}

	if n := len(b.backStack); n > 0 && b.backStack[n-1] == s {
		b.previousState()
		return
	}
	b.newState(s)
}

func (b *statefulBubble) onSnapshot(st playback.State) tea.Cmd {
	prev := b.snapshot
	b.snapshot = st

	cmds := []tea.Cmd{b.refreshQueue()}

	if current, ok := st.CurrentTrack.Get(); ok {
		previous, had := prev.CurrentTrack.Get()
		if !had || previous.ID != current.ID {
			cmds = append(cmds, ui.Notify("Now playing: "+current.String()))
		}
	}

	return tea.Batch(cmds...)
}

func (b *statefulBubble) onPage(msg pageMsg) tea.Cmd {
	b.page = msg.page
	b.resultsC.Title = fmt.Sprintf("Results for %q", b.query)

	var cmd tea.Cmd
	if msg.more {
		cursor := b.resultsC.Index()
		cmd = b.setResults(append(b.results, msg.page.Items...))
		b.resultsC.Select(cursor)
	} else {
		cmd = b.setResults(msg.page.Items)
		b.resultsC.ResetSelected()
	}

	b.finishLoading(resultsState)

	if len(msg.page.Items) == 0 && !msg.more {
		return tea.Batch(cmd, ui.Notify("Nothing found"))
	}
	return cmd
}

// handleTransport maps the transport keys onto session operations.
func (b *statefulBubble) handleTransport(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case bubblesKey.Matches(msg, b.keymap.playPause):
		return b.do((*playback.Session).TogglePlay), true
	case bubblesKey.Matches(msg, b.keymap.next):
		return b.do((*playback.Session).Next), true
	case bubblesKey.Matches(msg, b.keymap.previous):
		return b.do((*playback.Session).Previous), true
	case bubblesKey.Matches(msg, b.keymap.seekForward):
		return b.seek(b.snapshot.CurrentTime + seekStep), true
	case bubblesKey.Matches(msg, b.keymap.seekBackward):
		return b.seek(b.snapshot.CurrentTime - seekStep), true
	case bubblesKey.Matches(msg, b.keymap.volumeUp):
		return b.do(func(s *playback.Session) { s.SetVolume(s.Snapshot().Volume + volumeStep) }), true
	case bubblesKey.Matches(msg, b.keymap.volumeDown):
		return b.do(func(s *playback.Session) { s.SetVolume(s.Snapshot().Volume - volumeStep) }), true
	case bubblesKey.Matches(msg, b.keymap.mute):
		return b.do((*playback.Session).ToggleMute), true
	case bubblesKey.Matches(msg, b.keymap.shuffle):
		return b.do((*playback.Session).ToggleShuffle), true
	case bubblesKey.Matches(msg, b.keymap.repeat):
		return b.do((*playback.Session).CycleRepeatMode), true
	case bubblesKey.Matches(msg, b.keymap.playerMode):
		return b.do((*playback.Session).TogglePlayerMode), true
	}

	return nil, false
}

// handleNavigation switches between the top-level screens.
func (b *statefulBubble) handleNavigation(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case bubblesKey.Matches(msg, b.keymap.queue):
		b.newState(queueState)
		return b.refreshQueue(), true
	case bubblesKey.Matches(msg, b.keymap.search):
		if b.catalog == nil {
			b.newState(catalogsState)
			return b.loadCatalogs(), true
		}
		b.newState(searchState)
		b.inputC.Focus()
		return nil, true
	case bubblesKey.Matches(msg, b.keymap.changeCatalog):
		b.newState(catalogsState)
		return b.loadCatalogs(), true
	case bubblesKey.Matches(msg, b.keymap.history):
		return tea.Batch(b.startLoading("Loading history"), b.loadHistory()), true
	case bubblesKey.Matches(msg, b.keymap.playlists):
		if b.playlists == nil {
			return ui.NotifyError("Playlists are unavailable"), true
		}
		return tea.Batch(b.startLoading("Loading playlists"), b.loadPlaylists()), true
	}

	return nil, false
}

// updateList runs the shared key handling of every list screen, then hands the
// message to l.
func (b *statefulBubble) updateList(l *list.Model, msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if cmd, ok := b.handleTransport(msg); ok {
			return cmd
		}
		if cmd, ok := b.handleNavigation(msg); ok {
			return cmd
		}
	}

	var cmd tea.Cmd
	*l, cmd = l.Update(msg)
	return cmd
}

func (b *statefulBubble) updateCatalogs(msg tea.Msg) (*statefulBubble, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && bubblesKey.Matches(msg, b.keymap.confirm) {
		item, ok := b.catalogsC.SelectedItem().(*listItem)
		if !ok {
			return b, nil
		}
		p := item.internal.(*provider.Provider)
		return b, tea.Batch(b.startLoading("Loading "+p.Name), b.createCatalog(p))
	}

	var cmd tea.Cmd
	b.catalogsC, cmd = b.catalogsC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateSearch(msg tea.Msg) (*statefulBubble, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			b.query = strings.TrimSpace(b.inputC.Value())
			b.searchSuggestion = mo.None[string]()
			if b.query == "" {
				return b, tea.Batch(b.startLoading("Loading trending"), b.trending())
			}
			b.rememberQuery(query.WeightSearched)
			return b, tea.Batch(
				b.startLoading(fmt.Sprintf("Searching for %s...", b.query)),
				b.searchPage(b.query, "", false),
			)
		case bubblesKey.Matches(msg, b.keymap.acceptSearchSuggestion) && b.searchSuggestion.IsPresent():
			b.inputC.SetValue(b.searchSuggestion.MustGet())
			b.searchSuggestion = mo.None[string]()
			b.inputC.CursorEnd()
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.back):
			if b.inputC.Value() != "" {
				b.inputC.SetValue("")
				b.searchSuggestion = mo.None[string]()
				return b, nil
			}
			b.previousState()
			return b, nil
		}
	}

	b.inputC, cmd = b.inputC.Update(msg)

	if value := b.inputC.Value(); value != "" {
		if suggestion, ok := query.Suggest(value).Get(); ok && suggestion != value {
			b.searchSuggestion = mo.Some(suggestion)
		} else {
			b.searchSuggestion = mo.None[string]()
		}
	} else {
		b.searchSuggestion = mo.None[string]()
	}

	return b, cmd
}

func (b *statefulBubble) updateResults(msg tea.Msg) (*statefulBubble, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		result, index, selected := b.selectedResult()

		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm) && selected:
			tracks := catalog.Tracks(b.results)
			b.rememberQuery(query.WeightPlayed)
			return b, b.do(func(s *playback.Session) { s.PlayPlaylist(tracks, index) })
		case bubblesKey.Matches(msg, b.keymap.addToQueue) && selected:
			t := result.Track()
			return b, tea.Batch(
				b.do(func(s *playback.Session) { s.AddToQueue(t) }),
				ui.Notify("Queued "+t.Title),
			)
		case bubblesKey.Matches(msg, b.keymap.addToPlaylist) && selected:
			if b.playlists == nil {
				return b, ui.NotifyError("Playlists are unavailable")
			}
			b.pending = mo.Some(result.Track())
			return b, tea.Batch(b.startLoading("Loading playlists"), b.loadPlaylists())
		case bubblesKey.Matches(msg, b.keymap.more):
			if !b.page.HasMore || b.query == "" {
				return b, ui.Notify("No more results")
			}
			return b, tea.Batch(
				b.startLoading("Loading more results"),
				b.searchPage(b.query, b.page.NextPageToken, true),
			)
		}
	}

	return b, b.updateList(&b.resultsC, msg)
}

func (b *statefulBubble) updateQueue(msg tea.Msg) (*statefulBubble, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		index := b.queueC.Index()
		selected := index >= 0 && index < len(b.snapshot.Queue)

		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm) && selected:
			t := b.snapshot.Queue[index]
			return b, b.do(func(s *playback.Session) { s.PlayTrack(t) })
		case bubblesKey.Matches(msg, b.keymap.remove) && selected:
			return b, b.do(func(s *playback.Session) { s.RemoveFromQueueByIndex(index) })
		case bubblesKey.Matches(msg, b.keymap.moveUp) && selected:
			if index > 0 {
				b.queueC.Select(index - 1)
			}
			return b, b.do(func(s *playback.Session) { s.MoveTrackUp(index) })
		case bubblesKey.Matches(msg, b.keymap.moveDown) && selected:
			if index < len(b.snapshot.Queue)-1 {
				b.queueC.Select(index + 1)
			}
			return b, b.do(func(s *playback.Session) { s.MoveTrackDown(index) })
		case bubblesKey.Matches(msg, b.keymap.clearQueue):
			return b, b.do((*playback.Session).ClearQueue)
		}
	}

	return b, b.updateList(&b.queueC, msg)
}

func (b *statefulBubble) updatePlaylists(msg tea.Msg) (*statefulBubble, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && bubblesKey.Matches(msg, b.keymap.confirm) {
		item, ok := b.playlistsC.SelectedItem().(*listItem)
		if !ok {
			return b, nil
		}
		p := item.internal.(*playlist.Playlist)

		if t, ok := b.pending.Get(); ok {
			b.pending = mo.None[track.Track]()
			b.previousState()
			return b, b.addToPlaylist(p, t)
		}

		cmd := b.setPlaylist(p)
		b.newState(playlistState)
		return b, cmd
	}

	return b, b.updateList(&b.playlistsC, msg)
}

func (b *statefulBubble) updatePlaylist(msg tea.Msg) (*statefulBubble, tea.Cmd) {
	p := b.openPlaylist
	if msg, ok := msg.(tea.KeyMsg); ok && p != nil {
		index := b.playlistC.Index()
		selected := index >= 0 && index < len(p.Tracks)

		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm) && selected:
			tracks := p.Tracks
			return b, b.do(func(s *playback.Session) { s.PlayPlaylist(tracks, index) })
		case bubblesKey.Matches(msg, b.keymap.addToQueue) && selected:
			t := p.Tracks[index]
			return b, tea.Batch(
				b.do(func(s *playback.Session) { s.AddToQueue(t) }),
				ui.Notify("Queued "+t.Title),
			)
		case bubblesKey.Matches(msg, b.keymap.remove) && selected:
			return b, b.removeFromPlaylist(p, p.Tracks[index])
		}
	}

	return b, b.updateList(&b.playlistC, msg)
}

func (b *statefulBubble) updateHistory(msg tea.Msg) (*statefulBubble, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		entries := lo.FilterMap(b.historyC.Items(), func(item list.Item, _ int) (*history.Entry, bool) {
			e, ok := item.(*listItem).internal.(*history.Entry)
			return e, ok
		})
		index := b.historyC.Index()
		selected := index >= 0 && index < len(entries)

		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm) && selected:
			tracks := lo.Map(entries, func(e *history.Entry, _ int) track.Track { return e.Track })
			return b, b.do(func(s *playback.Session) { s.PlayPlaylist(tracks, index) })
		case bubblesKey.Matches(msg, b.keymap.addToQueue) && selected:
			t := entries[index].Track
			return b, tea.Batch(
				b.do(func(s *playback.Session) { s.AddToQueue(t) }),
				ui.Notify("Queued "+t.Title),
			)
		case bubblesKey.Matches(msg, b.keymap.remove) && selected:
			entry := entries[index]
			return b, func() tea.Msg {
				if err := history.Remove(entry); err != nil {
					return err
				}
				entries, err := history.Recent()
				if err != nil {
					return err
				}
				return historyMsg(entries)
			}
		}
	}

	return b, b.updateList(&b.historyC, msg)
}

func (b *statefulBubble) updateError(msg tea.Msg) (*statefulBubble, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && bubblesKey.Matches(msg, b.keymap.quit) {
		return b, tea.Quit
	}
	return b, nil
}
