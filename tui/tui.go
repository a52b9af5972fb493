// Package tui is the terminal player: search a catalog, queue results and
// control playback while the engine loop runs underneath.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
	"github.com/ytfree-cli/ytfree/adapter"
	"github.com/ytfree-cli/ytfree/catalog"
	"github.com/ytfree-cli/ytfree/engine"
	"github.com/ytfree-cli/ytfree/identity"
	"github.com/ytfree-cli/ytfree/playback"
	"github.com/ytfree-cli/ytfree/playlist"
	"github.com/ytfree-cli/ytfree/track"
)

// Player is the part of engine.Engine the interface drives.
type Player interface {
	Do(cmd engine.Command) error
	Seeker() adapter.Seeker
	Subscribe(fn func(playback.State)) (unsubscribe func())
}

// Playlists is the part of playlist.Store the interface uses.
type Playlists interface {
	List(ctx context.Context, userID string) ([]*playlist.Playlist, error)
	AddTrack(ctx context.Context, id string, t track.Track) (*playlist.Playlist, error)
	RemoveTrack(ctx context.Context, id, trackID string) (*playlist.Playlist, error)
}

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// Catalog skips the catalog picker when set.
	Catalog catalog.Catalog

	// Playlists is nil when the playlist database is unavailable.
	Playlists Playlists
	User      mo.Option[identity.User]

	// History opens the listening log first.
	History bool
}

type loopStoppedMsg struct {
	err error
}

// Run starts the engine loop and the Bubble Tea program, and returns when either ends.
func Run(ctx context.Context, e *engine.Engine, options *Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bubble := newBubble(ctx, e, options)
	defer bubble.unsubscribe()

	program := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithContext(ctx))

	loop := make(chan error, 1)
	go func() {
		err := e.Run(ctx)
		loop <- err
		if err != nil {
			program.Send(loopStoppedMsg{err: err})
		}
	}()

	_, err := program.Run()
	cancel()
	<-loop

	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
