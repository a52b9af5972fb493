package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/ytfree-cli/ytfree/catalog"
	"github.com/ytfree-cli/ytfree/color"
	"github.com/ytfree-cli/ytfree/icon"
	"github.com/ytfree-cli/ytfree/playback"
	"github.com/ytfree-cli/ytfree/playlist"
	"github.com/ytfree-cli/ytfree/query"
	"github.com/ytfree-cli/ytfree/style"
	"github.com/ytfree-cli/ytfree/track"
	"github.com/ytfree-cli/ytfree/util"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringP("playlist", "l", "", "Play a saved playlist by id instead of searching")
	playCmd.Flags().BoolP("shuffle", "s", false, "Shuffle the queue")
	playCmd.Flags().StringP("repeat", "r", "", "Repeat mode: none, one or all")
	playCmd.Flags().Bool("video", false, "Open a video window")

	lo.Must0(playCmd.RegisterFlagCompletionFunc("repeat", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"none", "one", "all"}, cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(playCmd.RegisterFlagCompletionFunc("playlist", completionPlaylists))
}

// playCmd plays without the interactive interface and exits when playback stops.
var playCmd = &cobra.Command{
	Use:   "play [query]",
	Short: "Play search results or a playlist without the interface",
	Long: `Queue the first page of search results, or a saved playlist, and play it in the background.
The command exits when the queue finishes or on interrupt.`,
	Example: `  ytfree play lofi hip hop
  ytfree play --playlist 5f0c... --shuffle --repeat all`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		tracks, err := playTracks(ctx, cmd, args)
		handleErr(err)

		repeat := repeatFlag(cmd)
		shuffle := mo.None[bool]()
		if cmd.Flags().Changed("shuffle") {
			shuffle = mo.Some(lo.Must(cmd.Flags().GetBool("shuffle")))
		}

		CheckDependencies()

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		e, err := newEngine(ctx, playerMode(cmd))
		handleErr(err)

		e.Subscribe(nowPlaying(cancel))

		go func() {
			_ = e.Do(func(s *playback.Session) {
				if r, ok := repeat.Get(); ok {
					s.SetRepeatMode(r)
				}
				if on, ok := shuffle.Get(); ok && on != s.Snapshot().IsShuffled {
					s.ToggleShuffle()
				}
				s.PlayPlaylist(tracks, 0)
			})
		}()

		handleErr(e.Run(ctx))
	},
}

// playTracks resolves the queue from --playlist or the query arguments.
func playTracks(ctx context.Context, cmd *cobra.Command, args []string) ([]track.Track, error) {
	if id := lo.Must(cmd.Flags().GetString("playlist")); id != "" {
		store, err := openStore()
		if err != nil {
			return nil, err
		}
		defer util.Ignore(store.Close)

		p, err := store.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		user, _ := currentUser().Get()
		if !p.CanView(user.ID) {
			return nil, fmt.Errorf("%w: %s is private", playlist.ErrForbidden, p.Name)
		}
		if len(p.Tracks) == 0 {
			return nil, fmt.Errorf("playlist %s is empty", p.Name)
		}
		return p.Tracks, nil
	}

	q := strings.TrimSpace(strings.Join(args, " "))
	if q == "" {
		return nil, errors.New("nothing to play, pass a query or --playlist")
	}

	c, err := selectedCatalog()
	if err != nil {
		return nil, err
	}

	page, err := c.Search(ctx, q, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name(), err)
	}
	if len(page.Items) == 0 {
		return nil, fmt.Errorf("no results for %q on %s", q, c.Name())
	}

	_ = query.Remember(q, query.WeightPlayed)
	return catalog.Tracks(page.Items), nil
}

// repeatFlag is the --repeat mode, absent when the flag is empty.
func repeatFlag(cmd *cobra.Command) mo.Option[playback.RepeatMode] {
	flag := lo.Must(cmd.Flags().GetString("repeat"))
	if flag == "" {
		return mo.None[playback.RepeatMode]()
	}

	r, err := playback.ParseRepeatMode(flag)
	handleErr(err)
	return mo.Some(r)
}

// nowPlaying prints every track change and calls stop once playback halts.
func nowPlaying(stop func()) func(playback.State) {
	var (
		lastID  string
		playing bool
	)

	return func(st playback.State) {
		if current, ok := st.CurrentTrack.Get(); ok && st.IsPlaying && current.ID != lastID {
			lastID = current.ID
			fmt.Printf("%s %s %s\n",
				icon.Get(icon.Play),
				style.Bold(current.String()),
				style.Fg(color.Yellow)(fmt.Sprintf("[%d/%d]", st.CurrentIndex()+1, len(st.Queue))),
			)
		}

		if playing && !st.IsPlaying {
			stop()
		}
		playing = st.IsPlaying
	}
}
