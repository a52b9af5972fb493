package cmd

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ytfree-cli/ytfree/config"
	"github.com/ytfree-cli/ytfree/engine"
	"github.com/ytfree-cli/ytfree/key"
	"github.com/ytfree-cli/ytfree/log"
	"github.com/ytfree-cli/ytfree/playback"
	"github.com/ytfree-cli/ytfree/playlist"
	"github.com/ytfree-cli/ytfree/where"
	"github.com/ytfree-cli/ytfree/widget/mpv"
)

// playerMode is --video when given, else player.mode.
func playerMode(cmd *cobra.Command) playback.PlayerMode {
	if f := cmd.Flags().Lookup("video"); f != nil && f.Changed {
		if lo.Must(cmd.Flags().GetBool("video")) {
			return playback.ModeVideo
		}
		return playback.ModeAudio
	}

	mode, err := playback.ParsePlayerMode(viper.GetString(key.PlayerMode))
	if err != nil {
		log.Warnf("%v, using audio", err)
	}
	return mode
}

// newEngine spawns the rendering widget and wires a fresh session to it.
func newEngine(ctx context.Context, mode playback.PlayerMode) (*engine.Engine, error) {
	if backend := viper.GetString(key.PlayerBackend); backend != "mpv" {
		return nil, fmt.Errorf("unsupported player backend %q", backend)
	}

	w := mpv.New(mpv.Options{
		Args:  viper.GetStringSlice(key.PlayerMpvArgs),
		Video: mode == playback.ModeVideo,
	})
	if err := w.Start(ctx); err != nil {
		return nil, err
	}

	session := playback.New(
		playback.WithVolume(config.DefaultVolume()),
		playback.WithRestartThreshold(config.RestartThreshold()),
		playback.WithPlayerMode(mode),
	)

	options := []engine.Option{
		engine.WithPollInterval(config.PollInterval()),
		engine.WithPreferences(),
	}
	if viper.GetBool(key.HistorySaveOnPlay) {
		options = append(options, engine.WithHistory())
	}

	return engine.New(ctx, session, w, options...), nil
}

func openStore() (*playlist.Store, error) {
	return playlist.Open(where.Database())
}
