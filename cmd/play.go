package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/sdplay/internal/config"
	"github.com/llehouerou/sdplay/internal/errmsg"
	"github.com/llehouerou/sdplay/internal/playback"
	"github.com/llehouerou/sdplay/internal/player"
	"github.com/llehouerou/sdplay/internal/playlist"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the playable files in the music directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logFile, err := setupLogging(cfg, os.Stderr)
		if err != nil {
			return fail(errmsg.OpConfigLoad, err)
		}
		defer logFile.Close()

		root, err := musicRoot(cfg)
		if err != nil {
			return fail(errmsg.OpTrackList, err)
		}
		_, tracks, err := scanLibrary(root)
		if err != nil {
			return err
		}
		printTracks(cmd.OutOrStdout(), tracks)
		return nil
	},
}

var playCmd = &cobra.Command{
	Use:   "play PATH",
	Short: "Play a single file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(func(ctx context.Context, s *session) error {
			rel, err := relativeTo(s.root, args[0])
			if err != nil {
				return failWith(errmsg.OpPlayFile, args[0], err)
			}
			return follow(ctx, cmd.OutOrStdout(), s.svc, func() error {
				return wrapOp(errmsg.OpPlayFile, args[0], s.svc.Play(rel))
			})
		})
	},
}

var (
	playAllShuffle bool
	playAllRepeat  string
)

var playAllCmd = &cobra.Command{
	Use:   "play-all",
	Short: "Play every file in the music directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSession(func(ctx context.Context, s *session) error {
			shuffle, repeat, err := playlistMode(cmd, s.cfg)
			if err != nil {
				return fail(errmsg.OpPlaybackStart, err)
			}
			return follow(ctx, cmd.OutOrStdout(), s.svc, func() error {
				return wrapOp(errmsg.OpPlaybackStart, "", s.svc.PlayAll(shuffle, repeat))
			})
		})
	},
}

var playTrackCmd = &cobra.Command{
	Use:   "play-track N",
	Short: "Play the Nth file of the list (1-based)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return failWith(errmsg.OpPlayTrack, args[0], err)
		}
		return runSession(func(ctx context.Context, s *session) error {
			return follow(ctx, cmd.OutOrStdout(), s.svc, func() error {
				return wrapOp(errmsg.OpPlayTrack, args[0], s.svc.PlayTrack(n))
			})
		})
	},
}

var toneCmd = &cobra.Command{
	Use:   "tone FREQ DURATION",
	Short: "Play a sine tone (FREQ in Hz, DURATION like 1.5 or 500ms)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		freq, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return failWith(errmsg.OpPlayTone, args[0], err)
		}
		d, err := parseDuration(args[1])
		if err != nil {
			return failWith(errmsg.OpPlayTone, args[1], err)
		}
		return runSession(func(ctx context.Context, s *session) error {
			return follow(ctx, cmd.OutOrStdout(), s.svc, func() error {
				return wrapOp(errmsg.OpPlayTone, args[0], s.svc.PlayTone(freq, d))
			})
		})
	},
}

var noteCmd = &cobra.Command{
	Use:   "note NAME DURATION",
	Short: "Play a note such as A4 or C#5",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := parseDuration(args[1])
		if err != nil {
			return failWith(errmsg.OpPlayNote, args[1], err)
		}
		return runSession(func(ctx context.Context, s *session) error {
			return follow(ctx, cmd.OutOrStdout(), s.svc, func() error {
				return wrapOp(errmsg.OpPlayNote, args[0], s.svc.PlayNote(args[0], d))
			})
		})
	},
}

func init() {
	playAllCmd.Flags().BoolVar(&playAllShuffle, "shuffle", false, "shuffle the list (default from config)")
	playAllCmd.Flags().StringVar(&playAllRepeat, "repeat", "", "repeat mode: off, one or all (default from config)")
}

// playlistMode merges the play-all flags over the configured defaults.
func playlistMode(cmd *cobra.Command, cfg *config.Config) (bool, playlist.RepeatMode, error) {
	shuffle := cfg.Playback.Shuffle
	if cmd.Flags().Changed("shuffle") {
		shuffle = playAllShuffle
	}
	repeat, err := cfg.RepeatMode()
	if err != nil {
		return false, playlist.RepeatOff, err
	}
	if cmd.Flags().Changed("repeat") {
		repeat, err = playlist.ParseRepeatMode(playAllRepeat)
		if err != nil {
			return false, playlist.RepeatOff, err
		}
	}
	return shuffle, repeat, nil
}

func wrapOp(op errmsg.Op, context string, err error) error {
	if err == nil {
		return nil
	}
	return failWith(op, context, err)
}

// parseDuration accepts seconds as a plain number or a Go duration.
func parseDuration(s string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		if secs < 0 {
			return 0, fmt.Errorf("negative duration %s", s)
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", s)
	}
	return d, nil
}

func printTracks(w io.Writer, tracks []playlist.Track) {
	if len(tracks) == 0 {
		fmt.Fprintln(w, "No audio files found")
		return
	}
	fmt.Fprintf(w, "Found %d audio files:\n", len(tracks))
	for i, t := range tracks {
		fmt.Fprintf(w, "%3d. %s (%s)\n", i+1, t.Path, humanize.IBytes(uint64(max(t.Size, 0))))
	}
}

// follow starts playback and reports progress until the controller goes
// idle or ctx is cancelled.
func follow(ctx context.Context, w io.Writer, svc playback.Service, start func() error) error {
	sub := svc.Subscribe()
	if err := start(); err != nil {
		return err
	}
	if now, ok := svc.CurrentTrack(); ok {
		fmt.Fprintf(w, "Playing %s\n", now.Name)
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	began := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-sub.Done:
			return nil
		case e := <-sub.StateChanged:
			if e.Current == player.Idle || e.Current == player.Stopped {
				fmt.Fprintln(w, "Done")
				return nil
			}
		case e := <-sub.TrackChanged:
			if e.Previous != nil {
				fmt.Fprintf(w, "Playing %s\n", e.Current.Name)
			}
		case e := <-sub.Error:
			fmt.Fprintln(w, errmsg.FormatWith(errmsg.OpPlaybackStart, e.Path, e.Err))
		case <-ticker.C:
			// Events may be dropped; poll as a fallback.
			if st := svc.State(); st == player.Idle || st == player.Stopped {
				fmt.Fprintln(w, "Done")
				return nil
			}
			fmt.Fprintf(w, "Playing... %ds\n", int(time.Since(began).Seconds()))
		}
	}
}
