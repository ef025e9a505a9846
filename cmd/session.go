package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/llehouerou/sdplay/internal/config"
	"github.com/llehouerou/sdplay/internal/errmsg"
	"github.com/llehouerou/sdplay/internal/logger"
	"github.com/llehouerou/sdplay/internal/notify"
	"github.com/llehouerou/sdplay/internal/playback"
	"github.com/llehouerou/sdplay/internal/player"
	"github.com/llehouerou/sdplay/internal/playlist"
	"github.com/llehouerou/sdplay/internal/sink"
	"github.com/llehouerou/sdplay/internal/storage"
)

// opError carries the user-facing message of a failed operation.
type opError struct {
	op      errmsg.Op
	context string
	err     error
}

func (e *opError) Error() string { return errmsg.FormatWith(e.op, e.context, e.err) }
func (e *opError) Unwrap() error { return e.err }

func fail(op errmsg.Op, err error) error {
	return &opError{op: op, err: err}
}

func failWith(op errmsg.Op, context string, err error) error {
	return &opError{op: op, context: context, err: err}
}

// loadConfig reads the config files and applies command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fail(errmsg.OpConfigLoad, err)
	}
	applyFlags(cfg)
	if _, err := cfg.RepeatMode(); err != nil {
		return nil, fail(errmsg.OpConfigLoad, err)
	}
	return cfg, nil
}

func applyFlags(cfg *config.Config) {
	if flagBackend != "" {
		cfg.Sink.Backend = flagBackend
	}
	if flagMusicDir != "" {
		cfg.MusicDir = flagMusicDir
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagNotify {
		cfg.Notifications = true
	}
}

// setupLogging points the default logger at the configured file, or at
// fallback when none is set. The returned closer releases the file.
func setupLogging(cfg *config.Config, fallback io.Writer) (io.Closer, error) {
	if cfg.Log.File == "" {
		logger.Setup(fallback, cfg.Log.Level, cfg.Log.Format)
		return io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	logger.Setup(f, cfg.Log.Level, cfg.Log.Format)
	return f, nil
}

// musicRoot returns the absolute directory tracks are resolved against.
func musicRoot(cfg *config.Config) (string, error) {
	dir := cfg.MusicDir
	if dir == "" {
		dir = "."
	}
	return filepath.Abs(dir)
}

// scanLibrary lists the playable files under root.
func scanLibrary(root string) (*storage.FS, []playlist.Track, error) {
	fsys := storage.NewFS(os.DirFS(root))
	tracks, err := storage.Scan(fsys.FS(), ".")
	if err != nil {
		return nil, nil, failWith(errmsg.OpLibraryScan, root, err)
	}
	slog.Debug("library scanned", "root", root, "tracks", len(tracks))
	return fsys, tracks, nil
}

// relativeTo maps a command line path to a path inside root.
func relativeTo(root, p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside %s", p, root)
	}
	return filepath.ToSlash(rel), nil
}

// session ties the controller to its output and exposes it as a
// playback service.
type session struct {
	cfg    *config.Config
	root   string
	tracks []playlist.Track
	ctrl   *player.Controller
	out    sink.Sink
	svc    playback.Service
	closer io.Closer       // recording file
	notify notify.Notifier // nil when notifications are off
}

func openSession(cfg *config.Config) (*session, error) {
	root, err := musicRoot(cfg)
	if err != nil {
		return nil, fail(errmsg.OpLibraryScan, err)
	}
	fsys, tracks, err := scanLibrary(root)
	if err != nil {
		return nil, err
	}

	sinkCfg := cfg.GetSinkConfig()
	format := sinkCfg.Format()
	frameSamples := cfg.GetBufferConfig().FrameSamples

	ctrl, err := player.New(
		cfg.PlayerConfig(),
		player.StorageOpener(fsys, format, frameSamples),
		player.WithLogger(logger.WithComponent("player")),
	)
	if err != nil {
		return nil, fail(errmsg.OpInitialize, err)
	}

	s := &session{cfg: cfg, root: root, tracks: tracks, ctrl: ctrl}
	if err := s.openOutput(sinkCfg, frameSamples); err != nil {
		_ = ctrl.Close()
		return nil, err
	}
	slog.Info("audio output started",
		"backend", sinkCfg.Backend,
		"sample_rate", format.SampleRate,
		"channels", format.Channels,
		"record", flagRecord)

	s.svc = playback.New(ctrl, tracks, format, frameSamples,
		playback.WithNotes(playback.EqualTemperament))
	if cfg.Notifications {
		s.notify = notify.New()
	}
	return s, nil
}

func (s *session) openOutput(sinkCfg config.SinkConfig, frameSamples int) error {
	format := sinkCfg.Format()
	if flagRecord != "" {
		f, err := os.Create(flagRecord)
		if err != nil {
			return failWith(errmsg.OpRecord, flagRecord, err)
		}
		s.out, s.closer = sink.NewRecorder(f, format, frameSamples), f
	} else {
		out, err := sink.New(sinkCfg.Backend, format, frameSamples)
		if err != nil {
			return fail(errmsg.OpSinkOpen, err)
		}
		s.out = out
	}
	if err := s.out.Start(s.ctrl); err != nil {
		return errors.Join(fail(errmsg.OpSinkOpen, err), s.closeOutput())
	}
	return nil
}

func (s *session) closeOutput() error {
	err := s.out.Close()
	if s.closer != nil {
		err = errors.Join(err, s.closer.Close())
	}
	return err
}

// run drives the controller while fn runs, then shuts everything down.
// An interrupt cancels the context handed to fn.
func (s *session) run(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.ctrl.Run(gctx)
	})
	if s.notify != nil {
		sub := s.svc.Subscribe()
		g.Go(func() error {
			return notify.NewAnnouncer(s.notify, logger.WithComponent("notify")).Run(gctx, sub)
		})
	}
	g.Go(func() error {
		defer s.svc.Close()
		return fn(gctx)
	})

	err := g.Wait()
	switch {
	case err == nil:
		// Let the device play out what it already holds.
		time.Sleep(s.out.Latency())
	case errors.Is(err, context.Canceled):
		err = nil
	}
	return errors.Join(err, s.closeOutput())
}

// runSession opens a session for a one-shot command and runs fn in it.
func runSession(fn func(ctx context.Context, s *session) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logFile, err := setupLogging(cfg, os.Stderr)
	if err != nil {
		return fail(errmsg.OpConfigLoad, err)
	}
	defer logFile.Close()

	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	return s.run(context.Background(), func(ctx context.Context) error {
		return fn(ctx, s)
	})
}
