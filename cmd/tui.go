package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/llehouerou/sdplay/internal/app"
	"github.com/llehouerou/sdplay/internal/errmsg"
	"github.com/llehouerou/sdplay/internal/mpris"
	"github.com/llehouerou/sdplay/internal/state"
	"github.com/llehouerou/sdplay/internal/stderr"
)

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// Logs would tear through the alternate screen; keep them only when a
	// file is configured.
	logFile, err := setupLogging(cfg, io.Discard)
	if err != nil {
		return fail(errmsg.OpConfigLoad, err)
	}
	defer logFile.Close()

	repeat, err := cfg.RepeatMode()
	if err != nil {
		return fail(errmsg.OpConfigLoad, err)
	}

	// Capture before the audio backend is initialized. Failure is not
	// fatal; native messages then go to the terminal.
	var lines <-chan string
	capture, err := stderr.Start()
	if err == nil {
		defer capture.Stop()
		lines = capture.Messages
	}

	s, err := openSession(cfg)
	if err != nil {
		return err
	}

	store, err := state.Open()
	if err != nil {
		slog.Warn("session state unavailable", "error", err)
	} else {
		defer store.Close()
	}

	adapter, err := mpris.New(s.svc, s.root, mpris.Options{Shuffle: cfg.Playback.Shuffle, Repeat: repeat})
	if err != nil {
		slog.Warn("media controls unavailable", "error", err)
	} else {
		defer adapter.Close()
	}

	return s.run(context.Background(), func(ctx context.Context) error {
		m := app.New(s.svc, app.Options{Shuffle: cfg.Playback.Shuffle, Repeat: repeat}, lines)
		if store != nil {
			m = m.WithStore(store)
		}
		_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})
}
