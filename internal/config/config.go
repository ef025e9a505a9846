package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/sdplay/internal/pcm"
	"github.com/llehouerou/sdplay/internal/player"
	"github.com/llehouerou/sdplay/internal/playlist"
	"github.com/llehouerou/sdplay/internal/sink"
)

const appName = "sdplay"

type Config struct {
	MusicDir      string `koanf:"music_dir"`     // root of the medium to scan (default: cwd)
	Notifications bool   `koanf:"notifications"` // desktop notification per track

	Sink     SinkConfig     `koanf:"sink"`
	Buffer   BufferConfig   `koanf:"buffer"`
	Playback PlaybackConfig `koanf:"playback"`
	Log      LogConfig      `koanf:"log"`
}

// SinkConfig selects the audio output and its format.
type SinkConfig struct {
	Backend    string `koanf:"backend"`     // "speaker", "oto" or "null" (default: "speaker")
	SampleRate int    `koanf:"sample_rate"` // Hz (default: 44100)
	Channels   int    `koanf:"channels"`    // 1 or 2 (default: 2)
}

// BufferConfig sizes the stream buffer.
type BufferConfig struct {
	Slots        int `koanf:"slots"`         // frames held ahead of the sink (default: 8)
	FrameSamples int `koanf:"frame_samples"` // sample frames per slot (default: 1152)
}

// PlaybackConfig holds playlist defaults.
type PlaybackConfig struct {
	Shuffle        bool   `koanf:"shuffle"`
	Repeat         string `koanf:"repeat"`           // "off", "one" or "all" (default: "off")
	AdvanceOnError *bool  `koanf:"advance_on_error"` // skip entries that fail to open (default: true)
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `koanf:"level"`  // "debug", "info", "warn" or "error" (default: "info")
	Format string `koanf:"format"` // "text" or "json" (default: "text")
	File   string `koanf:"file"`   // log file; empty logs to stderr
}

func Load() (*Config, error) {
	return loadFrom(getConfigPaths())
}

func loadFrom(paths []string) (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	cfg := &Config{
		MusicDir: "", // empty means use cwd
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.MusicDir = expandPath(cfg.MusicDir)
	cfg.Log.File = expandPath(cfg.Log.File)

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/sdplay/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetSinkConfig returns the sink configuration with defaults applied.
func (c *Config) GetSinkConfig() SinkConfig {
	cfg := c.Sink

	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	if cfg.Backend == "" {
		cfg.Backend = sink.BackendSpeaker
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44100
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 2
	}

	return cfg
}

// Format returns the sink format.
func (s SinkConfig) Format() pcm.Format {
	return pcm.Format{SampleRate: s.SampleRate, Channels: s.Channels}
}

// GetBufferConfig returns the buffer configuration with defaults applied.
func (c *Config) GetBufferConfig() BufferConfig {
	cfg := c.Buffer

	if cfg.Slots <= 0 {
		cfg.Slots = player.DefaultSlots
	}
	if cfg.FrameSamples <= 0 {
		cfg.FrameSamples = player.DefaultFrameSamples
	}

	return cfg
}

// RepeatMode parses the configured repeat mode.
func (c *Config) RepeatMode() (playlist.RepeatMode, error) {
	return playlist.ParseRepeatMode(c.Playback.Repeat)
}

// AdvanceOnError reports whether failing playlist entries are skipped.
func (c *Config) AdvanceOnError() bool {
	return c.Playback.AdvanceOnError == nil || *c.Playback.AdvanceOnError
}

// PlayerConfig assembles the controller configuration.
func (c *Config) PlayerConfig() player.Config {
	buf := c.GetBufferConfig()
	return player.Config{
		Format:       c.GetSinkConfig().Format(),
		FrameSamples: buf.FrameSamples,
		Slots:        buf.Slots,
		StopOnError:  !c.AdvanceOnError(),
	}
}
