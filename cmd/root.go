// Package cmd implements the sdplay command line.
package cmd

import (
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/llehouerou/sdplay/internal/sink"
)

var (
	flagBackend  string
	flagMusicDir string
	flagLogLevel string
	flagRecord   string
	flagNotify   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sdplay",
	Short: "Play WAV and MP3 files from a storage medium",
	Long: `sdplay scans a music directory for WAV and MP3 files and plays them
through a fixed-format audio output, one file at a time or as a playlist
with shuffle and repeat. It can also play test tones.

Run without a subcommand to open the interactive player.`,
	Version:       appVersion(),
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "",
		"audio output: "+strings.Join(sink.Backends(), ", ")+" (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagMusicDir, "music-dir", "", "directory to scan for audio files (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagRecord, "record", "", "write the output to a WAV file instead of the audio device")
	rootCmd.PersistentFlags().BoolVar(&flagNotify, "notify", false, "show a desktop notification for each track")

	rootCmd.AddCommand(
		listCmd,
		playCmd,
		playAllCmd,
		playTrackCmd,
		toneCmd,
		noteCmd,
	)
}

func appVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi.Main.Version == "" {
		return "unknown"
	}
	return bi.Main.Version
}
