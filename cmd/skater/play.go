package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-skater/internal/audio"
	"github.com/vovakirdan/tui-skater/internal/config"
	"github.com/vovakirdan/tui-skater/internal/metrics"
	"github.com/vovakirdan/tui-skater/internal/platform/tui"
	"github.com/vovakirdan/tui-skater/internal/storage"
)

var (
	flagWatch   bool
	flagMute    bool
	flagVolume  float64
	flagMetrics string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start a single game.

Controls:
  Space/Up/Enter - Start, jump
  Esc            - Back (when no run is in progress)
  Ctrl+S         - Save a screenshot
  Q/Ctrl+C       - Quit

Difficulty options:
  easy   - Slower start, slower speed-up
  normal - Default tuning
  hard   - Faster start, faster speed-up

Examples:
  skater play
  skater play --difficulty easy
  skater play --engine chipmunk --mute
  skater play --config ./skater.yaml --watch
  skater play --metrics :9090`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload --config when it changes (applies at the next run)")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable music and sound effects")
	playCmd.Flags().Float64Var(&flagVolume, "volume", 0.5, "Sound effect volume (0..1)")
	playCmd.Flags().StringVar(&flagMetrics, "metrics", "", "Serve Prometheus metrics on this address")
}

// session holds the process-wide services a local game runs with.
type session struct {
	opts    tui.Options
	cleanup []func()
}

func (s *session) close() {
	for i := len(s.cleanup) - 1; i >= 0; i-- {
		s.cleanup[i]()
	}
}

// openSession wires storage, sound, metrics and config reload for local play.
func openSession(logger *log.Logger, apply func(*config.SkaterConfig)) *session {
	s := &session{opts: tui.Options{
		Runtime:   runtimeConfig(),
		Overrides: apply,
		Logger:    logger,
		Player:    playerName(),
	}}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("scores database unavailable", "path", flagDBPath, "err", err)
	} else {
		s.opts.Store = store
		s.cleanup = append(s.cleanup, func() { store.Close() })
	}
	s.opts.HighScores = storage.NewHighScores(s.opts.Store, logger)

	if !flagMute {
		sound := audio.NewSoundManager(flagVolume)
		if err := sound.Initialize(); err != nil {
			logger.Warn("audio unavailable, playing silently", "err", err)
		}
		sound.StartMusic()
		s.opts.Sound = sound
		s.cleanup = append(s.cleanup, sound.Cleanup)
	}

	if flagMetrics != "" {
		rec := metrics.NewRecorder()
		rec.SessionOpened()
		rec.HighScore(s.opts.HighScores.Best())
		s.opts.Recorder = rec
		s.cleanup = append(s.cleanup, rec.Serve(flagMetrics, logger), rec.SessionClosed)
	}

	if flagWatch {
		if flagConfig == "" {
			fmt.Fprintln(os.Stderr, "Warning: --watch needs --config, not watching")
		} else if w, err := config.Watch(flagConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot watch config: %v\n", err)
		} else {
			s.opts.Watcher = w
			s.cleanup = append(s.cleanup, func() { w.Close() })
			logger.Info("watching config", "path", w.Path())
		}
	}

	return s
}

func runPlay(_ *cobra.Command, _ []string) error {
	cfg, apply, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog := fileLogger()
	defer closeLog()

	s := openSession(logger, apply)
	defer s.close()

	logger.Info("starting game", "engine", cfg.Physics.Engine, "difficulty", flagDifficulty, "seed", flagSeed)
	if _, err := tui.Run(cfg, s.opts); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
