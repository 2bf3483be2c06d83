package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-skater/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the title menu",
	Long: `Start skater in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select.
Esc in a game (between runs) returns to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Q            - Quit

Examples:
  skater menu
  skater menu --fps 30
  skater menu --db ./scores.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func init() {
	menuCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable music and sound effects")
	menuCmd.Flags().Float64Var(&flagVolume, "volume", 0.5, "Sound effect volume (0..1)")
	menuCmd.Flags().StringVar(&flagMetrics, "metrics", "", "Serve Prometheus metrics on this address")
}

func runMenu(_ *cobra.Command, _ []string) error {
	cfg, apply, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog := fileLogger()
	defer closeLog()

	s := openSession(logger, apply)
	defer s.close()

	for {
		menuResult, err := tui.RunMenu(s.opts.HighScores, s.opts.Runtime)
		if err != nil {
			return err
		}
		s.opts.Runtime = menuResult.Config

		switch menuResult.Choice {
		case tui.ChoiceScores:
			goBack, sbErr := tui.RunScoreboard(s.opts.Store, s.opts.Runtime.ScreenW, s.opts.Runtime.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if !goBack {
				return nil
			}

		case tui.ChoicePlay:
			// A fresh track per game unless the seed was pinned.
			if flagSeed == 0 {
				s.opts.Runtime.Seed = time.Now().UnixNano()
			}
			result, runErr := tui.Run(cfg, s.opts)
			if runErr != nil {
				return fmt.Errorf("running game: %w", runErr)
			}
			s.opts.Runtime = result.Runtime
			if !result.BackToMenu {
				return nil
			}

		default:
			return nil
		}
	}
}
