// skater is an endless runner for the terminal: a skater rides a scrolling
// track of bricks, jumps over gaps and collects gems.
//
// Usage:
//
//	skater play             - Play a single game
//	skater menu             - Start the title menu
//	skater serve            - Start SSH server for remote play
//	skater scores           - Show the best runs
//	skater config           - Print the effective configuration
//	skater engines          - List physics engines
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible tracks
//	--db <path>           - Set database path (default: ~/.skater/scores.db)
//	--config <path>       - Use a custom config file
//	--difficulty <name>   - easy, normal or hard
//	--engine <name>       - Physics engine override
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-skater/internal/config"
	"github.com/vovakirdan/tui-skater/internal/core"
	_ "github.com/vovakirdan/tui-skater/internal/physics/arcade"
	_ "github.com/vovakirdan/tui-skater/internal/physics/chipmunk"
	"github.com/vovakirdan/tui-skater/internal/registry"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagEngine     string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "skater",
	Short: "Skater - an endless runner in your terminal",
	Long: `Skater is a terminal endless runner. Ride the bricks, jump the gaps,
grab the gems and keep going as the track speeds up.

Available commands:
  play     - Play a single game
  menu     - Title menu with high scores
  serve    - Start SSH server for remote play
  scores   - View the best runs
  config   - Print the effective configuration
  engines  - List physics engines

Examples:
  skater play
  skater play --difficulty hard --engine chipmunk
  skater menu
  skater serve --ssh :2222
  skater scores`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.skater/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagEngine, "engine", "", "Physics engine (see 'skater engines')")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(enginesCmd)
}

// overrides returns the command line changes layered over any loaded config.
func overrides() (func(*config.SkaterConfig), error) {
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return nil, err
	}
	if flagEngine != "" && !registry.Exists(flagEngine) {
		return nil, fmt.Errorf("unknown physics engine %q, run 'skater engines' to list them", flagEngine)
	}
	return func(cfg *config.SkaterConfig) {
		config.ApplyPreset(cfg, preset)
		if flagEngine != "" {
			cfg.Physics.Engine = flagEngine
		}
	}, nil
}

// loadConfig reads the config file and applies the command line overrides.
func loadConfig() (config.SkaterConfig, func(*config.SkaterConfig), error) {
	apply, err := overrides()
	if err != nil {
		return config.SkaterConfig{}, nil, err
	}
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, nil, err
	}
	apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}
	return cfg, apply, nil
}

// runtimeConfig sizes the game to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultRuntimeConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// fileLogger logs to ~/.skater/skater.log while the terminal belongs to the game.
// The returned closer is never nil.
func fileLogger() (*log.Logger, func()) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		level = log.InfoLevel
	}

	var w io.Writer = io.Discard
	closer := func() {}
	if home, homeErr := os.UserHomeDir(); homeErr == nil {
		dir := filepath.Join(home, ".skater")
		if os.MkdirAll(dir, 0o755) == nil {
			f, openErr := os.OpenFile(filepath.Join(dir, "skater.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
			if openErr == nil {
				w = f
				closer = func() { f.Close() }
			}
		}
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "skater",
		Level:           level,
	}), closer
}

// playerName names local runs in the scoreboard.
func playerName() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}
