package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-skater/internal/config"
	"github.com/vovakirdan/tui-skater/internal/core"
	"github.com/vovakirdan/tui-skater/internal/metrics"
	"github.com/vovakirdan/tui-skater/internal/skater"
	"github.com/vovakirdan/tui-skater/internal/storage"
)

// Options wires a game model to the rest of the process. Every field is
// optional.
type Options struct {
	Runtime    core.RuntimeConfig
	Store      *storage.Store
	HighScores skater.HighScores // defaults to one backed by Store
	Sound      skater.Effects
	Recorder   *metrics.Recorder
	Watcher    *config.Watcher
	Overrides  func(*config.SkaterConfig) // applied to reloaded configs
	Logger     *log.Logger
	Player     string
	Embedded   bool // back-to-menu hands control to a parent model instead of quitting
}

// configMsg carries the outcome of a config file reload.
type configMsg struct {
	cfg config.SkaterConfig
	err error
}

// Model is the Bubble Tea model running one skater game.
type Model struct {
	game     *skater.Game
	hud      *hud
	backdrop *Backdrop
	screen   *core.Screen
	keys     KeyMap
	help     help.Model
	opts     Options

	loop       uint64
	epoch      time.Time
	ticking    bool
	quitting   bool
	backToMenu bool
}

// NewModel creates the game and its frontend state.
func NewModel(cfg config.SkaterConfig, opts Options) (Model, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.HighScores == nil {
		opts.HighScores = storage.NewHighScores(opts.Store, opts.Logger)
	}
	if opts.Runtime.TickRate <= 0 {
		opts.Runtime.TickRate = core.DefaultRuntimeConfig().TickRate
	}
	if opts.Runtime.ScreenW <= 0 || opts.Runtime.ScreenH <= 0 {
		def := core.DefaultRuntimeConfig()
		opts.Runtime.ScreenW, opts.Runtime.ScreenH = def.ScreenW, def.ScreenH
	}
	if opts.Player == "" {
		opts.Player = "local"
	}
	seed := opts.Runtime.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	h := newHUD()
	effects := []skater.Effects{h}
	if opts.Sound != nil {
		effects = append(effects, opts.Sound)
	}
	if opts.Recorder != nil {
		effects = append(effects, opts.Recorder)
	}

	game, err := skater.New(cfg,
		skater.WithSeed(seed),
		skater.WithDisplay(h),
		skater.WithEffects(skater.TeeEffects(effects...)),
		skater.WithHighScores(opts.HighScores),
		skater.WithLogger(opts.Logger),
	)
	if err != nil {
		return Model{}, fmt.Errorf("tui: %w", err)
	}

	hp := help.New()
	hp.Width = opts.Runtime.ScreenW

	return Model{
		game:     game,
		hud:      h,
		backdrop: NewBackdrop(seed),
		screen:   core.NewScreen(opts.Runtime.ScreenW, max(opts.Runtime.ScreenH-1, 1)),
		keys:     DefaultKeyMap(),
		help:     hp,
		opts:     opts,
		loop:     newLoopID(),
	}, nil
}

// Init starts the tick loop and, if configured, listens for config reloads.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.opts.Runtime.TickRate, m.loop), waitForConfig(m.opts.Watcher))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.opts.Runtime.ScreenW = msg.Width
		m.opts.Runtime.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		return m.handleTick(msg.Time)

	case configMsg:
		m.applyConfig(msg)
		return m, waitForConfig(m.opts.Watcher)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) && m.game.State() == skater.NotRunning {
		m.backToMenu = true
		if m.opts.Embedded {
			return m, nil
		}
		return m, tea.Quit
	}

	switch m.keys.MapKey(msg) {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionCapture:
		m.saveScreenshot()
	case core.ActionTap:
		m.game.Tap()
		m.flushEvents()
	}
	return m, nil
}

// handleTick advances the simulation to the tick time, measured from the
// first tick.
func (m Model) handleTick(t time.Time) (tea.Model, tea.Cmd) {
	if !m.ticking {
		m.epoch = t
		m.ticking = true
	}
	now := t.Sub(m.epoch)

	m.hud.advance(now)
	m.game.Update(now)
	m.flushEvents()

	return m, tickCmd(m.opts.Runtime.TickRate, m.loop)
}

// flushEvents reports started and finished sessions to metrics and storage.
func (m Model) flushEvents() {
	engine := m.game.Config().Physics.Engine
	for n := m.hud.takeStarted(); n > 0; n-- {
		if m.opts.Recorder != nil {
			m.opts.Recorder.GameStarted(engine)
		}
		m.opts.Logger.Debug("game started", "player", m.opts.Player, "engine", engine)
	}

	for _, score := range m.hud.takeFinished() {
		if m.opts.Recorder != nil {
			m.opts.Recorder.GameOver(score)
			m.opts.Recorder.HighScore(m.opts.HighScores.Best())
		}
		m.saveRun(score)
	}
}

// saveRun stores a finished run. Failures are logged and the game goes on.
func (m Model) saveRun(score int) {
	if m.opts.Store == nil || score <= 0 {
		return
	}
	run := storage.Run{
		Player:   m.opts.Player,
		Score:    score,
		Distance: m.game.Snapshot().Distance,
		Engine:   m.game.Config().Physics.Engine,
	}
	id, err := m.opts.Store.SaveRun(run)
	if err != nil {
		m.opts.Logger.Error("cannot save run", "score", score, "err", err)
		return
	}
	m.opts.Logger.Info("run saved", "id", id, "player", run.Player, "score", score)
}

func (m Model) applyConfig(msg configMsg) {
	if msg.err != nil {
		m.opts.Logger.Warn("config reload failed", "err", msg.err)
		return
	}
	cfg := msg.cfg
	if m.opts.Overrides != nil {
		m.opts.Overrides(&cfg)
	}
	if err := m.game.Reconfigure(cfg); err != nil {
		m.opts.Logger.Warn("reloaded config rejected", "err", err)
		return
	}
	if m.opts.Watcher != nil {
		m.opts.Logger.Info("config reloaded, applies at next start", "path", m.opts.Watcher.Path())
	}
}

// waitForConfig blocks on the watcher until a reload happens.
func waitForConfig(w *config.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case cfg, ok := <-w.Updates():
			if !ok {
				return nil
			}
			return configMsg{cfg: cfg}
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			return configMsg{err: err}
		}
	}
}

// saveScreenshot saves the current frame as plain text.
func (m Model) saveScreenshot() {
	drawFrame(m.screen, m.game.Snapshot(), m.hud, m.backdrop)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".skater", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	filename := fmt.Sprintf("skater_%s.txt", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.opts.Logger.Warn("cannot save screenshot", "err", err)
		return
	}
	m.opts.Logger.Info("screenshot saved", "path", path)
}

// View renders the current frame and the key help line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	drawFrame(m.screen, m.game.Snapshot(), m.hud, m.backdrop)
	return RenderScreen(m.screen) + "\n" + m.help.View(m.keys)
}

// Game returns the running game.
func (m Model) Game() *skater.Game { return m.game }

// IsQuitting returns true if the user asked to quit.
func (m Model) IsQuitting() bool { return m.quitting }

// BackToMenu returns true if the user asked for the menu.
func (m Model) BackToMenu() bool { return m.backToMenu }

// GameResult tells the caller how a standalone game ended.
type GameResult struct {
	BackToMenu bool
	Runtime    core.RuntimeConfig
}

// Run starts a standalone Bubble Tea program for one game.
func Run(cfg config.SkaterConfig, opts Options) (GameResult, error) {
	model, err := NewModel(cfg, opts)
	if err != nil {
		return GameResult{Runtime: opts.Runtime}, err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return GameResult{Runtime: opts.Runtime}, err
	}

	m, ok := final.(Model)
	if !ok {
		return GameResult{Runtime: opts.Runtime}, nil
	}
	return GameResult{BackToMenu: m.BackToMenu(), Runtime: m.opts.Runtime}, nil
}
