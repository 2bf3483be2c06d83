// Package skater implements the endless-runner simulation: a skater on a
// procedurally generated, scrolling track of bricks at two elevations.
// The package contains no terminal or storage code; frontends drive it
// through Start, Jump and Update and observe it through Snapshot and the
// sink interfaces.
package skater

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-skater/internal/config"
	"github.com/vovakirdan/tui-skater/internal/core"
	"github.com/vovakirdan/tui-skater/internal/physics"
	"github.com/vovakirdan/tui-skater/internal/registry"
)

// Game drives one character through endless sessions. It is not safe for
// concurrent use.
type Game struct {
	cfg        config.SkaterConfig
	pending    *config.SkaterConfig
	world      physics.World
	ownedWorld bool
	rng        Rand
	ids        idSource

	ctrl     *Controller
	track    *Track
	resolver *Resolver
	session  Session

	effects    Effects
	display    Display
	highScores HighScores
	logger     *log.Logger
}

// Option configures a Game.
type Option func(*Game)

// WithRand sets the random source of the track generator.
func WithRand(r Rand) Option {
	return func(g *Game) { g.rng = r }
}

// WithSeed seeds the default random source. Zero seeds from the clock.
func WithSeed(seed int64) Option {
	return func(g *Game) {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		g.rng = rand.New(rand.NewSource(seed))
	}
}

// WithWorld runs the game on the given world instead of creating one from
// the configured engine. The world is kept across reconfiguration.
func WithWorld(w physics.World) Option {
	return func(g *Game) { g.world = w }
}

// WithEffects sets the effects sink.
func WithEffects(e Effects) Option {
	return func(g *Game) { g.effects = e }
}

// WithDisplay sets the menu and score display sink.
func WithDisplay(d Display) Option {
	return func(g *Game) { g.display = d }
}

// WithHighScores sets the high score store.
func WithHighScores(h HighScores) Option {
	return func(g *Game) { g.highScores = h }
}

// WithLogger sets the logger for state transitions.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) { g.logger = l }
}

// New creates a game in the NotRunning state and asks the display to show
// the start menu.
func New(cfg config.SkaterConfig, opts ...Option) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Game{
		effects:    NopEffects{},
		display:    NopDisplay{},
		highScores: &MemoryHighScores{},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		WithSeed(0)(g)
	}
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}
	g.ownedWorld = g.world == nil

	charID := g.ids.next()
	if err := g.apply(cfg, charID); err != nil {
		return nil, err
	}

	g.display.HighScoreChanged(g.highScores.Best())
	g.display.ShowMenu(Menu{Message: MessageStart})
	return g, nil
}

// apply builds the world, track and controller for cfg.
func (g *Game) apply(cfg config.SkaterConfig, charID EntityID) error {
	if g.ownedWorld {
		w, err := registry.Create(cfg.Physics.Engine, physics.Settings{
			Gravity:    cfg.Physics.Gravity,
			Iterations: cfg.Physics.Iterations,
		})
		if err != nil {
			return fmt.Errorf("skater: %w", err)
		}
		g.world = w
	} else if g.track != nil {
		g.track.Reset()
	}

	g.cfg = cfg
	g.ctrl = NewController(charID, cfg.Physics, cfg.Player, g.world)
	g.track = NewTrack(cfg.World, cfg.Player.Height, g.rng, &g.ids, g.world)
	g.resolver = NewResolver(g.ctrl, g.track, g.effects, cfg.Scoring.GemBonus, cfg.Physics.AirborneVelocity)
	g.ctrl.Reset(cfg.World.ViewportWidth / 4)
	return nil
}

// Reconfigure schedules cfg to take effect at the next Start.
func (g *Game) Reconfigure(cfg config.SkaterConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	g.pending = &cfg
	return nil
}

// Start begins a new session. It is ignored while a session is running.
func (g *Game) Start() {
	if g.session.State == Running {
		return
	}

	if g.pending != nil {
		cfg := *g.pending
		g.pending = nil
		if err := g.apply(cfg, g.ctrl.Character().ID); err != nil {
			g.logger.Error("reconfigure failed, keeping previous settings", "err", err)
		} else {
			g.logger.Info("configuration applied", "engine", cfg.Physics.Engine)
		}
	}

	g.track.Reset()
	g.ctrl.Reset(g.cfg.World.ViewportWidth / 4)
	g.world.Contacts()
	g.session.reset(g.cfg.Scoring.StartSpeed)
	g.track.Update(0, 0, g.session.Speed)

	g.display.HideMenu()
	g.display.ScoreChanged(0)
	g.logger.Debug("session started", "speed", g.session.Speed)
}

// Jump makes the character jump if a session is running and it is grounded.
func (g *Game) Jump() {
	if g.session.State != Running {
		return
	}
	if g.ctrl.Jump() {
		g.effects.Jumped()
	}
}

// Tap is the single-button input: jump while running, start otherwise.
func (g *Game) Tap() {
	if g.session.State == Running {
		g.Jump()
		return
	}
	g.Start()
}

// Update advances the simulation to now. It does nothing unless a session
// is running.
func (g *Game) Update(now time.Duration) {
	if g.session.State != Running {
		return
	}

	g.session.Speed += g.cfg.Scoring.SpeedIncrement
	elapsed := g.session.elapsed(now)

	scroll := g.session.Speed * elapsed.Seconds() * float64(g.cfg.Frame.ExpectedFPS)
	g.session.Distance += scroll
	g.track.Update(scroll, g.session.Score, g.session.Speed)

	g.world.Step(elapsed.Seconds())
	g.ctrl.Sync()
	g.ctrl.CheckAirborne()

	if points := g.resolver.Resolve(g.world.Contacts()); points > 0 {
		g.addScore(points)
	}
	if points := g.session.tickScore(now, g.cfg.Scoring.ScoreTick()); points > 0 {
		g.addScore(points)
	}

	// Wipeout is checked after the score tick, so the final frame's tick
	// counts toward the recorded high score.
	if g.ctrl.WipedOut() {
		g.gameOver()
	}
}

func (g *Game) addScore(points int) {
	g.session.Score += points
	g.display.ScoreChanged(g.session.Score)
}

func (g *Game) gameOver() {
	g.session.State = NotRunning

	score := g.session.Score
	if score > g.highScores.Best() {
		g.highScores.SetBest(score)
		g.display.HighScoreChanged(score)
	}
	g.display.ShowMenu(Menu{Message: MessageGameOver, Score: score, HasScore: true})

	ch := g.ctrl.Character()
	g.logger.Debug("game over", "score", score, "x", ch.Position.X, "y", ch.Position.Y)
}

// Snapshot is a copy of everything a renderer needs for one frame.
type Snapshot struct {
	State     State
	Character Character
	Segments  []Segment
	Pickups   []Pickup
	Score     int
	HighScore int
	Speed     float64
	Distance  float64
	Viewport  core.Vec
}

// Snapshot returns a copy of the current frame.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		State:     g.session.State,
		Character: g.ctrl.Character(),
		Segments:  append([]Segment(nil), g.track.Segments()...),
		Pickups:   append([]Pickup(nil), g.track.Pickups()...),
		Score:     g.session.Score,
		HighScore: g.highScores.Best(),
		Speed:     g.session.Speed,
		Distance:  g.session.Distance,
		Viewport:  core.Vec{X: g.cfg.World.ViewportWidth, Y: g.cfg.World.ViewportHeight},
	}
}

// State returns the state machine position.
func (g *Game) State() State { return g.session.State }

// Score returns the score of the current or last session.
func (g *Game) Score() int { return g.session.Score }

// Speed returns the current scroll speed.
func (g *Game) Speed() float64 { return g.session.Speed }

// Config returns the configuration in effect.
func (g *Game) Config() config.SkaterConfig { return g.cfg }
