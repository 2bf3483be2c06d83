package skater

import (
	"testing"
	"time"

	"github.com/vovakirdan/tui-skater/internal/core"
	"github.com/vovakirdan/tui-skater/internal/physics"
	"github.com/vovakirdan/tui-skater/internal/physics/arcade"
	_ "github.com/vovakirdan/tui-skater/internal/physics/chipmunk"
)

type gameFixture struct {
	game    *Game
	display *recordingDisplay
	effects *recordingEffects
	scores  *countingHighScores
}

func newGameFixture(t *testing.T, best int, opts ...Option) *gameFixture {
	t.Helper()
	f := &gameFixture{
		display: &recordingDisplay{},
		effects: &recordingEffects{},
		scores:  &countingHighScores{best: best},
	}
	opts = append([]Option{
		WithRand(fixedRand(50)),
		WithDisplay(f.display),
		WithEffects(f.effects),
		WithHighScores(f.scores),
	}, opts...)
	g, err := New(testConfig(), opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	f.game = g
	return f
}

// run feeds frames from..to inclusive.
func (f *gameFixture) run(from, to int) {
	for i := from; i <= to; i++ {
		f.game.Update(frameTime(i))
	}
}

func TestNewShowsStartMenu(t *testing.T) {
	f := newGameFixture(t, 77)

	if f.game.State() != NotRunning {
		t.Errorf("State() = %v, expected %v", f.game.State(), NotRunning)
	}
	if len(f.display.menus) != 1 || f.display.menus[0] != (Menu{Message: MessageStart}) {
		t.Errorf("menus = %v, expected start menu", f.display.menus)
	}
	if len(f.display.highScores) != 1 || f.display.highScores[0] != 77 {
		t.Errorf("highScores = %v, expected [77]", f.display.highScores)
	}
}

func TestNewRejectsUnknownEngine(t *testing.T) {
	cfg := testConfig()
	cfg.Physics.Engine = "warp"
	if _, err := New(cfg); err == nil {
		t.Error("New() with unknown engine should fail")
	}

	cfg = testConfig()
	cfg.World.BrickWidth = 0
	if _, err := New(cfg); err == nil {
		t.Error("New() with invalid config should fail")
	}
}

func TestStartResetsSession(t *testing.T) {
	f := newGameFixture(t, 0)
	f.game.Start()

	if f.game.State() != Running {
		t.Fatalf("State() = %v, expected %v", f.game.State(), Running)
	}
	if f.game.Score() != 0 {
		t.Errorf("Score() = %d, expected 0", f.game.Score())
	}
	if f.game.Speed() != 5.0 {
		t.Errorf("Speed() = %v, expected 5.0", f.game.Speed())
	}
	if f.display.hidden != 1 {
		t.Errorf("HideMenu called %d times, expected 1", f.display.hidden)
	}
	if len(f.display.scores) != 1 || f.display.scores[0] != 0 {
		t.Errorf("scores = %v, expected [0]", f.display.scores)
	}

	snap := f.game.Snapshot()
	if snap.Character.Position != (core.Vec{X: 200, Y: 94}) {
		t.Errorf("character at %v, expected (200, 94)", snap.Character.Position)
	}
	if !snap.Character.Grounded {
		t.Error("character should start grounded")
	}
	if len(snap.Segments) == 0 {
		t.Error("track should be filled at start")
	}
}

func TestStartIgnoredWhileRunning(t *testing.T) {
	f := newGameFixture(t, 0)
	f.game.Start()
	f.run(0, 120)
	score := f.game.Score()

	f.game.Start()
	if f.game.Score() != score {
		t.Errorf("Score() = %d after second Start, expected %d", f.game.Score(), score)
	}
	if f.display.hidden != 1 {
		t.Errorf("HideMenu called %d times, expected 1", f.display.hidden)
	}
}

func TestUpdateIgnoredWhenNotRunning(t *testing.T) {
	f := newGameFixture(t, 0)
	f.run(0, 300)

	if f.game.Score() != 0 || f.game.Speed() != 0 {
		t.Errorf("Score() = %d, Speed() = %v, expected untouched session", f.game.Score(), f.game.Speed())
	}
	if len(f.game.Snapshot().Segments) != 0 {
		t.Error("track should stay empty before Start")
	}
}

func TestSpeedGrowsEveryFrame(t *testing.T) {
	f := newGameFixture(t, 0)
	f.game.Start()
	f.run(0, 99)

	expected := 5.0 + 100*0.01
	if d := f.game.Speed() - expected; d > 1e-9 || d < -1e-9 {
		t.Errorf("Speed() = %v, expected %v", f.game.Speed(), expected)
	}
}

func TestTimeBasedScoring(t *testing.T) {
	tests := []struct {
		speed   float64
		seconds int
	}{
		{5.0, 3},
		{7.5, 10},
		{12.9, 4},
	}

	for _, tc := range tests {
		cfg := testConfig()
		cfg.Scoring.StartSpeed = tc.speed
		cfg.Scoring.SpeedIncrement = 0

		g, err := New(cfg, WithRand(fixedRand(50)))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		g.Start()
		for i := 0; i <= tc.seconds*60; i++ {
			g.Update(frameTime(i))
		}

		expected := int(tc.speed) * tc.seconds
		if g.Score() != expected {
			t.Errorf("speed %v for %ds: Score() = %d, expected %d", tc.speed, tc.seconds, g.Score(), expected)
		}
	}
}

func TestStallAwardsEveryMissedInterval(t *testing.T) {
	cfg := testConfig()
	cfg.Scoring.SpeedIncrement = 0
	g, err := New(cfg, WithRand(fixedRand(50)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	g.Start()
	g.Update(0)
	g.Update(frameTime(1))
	g.Update(frameTime(1) + 3*frameTime(60))

	if g.Score() != 15 {
		t.Errorf("Score() = %d after a 3s stall, expected 15", g.Score())
	}
}

func TestTickScoreAfterLongStall(t *testing.T) {
	s := Session{Speed: 5.9}
	s.tickScore(time.Second, time.Millisecond)

	if got := s.tickScore(time.Second+time.Hour, time.Millisecond); got != 3_600_000*5 {
		t.Errorf("tickScore() = %d after an hour of 1ms ticks, expected %d", got, 3_600_000*5)
	}
	if got := s.tickScore(time.Second+time.Hour+500*time.Microsecond, time.Millisecond); got != 0 {
		t.Errorf("tickScore() = %d before the next tick, expected 0", got)
	}
	if got := s.tickScore(2*time.Hour, 0); got != 0 {
		t.Errorf("tickScore() = %d with a zero interval, expected 0", got)
	}
}

func TestSixtyOneSecondRun(t *testing.T) {
	f := newGameFixture(t, 0)
	f.game.Start()
	f.run(0, 61*60)

	if f.game.State() != Running {
		t.Fatalf("State() = %v, expected the run to survive on a gapless track", f.game.State())
	}
	if f.game.Score() < 300 {
		t.Errorf("Score() = %d, expected at least 300", f.game.Score())
	}
	if f.game.Speed() <= 5 {
		t.Errorf("Speed() = %v, expected growth above 5", f.game.Speed())
	}
	for i := 1; i < len(f.display.scores); i++ {
		if f.display.scores[i] < f.display.scores[i-1] {
			t.Fatalf("score decreased from %d to %d", f.display.scores[i-1], f.display.scores[i])
		}
	}
}

func TestLandingAfterSpawn(t *testing.T) {
	f := newGameFixture(t, 0)
	f.game.Start()
	f.run(0, 60)

	ch := f.game.Snapshot().Character
	if !ch.Grounded {
		t.Error("character should be grounded after settling")
	}
	if d := ch.Position.Y - 70; d > 1 || d < -1 {
		t.Errorf("character y = %v, expected to rest at 70", ch.Position.Y)
	}
	if len(f.effects.sparks) == 0 {
		t.Error("landing should spark")
	}
}

func TestJump(t *testing.T) {
	f := newGameFixture(t, 0)

	f.game.Jump()
	if f.effects.jumps != 0 {
		t.Errorf("Jump() before Start fired %d effects, expected 0", f.effects.jumps)
	}

	f.game.Start()
	f.game.Jump()
	f.game.Jump()
	if f.effects.jumps != 1 {
		t.Errorf("Jump() while airborne fired; jumps = %d, expected 1", f.effects.jumps)
	}
	if f.game.Snapshot().Character.Grounded {
		t.Error("character should be airborne after a jump")
	}

	f.run(0, 10)
	ch := f.game.Snapshot().Character
	if ch.Position.Y <= 94 {
		t.Errorf("character y = %v, expected to rise above 94", ch.Position.Y)
	}
}

func TestTap(t *testing.T) {
	f := newGameFixture(t, 0)

	f.game.Tap()
	if f.game.State() != Running {
		t.Fatalf("Tap() should start the game, State() = %v", f.game.State())
	}
	if f.effects.jumps != 0 {
		t.Errorf("starting Tap() jumped")
	}

	f.game.Tap()
	if f.effects.jumps != 1 {
		t.Errorf("jumps = %d, expected 1", f.effects.jumps)
	}
}

func TestGameOverWritesHighScoreOnce(t *testing.T) {
	f := newGameFixture(t, 100)
	f.game.Start()
	f.game.Update(0)

	f.game.session.Score = 120
	f.game.world.SetPosition(f.game.ctrl.Character().ID.body(), core.Vec{X: 200, Y: -200})
	f.game.Update(frameTime(1))

	if f.game.State() != NotRunning {
		t.Fatalf("State() = %v, expected %v", f.game.State(), NotRunning)
	}
	if f.scores.writes != 1 || f.scores.best != 120 {
		t.Errorf("high score writes = %d, best = %d, expected 1 write of 120", f.scores.writes, f.scores.best)
	}
	last := f.display.menus[len(f.display.menus)-1]
	expected := Menu{Message: MessageGameOver, Score: 120, HasScore: true}
	if last != expected {
		t.Errorf("menu = %+v, expected %+v", last, expected)
	}
	if got := f.display.highScores[len(f.display.highScores)-1]; got != 120 {
		t.Errorf("HighScoreChanged(%d), expected 120", got)
	}

	f.run(2, 60)
	if f.scores.writes != 1 {
		t.Errorf("high score written %d times, expected once", f.scores.writes)
	}
}

func TestGameOverBelowHighScore(t *testing.T) {
	f := newGameFixture(t, 500)
	f.game.Start()
	f.game.Update(0)
	f.game.world.SetPosition(f.game.ctrl.Character().ID.body(), core.Vec{X: -30, Y: 300})
	f.game.Update(frameTime(1))

	if f.game.State() != NotRunning {
		t.Fatalf("State() = %v, expected %v", f.game.State(), NotRunning)
	}
	if f.scores.writes != 0 {
		t.Errorf("high score written %d times, expected 0", f.scores.writes)
	}
}

func TestRestartAfterGameOver(t *testing.T) {
	f := newGameFixture(t, 0)
	f.game.Start()
	f.run(0, 300)
	f.game.world.SetPosition(f.game.ctrl.Character().ID.body(), core.Vec{X: 200, Y: -200})
	f.game.Update(frameTime(301))
	if f.game.State() != NotRunning {
		t.Fatalf("State() = %v, expected %v", f.game.State(), NotRunning)
	}

	f.game.Start()
	snap := f.game.Snapshot()
	if snap.Score != 0 || snap.Speed != 5.0 {
		t.Errorf("restart Score = %d, Speed = %v, expected 0 and 5.0", snap.Score, snap.Speed)
	}
	if snap.Character.Position != (core.Vec{X: 200, Y: 94}) {
		t.Errorf("restart character at %v, expected (200, 94)", snap.Character.Position)
	}
	if snap.Segments[0].Position.X != 1 {
		t.Errorf("first segment at %v, expected 1", snap.Segments[0].Position.X)
	}

	// The restarted clock begins at the next frame, not at the last one.
	f.game.Update(frameTime(1000))
	f.game.Update(frameTime(1001))
	if f.game.Score() != 0 {
		t.Errorf("Score() = %d right after restart, expected 0", f.game.Score())
	}
}

func TestSameSeedSameRun(t *testing.T) {
	play := func() Snapshot {
		g, err := New(testConfig(), WithSeed(42))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		g.Start()
		for i := 0; i <= 1200; i++ {
			if i%45 == 0 {
				g.Jump()
			}
			g.Update(frameTime(i))
		}
		return g.Snapshot()
	}

	a, b := play(), play()
	if a.Score != b.Score || a.State != b.State || a.Character != b.Character {
		t.Fatalf("runs diverged: %+v vs %+v", a.Character, b.Character)
	}
	if len(a.Segments) != len(b.Segments) || len(a.Pickups) != len(b.Pickups) {
		t.Fatalf("tracks diverged: %d/%d segments, %d/%d pickups",
			len(a.Segments), len(b.Segments), len(a.Pickups), len(b.Pickups))
	}
	for i := range a.Segments {
		if a.Segments[i] != b.Segments[i] {
			t.Errorf("segment %d: %+v vs %+v", i, a.Segments[i], b.Segments[i])
		}
	}
}

func TestReconfigureAppliesAtStart(t *testing.T) {
	f := newGameFixture(t, 0)
	f.game.Start()

	cfg := testConfig()
	cfg.Scoring.StartSpeed = 9
	if err := f.game.Reconfigure(cfg); err != nil {
		t.Fatalf("Reconfigure() error = %v", err)
	}
	if f.game.Config().Scoring.StartSpeed != 5 {
		t.Error("Reconfigure() should not apply while running")
	}

	f.game.world.SetPosition(f.game.ctrl.Character().ID.body(), core.Vec{X: 200, Y: -200})
	f.game.Update(0)
	f.game.Start()
	if f.game.Speed() != 9 {
		t.Errorf("Speed() = %v after restart, expected 9", f.game.Speed())
	}

	bad := testConfig()
	bad.Frame.ExpectedFPS = 0
	if err := f.game.Reconfigure(bad); err == nil {
		t.Error("Reconfigure() with invalid config should fail")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	f := newGameFixture(t, 0)
	f.game.Start()

	snap := f.game.Snapshot()
	snap.Segments[0].Position.X = -999
	if f.game.Snapshot().Segments[0].Position.X == -999 {
		t.Error("Snapshot() shares segment storage with the game")
	}
}

func TestChipmunkEngineRuns(t *testing.T) {
	cfg := testConfig()
	cfg.Physics.Engine = "chipmunk"
	g, err := New(cfg, WithRand(fixedRand(50)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	g.Start()
	for i := 0; i <= 120; i++ {
		g.Update(frameTime(i))
	}
	if ch := g.Snapshot().Character; ch.Position.Y < 40 {
		t.Errorf("character y = %v, expected to stay on the bricks", ch.Position.Y)
	}
}

func TestTipOverEndsGame(t *testing.T) {
	tests := []struct {
		engine string
		angle  float64
		state  State
	}{
		{"chipmunk", 1.6, NotRunning},
		{"chipmunk", -1.6, NotRunning},
		{"chipmunk", 1.4, Running},
		{"arcade", 1.6, NotRunning},
		{"arcade", -1.4, Running},
	}

	for _, tc := range tests {
		cfg := testConfig()
		cfg.Physics.Engine = tc.engine
		cfg.Physics.AllowRotation = true
		display := &recordingDisplay{}
		g, err := New(cfg, WithRand(fixedRand(50)), WithDisplay(display))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		g.Start()
		g.world.SetAngle(g.ctrl.Character().ID.body(), tc.angle)
		g.Update(frameTime(0))

		if g.State() != tc.state {
			t.Errorf("%s tilted %v rad: State() = %v, expected %v", tc.engine, tc.angle, g.State(), tc.state)
			continue
		}
		if tc.state == NotRunning {
			last := display.menus[len(display.menus)-1]
			if last.Message != MessageGameOver {
				t.Errorf("%s tilted %v rad: menu = %q, expected %q", tc.engine, tc.angle, last.Message, MessageGameOver)
			}
		}
	}
}

// fallingWorld forces the character's vertical speed after every step and
// hands out queued contacts in place of detected ones.
type fallingWorld struct {
	*arcade.World
	char    physics.BodyID
	vy      float64
	pending []physics.Contact
}

func (w *fallingWorld) Step(dt float64) {
	w.World.Step(dt)
	st, _ := w.World.Body(w.char)
	w.World.SetVelocity(w.char, core.Vec{X: st.Velocity.X, Y: w.vy})
}

func (w *fallingWorld) Contacts() []physics.Contact {
	w.World.Contacts()
	out := w.pending
	w.pending = nil
	return out
}

func TestVelocityCheckRunsBeforeContacts(t *testing.T) {
	tests := []struct {
		name     string
		vy       float64
		landing  bool
		grounded bool
		sparks   int
	}{
		{"fast fall with landing", -150, true, true, 1},
		{"fast fall without landing", -150, false, false, 0},
		{"resting with landing", 0, true, true, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			w := &fallingWorld{
				World: arcade.New(physics.Settings{Gravity: cfg.Physics.Gravity}),
				vy:    tc.vy,
			}
			f := newGameFixture(t, 0, WithWorld(w))
			g := f.game
			w.char = g.ctrl.Character().ID.body()
			g.Start()

			if tc.landing {
				seg := g.track.Segments()[0].ID
				w.pending = []physics.Contact{{
					A:         w.char,
					B:         seg.body(),
					CategoryA: CategoryCharacter,
					CategoryB: CategorySegment,
				}}
			}
			g.Update(frameTime(0))

			if got := g.Snapshot().Character.Grounded; got != tc.grounded {
				t.Errorf("Grounded = %v, expected %v", got, tc.grounded)
			}
			if len(f.effects.sparks) != tc.sparks {
				t.Errorf("sparks = %d, expected %d", len(f.effects.sparks), tc.sparks)
			}
		})
	}
}
