package tui

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-skater/internal/config"
	"github.com/vovakirdan/tui-skater/internal/core"
	"github.com/vovakirdan/tui-skater/internal/metrics"
	_ "github.com/vovakirdan/tui-skater/internal/physics/arcade"
	"github.com/vovakirdan/tui-skater/internal/skater"
	"github.com/vovakirdan/tui-skater/internal/storage"
)

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyQuit  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
	keySave  = tea.KeyMsg{Type: tea.KeyCtrlS}
)

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	opts.Runtime = core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}
	m, err := NewModel(config.DefaultSkaterConfig(), opts)
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, expected Model", next)
	}
	return model, cmd
}

func TestKeyMap(t *testing.T) {
	keys := DefaultKeyMap()
	tests := []struct {
		msg      tea.KeyMsg
		expected core.Action
	}{
		{keySpace, core.ActionTap},
		{keyEnter, core.ActionTap},
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionTap},
		{keyQuit, core.ActionQuit},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{keySave, core.ActionCapture},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}, core.ActionNone},
	}
	for _, tc := range tests {
		if got := keys.MapKey(tc.msg); got != tc.expected {
			t.Errorf("MapKey(%q) = %v, expected %v", tc.msg.String(), got, tc.expected)
		}
	}
}

func TestModelTapStartsAndTicksGame(t *testing.T) {
	m := newTestModel(t, Options{})
	if m.Game().State() != skater.NotRunning {
		t.Fatalf("State() = %v before tap, expected NotRunning", m.Game().State())
	}

	m, _ = update(t, m, keySpace)
	if m.Game().State() != skater.Running {
		t.Fatalf("State() = %v after tap, expected Running", m.Game().State())
	}

	start := time.Unix(1000, 0)
	for i := 0; i <= 61; i++ {
		m, _ = update(t, m, TickMsg{Time: start.Add(time.Duration(i) * time.Second / 60), Loop: m.loop})
	}
	if m.Game().State() != skater.Running {
		t.Fatalf("State() = %v after one second, expected Running", m.Game().State())
	}
	if m.Game().Score() < 5 {
		t.Errorf("Score() = %d after one second, expected at least 5", m.Game().Score())
	}
	if !strings.Contains(m.View(), "SCORE 000") {
		t.Errorf("View() missing score label")
	}
}

func TestModelDropsForeignTicks(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = update(t, m, keySpace)

	m, cmd := update(t, m, TickMsg{Time: time.Unix(1, 0), Loop: m.loop + 1000})
	if cmd != nil {
		t.Error("foreign tick should not schedule another tick")
	}
	if m.ticking {
		t.Error("foreign tick should not start the clock")
	}
}

func TestModelBackAndQuit(t *testing.T) {
	m := newTestModel(t, Options{})
	m, cmd := update(t, m, keyEsc)
	if !m.BackToMenu() || cmd == nil {
		t.Errorf("esc while idle: BackToMenu() = %v, cmd = %v, expected true and quit", m.BackToMenu(), cmd)
	}

	embedded := newTestModel(t, Options{Embedded: true})
	embedded, cmd = update(t, embedded, keyEsc)
	if !embedded.BackToMenu() || cmd != nil {
		t.Errorf("embedded esc: BackToMenu() = %v, cmd = %v, expected true and no quit", embedded.BackToMenu(), cmd)
	}

	running := newTestModel(t, Options{})
	running, _ = update(t, running, keySpace)
	running, _ = update(t, running, keyEsc)
	if running.BackToMenu() {
		t.Error("esc should be ignored while a run is in progress")
	}

	running, _ = update(t, running, keyQuit)
	if !running.IsQuitting() || running.View() != "" {
		t.Error("q should quit and blank the view")
	}
}

func TestModelRecordsFinishedRuns(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()
	rec := metrics.NewRecorder()

	m := newTestModel(t, Options{Store: store, Recorder: rec, Player: "alice"})
	m, _ = update(t, m, keySpace)

	m.hud.ShowMenu(skater.Menu{Message: skater.MessageGameOver, Score: 42, HasScore: true})
	m.hud.ShowMenu(skater.Menu{Message: skater.MessageGameOver, Score: 0, HasScore: true})
	m.flushEvents()

	runs, err := store.TopRuns(10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Score != 42 || runs[0].Player != "alice" || runs[0].Engine != "arcade" {
		t.Errorf("runs = %+v, expected one run of 42 by alice", runs)
	}

	rr := httptest.NewRecorder()
	rec.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rr.Body.String()
	for _, want := range []string{
		`skater_games_started_total{engine="arcade"} 1`,
		`skater_games_over_total 2`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestModelAppliesReloadedConfig(t *testing.T) {
	m := newTestModel(t, Options{Overrides: func(c *config.SkaterConfig) { c.Scoring.SpeedIncrement = 0 }})

	cfg := config.DefaultSkaterConfig()
	cfg.Scoring.StartSpeed = 8
	m, _ = update(t, m, configMsg{cfg: cfg})
	m, _ = update(t, m, keySpace)

	if m.Game().Speed() != 8 {
		t.Errorf("Speed() = %v, expected reloaded start speed 8", m.Game().Speed())
	}
	if m.Game().Config().Scoring.SpeedIncrement != 0 {
		t.Error("overrides were not applied to the reloaded config")
	}
}

func TestSessionModelFlow(t *testing.T) {
	opts := Options{
		Runtime:    core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1},
		HighScores: &skater.MemoryHighScores{},
	}
	s := NewSessionModel(config.DefaultSkaterConfig(), opts)

	step := func(msg tea.Msg) {
		next, _ := s.Update(msg)
		s = next.(SessionModel)
	}

	if !strings.Contains(s.View(), "S K A T E R") {
		t.Fatal("session should open on the title menu")
	}

	step(keyEnter)
	if s.screen != screenGame || s.game == nil {
		t.Fatalf("screen = %v after selecting Play, expected game", s.screen)
	}

	step(keyEsc)
	if s.screen != screenMenu {
		t.Fatalf("screen = %v after esc, expected menu", s.screen)
	}

	step(tea.KeyMsg{Type: tea.KeyDown})
	step(keyEnter)
	if s.screen != screenScores {
		t.Fatalf("screen = %v after selecting scores, expected scoreboard", s.screen)
	}
	if !strings.Contains(s.View(), "HIGH SCORES") {
		t.Error("scoreboard view missing heading")
	}

	step(keyEsc)
	if s.screen != screenMenu {
		t.Fatalf("screen = %v after leaving scores, expected menu", s.screen)
	}

	step(keyQuit)
	if !s.quitting {
		t.Error("q on the menu should end the session")
	}
}
