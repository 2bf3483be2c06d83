package tui

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-skater/internal/core"
	"github.com/vovakirdan/tui-skater/internal/skater"
)

// sparkLifetime is how long a landing spark stays on screen.
const sparkLifetime = 500 * time.Millisecond

type spark struct {
	at    core.Vec
	until time.Duration
}

// hud receives what the game publishes through its display and effects
// sinks and keeps it for the view. It also queues session starts and ends
// for the model to persist.
type hud struct {
	menu      skater.Menu
	menuShown bool
	score     int
	best      int

	now    time.Duration
	sparks []spark

	started  int
	finished []int
}

func newHUD() *hud {
	return &hud{}
}

func (h *hud) ShowMenu(m skater.Menu) {
	h.menu = m
	h.menuShown = true
	if m.HasScore {
		h.finished = append(h.finished, m.Score)
	}
}

func (h *hud) HideMenu() {
	h.menuShown = false
	h.sparks = h.sparks[:0]
	h.started++
}

func (h *hud) ScoreChanged(score int)     { h.score = score }
func (h *hud) HighScoreChanged(score int) { h.best = score }

func (h *hud) Jumped()       {}
func (h *hud) GemCollected() {}

func (h *hud) Sparked(at core.Vec) {
	h.sparks = append(h.sparks, spark{at: at, until: h.now + sparkLifetime})
}

// advance moves the clock used to expire sparks.
func (h *hud) advance(now time.Duration) {
	h.now = now
	live := h.sparks[:0]
	for _, s := range h.sparks {
		if s.until > now {
			live = append(live, s)
		}
	}
	h.sparks = live
}

// takeStarted returns the number of sessions started since the last call.
func (h *hud) takeStarted() int {
	n := h.started
	h.started = 0
	return n
}

// takeFinished returns the final scores of sessions ended since the last call.
func (h *hud) takeFinished() []int {
	out := h.finished
	h.finished = nil
	return out
}

func (h *hud) scoreLabel() string { return fmt.Sprintf("SCORE %04d", h.score) }
func (h *hud) bestLabel() string  { return fmt.Sprintf("BEST %04d", h.best) }

var (
	_ skater.Display = (*hud)(nil)
	_ skater.Effects = (*hud)(nil)
)
