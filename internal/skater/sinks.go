package skater

import "github.com/vovakirdan/tui-skater/internal/core"

// Effects receives fire-and-forget notifications for sounds and particles.
// Implementations must not block and cannot influence the simulation.
type Effects interface {
	Jumped()
	GemCollected()
	Sparked(at core.Vec)
}

// Menu is a message overlay request, optionally with a score.
type Menu struct {
	Message  string
	Score    int
	HasScore bool
}

// Display receives menu and score label updates.
type Display interface {
	ShowMenu(m Menu)
	HideMenu()
	ScoreChanged(score int)
	HighScoreChanged(score int)
}

// HighScores holds the best score across sessions. The shell owns it and
// decides whether it is persisted.
type HighScores interface {
	Best() int
	SetBest(score int)
}

// Menu messages.
const (
	MessageStart    = "Tap to play"
	MessageGameOver = "Game over!"
)

// NopEffects discards all effects.
type NopEffects struct{}

func (NopEffects) Jumped()          {}
func (NopEffects) GemCollected()    {}
func (NopEffects) Sparked(core.Vec) {}

// NopDisplay discards all display updates.
type NopDisplay struct{}

func (NopDisplay) ShowMenu(Menu)        {}
func (NopDisplay) HideMenu()            {}
func (NopDisplay) ScoreChanged(int)     {}
func (NopDisplay) HighScoreChanged(int) {}

// MemoryHighScores keeps the best score in memory for the process lifetime.
type MemoryHighScores struct {
	best int
}

// Best returns the stored high score.
func (m *MemoryHighScores) Best() int { return m.best }

// SetBest stores a new high score.
func (m *MemoryHighScores) SetBest(score int) { m.best = score }

type teeEffects []Effects

// TeeEffects fans every notification out to all sinks in order.
func TeeEffects(sinks ...Effects) Effects {
	return teeEffects(sinks)
}

func (t teeEffects) Jumped() {
	for _, e := range t {
		e.Jumped()
	}
}

func (t teeEffects) GemCollected() {
	for _, e := range t {
		e.GemCollected()
	}
}

func (t teeEffects) Sparked(at core.Vec) {
	for _, e := range t {
		e.Sparked(at)
	}
}
