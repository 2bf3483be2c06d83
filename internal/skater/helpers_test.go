package skater

import (
	"time"

	"github.com/vovakirdan/tui-skater/internal/config"
	"github.com/vovakirdan/tui-skater/internal/core"
	_ "github.com/vovakirdan/tui-skater/internal/physics/arcade"
)

// fixedRand always draws the same value, modulo n.
type fixedRand int

func (f fixedRand) Intn(n int) int { return int(f) % n }

// seqRand replays draws in order and then repeats the last one.
type seqRand struct {
	draws []int
	i     int
}

func (s *seqRand) Intn(n int) int {
	v := s.draws[len(s.draws)-1]
	if s.i < len(s.draws) {
		v = s.draws[s.i]
		s.i++
	}
	return v % n
}

type recordingDisplay struct {
	menus      []Menu
	hidden     int
	scores     []int
	highScores []int
}

func (d *recordingDisplay) ShowMenu(m Menu)            { d.menus = append(d.menus, m) }
func (d *recordingDisplay) HideMenu()                  { d.hidden++ }
func (d *recordingDisplay) ScoreChanged(score int)     { d.scores = append(d.scores, score) }
func (d *recordingDisplay) HighScoreChanged(score int) { d.highScores = append(d.highScores, score) }

type recordingEffects struct {
	jumps, gems int
	sparks      []core.Vec
}

func (e *recordingEffects) Jumped()             { e.jumps++ }
func (e *recordingEffects) GemCollected()       { e.gems++ }
func (e *recordingEffects) Sparked(at core.Vec) { e.sparks = append(e.sparks, at) }

type countingHighScores struct {
	best   int
	writes int
}

func (h *countingHighScores) Best() int { return h.best }
func (h *countingHighScores) SetBest(score int) {
	h.best = score
	h.writes++
}

// frameTime returns the timestamp of frame i at 60 fps.
func frameTime(i int) time.Duration {
	return time.Duration(i) * time.Second / 60
}

func testConfig() config.SkaterConfig {
	return config.DefaultSkaterConfig()
}
