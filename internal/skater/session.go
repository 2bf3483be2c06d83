package skater

import (
	"math"
	"time"
)

// Session is the state of one playthrough. Timestamps are simulation time
// as passed to Game.Update.
type Session struct {
	State    State
	Score    int
	Speed    float64
	Distance float64

	lastUpdate    time.Duration
	hasUpdate     bool
	lastScoreTick time.Duration
	hasScoreTick  bool
}

// reset prepares a new running session.
func (s *Session) reset(startSpeed float64) {
	*s = Session{State: Running, Speed: startSpeed}
}

// elapsed returns the time since the previous frame and remembers now.
// The first frame of a session, and any frame with time going backwards,
// has zero elapsed time.
func (s *Session) elapsed(now time.Duration) time.Duration {
	var d time.Duration
	if s.hasUpdate && now > s.lastUpdate {
		d = now - s.lastUpdate
	}
	s.lastUpdate = now
	s.hasUpdate = true
	return d
}

// tickScore awards floor(speed) for every full interval since the last
// award. The first call only starts the clock. A non-positive interval
// never awards.
func (s *Session) tickScore(now, interval time.Duration) int {
	if !s.hasScoreTick {
		s.lastScoreTick = now
		s.hasScoreTick = true
		return 0
	}
	if interval <= 0 || now < s.lastScoreTick {
		return 0
	}
	ticks := (now - s.lastScoreTick) / interval
	s.lastScoreTick += ticks * interval
	return int(ticks) * int(math.Floor(s.Speed))
}
