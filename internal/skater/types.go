package skater

import (
	"github.com/vovakirdan/tui-skater/internal/core"
	"github.com/vovakirdan/tui-skater/internal/physics"
)

// EntityID identifies a character, segment or pickup. IDs grow monotonically,
// so ordering by id is ordering by creation. The same value is used as the
// physics body id.
type EntityID uint64

func (id EntityID) body() physics.BodyID {
	return physics.BodyID(id)
}

type idSource struct {
	last EntityID
}

func (s *idSource) next() EntityID {
	s.last++
	return s.last
}

// Collision categories.
const (
	CategoryCharacter physics.Category = 1 << 0
	CategorySegment   physics.Category = 1 << 1
	CategoryPickup    physics.Category = 1 << 2
)

// Elevation is the level a segment is spawned at.
type Elevation int

const (
	Low Elevation = iota
	High
)

// Toggle returns the other elevation.
func (e Elevation) Toggle() Elevation {
	if e == Low {
		return High
	}
	return Low
}

func (e Elevation) String() string {
	if e == High {
		return "high"
	}
	return "low"
}

// State is the game state machine.
type State int

const (
	NotRunning State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "not running"
}

// Character is the player. Position is the body centre.
type Character struct {
	ID       EntityID
	Position core.Vec
	Velocity core.Vec
	Rotation float64 // radians
	Size     core.Vec
	Grounded bool
	MinY     float64 // spawn height recorded at reset
}

// Box returns the character bounds.
func (c Character) Box() core.Box {
	return core.Box{Center: c.Position, Size: c.Size}
}

// Segment is a ground brick. Position is the centre.
type Segment struct {
	ID       EntityID
	Position core.Vec
	Size     core.Vec
	Level    Elevation
}

// Box returns the segment bounds.
func (s Segment) Box() core.Box {
	return core.Box{Center: s.Position, Size: s.Size}
}

// Pickup is a gem floating over a gap.
type Pickup struct {
	ID       EntityID
	Position core.Vec
	Size     core.Vec
}

// Box returns the pickup bounds.
func (p Pickup) Box() core.Box {
	return core.Box{Center: p.Position, Size: p.Size}
}
