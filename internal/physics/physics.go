// Package physics defines the rigid-body substrate the simulation runs on.
// Engines live in subpackages and register themselves with the registry
// package from their init() functions.
package physics

import "github.com/vovakirdan/tui-skater/internal/core"

// BodyID identifies a body inside a World. The caller chooses the ids,
// which lets entity ids double as body handles.
type BodyID uint64

// Category is a collision category bitmask.
type Category uint32

// Kind selects how a body is simulated.
type Kind int

const (
	// Dynamic bodies are integrated and pushed out of solids.
	Dynamic Kind = iota
	// Kinematic bodies only move when positioned by the caller.
	Kinematic
)

// BodyDef describes a box-shaped body. Position is the box centre.
type BodyDef struct {
	Kind     Kind
	Position core.Vec
	Size     core.Vec
	Mass     float64 // dynamic only; <= 0 means 1

	Category    Category // what this body is
	CollideWith Category // categories this body is physically separated from
	ContactWith Category // categories whose begin-contacts are reported

	Gravity       bool // affected by world gravity
	FixedRotation bool // never rotates
	Sensor        bool // reports contacts but never pushes anything
}

// BodyState is a read-only view of a body after a step.
type BodyState struct {
	Position        core.Vec
	Velocity        core.Vec
	Angle           float64 // radians, counter-clockwise
	AngularVelocity float64
}

// Contact is a begin-contact event between two bodies. The order of A and B
// is engine specific.
type Contact struct {
	A, B      BodyID
	CategoryA Category
	CategoryB Category
}

// Match reports whether the contact is between categories a and b, in either
// order, and returns the bodies in the order (a, b).
func (c Contact) Match(a, b Category) (BodyID, BodyID, bool) {
	switch {
	case c.CategoryA&a != 0 && c.CategoryB&b != 0:
		return c.A, c.B, true
	case c.CategoryB&a != 0 && c.CategoryA&b != 0:
		return c.B, c.A, true
	}
	return 0, 0, false
}

// Reports returns true when two bodies should produce contact events.
func Reports(a, b BodyDef) bool {
	return a.ContactWith&b.Category != 0 || b.ContactWith&a.Category != 0
}

// Settings configures a new World.
type Settings struct {
	Gravity    float64 // vertical acceleration, units/s^2, negative is down
	Iterations int     // solver iterations for engines that use them
}

// World is a rigid-body simulation. Implementations are not safe for
// concurrent use.
type World interface {
	// Add creates a body. Adding an id twice replaces the old body.
	Add(id BodyID, def BodyDef)
	// Remove destroys a body. Unknown ids are ignored.
	Remove(id BodyID)

	SetPosition(id BodyID, p core.Vec)
	SetVelocity(id BodyID, v core.Vec)
	SetAngle(id BodyID, radians float64)
	SetAngularVelocity(id BodyID, w float64)
	// ApplyImpulse changes the velocity of a body by dv, independent of mass.
	ApplyImpulse(id BodyID, dv core.Vec)

	// Body returns the current state of a body.
	Body(id BodyID) (BodyState, bool)

	// Step advances the simulation by dt seconds.
	Step(dt float64)
	// Contacts drains the begin-contact events produced since the last call.
	Contacts() []Contact
}
