// Package arcade is a small deterministic physics engine for axis-aligned
// boxes: gravity, explicit Euler integration, push-out against solids and
// begin-contact events. Bodies are processed in the order they were added.
package arcade

import (
	"github.com/vovakirdan/tui-skater/internal/core"
	"github.com/vovakirdan/tui-skater/internal/physics"
	"github.com/vovakirdan/tui-skater/internal/registry"
)

// Name is the registry key of this engine.
const Name = "arcade"

// slop is the distance at which two boxes still count as touching.
const slop = 0.5

func init() {
	registry.Register(Name, "deterministic AABB integrator", func(s physics.Settings) physics.World {
		return New(s)
	})
}

type body struct {
	id   physics.BodyID
	def  physics.BodyDef
	pos  core.Vec
	prev core.Vec
	vel  core.Vec

	angle, angVel float64
}

func (b *body) box() core.Box {
	return core.Box{Center: b.pos, Size: b.def.Size}
}

type pair struct {
	a, b physics.BodyID
}

func makePair(a, b physics.BodyID) pair {
	if a > b {
		a, b = b, a
	}
	return pair{a: a, b: b}
}

// World implements physics.World.
type World struct {
	gravity float64
	bodies  []*body
	byID    map[physics.BodyID]*body

	touching map[pair]bool
	pending  []physics.Contact
}

// New creates an empty world.
func New(s physics.Settings) *World {
	return &World{
		gravity:  s.Gravity,
		byID:     make(map[physics.BodyID]*body),
		touching: make(map[pair]bool),
	}
}

// Add creates a body, replacing any body with the same id.
func (w *World) Add(id physics.BodyID, def physics.BodyDef) {
	w.Remove(id)
	b := &body{id: id, def: def, pos: def.Position, prev: def.Position}
	w.bodies = append(w.bodies, b)
	w.byID[id] = b
}

// Remove destroys a body and forgets its contacts.
func (w *World) Remove(id physics.BodyID) {
	if _, ok := w.byID[id]; !ok {
		return
	}
	delete(w.byID, id)

	valid := w.bodies[:0]
	for _, b := range w.bodies {
		if b.id != id {
			valid = append(valid, b)
		}
	}
	for i := len(valid); i < len(w.bodies); i++ {
		w.bodies[i] = nil
	}
	w.bodies = valid

	for p := range w.touching {
		if p.a == id || p.b == id {
			delete(w.touching, p)
		}
	}
}

// SetPosition teleports a body.
func (w *World) SetPosition(id physics.BodyID, p core.Vec) {
	if b, ok := w.byID[id]; ok {
		b.pos = p
		b.prev = p
	}
}

// SetVelocity sets the linear velocity of a body.
func (w *World) SetVelocity(id physics.BodyID, v core.Vec) {
	if b, ok := w.byID[id]; ok {
		b.vel = v
	}
}

// SetAngle sets the rotation of a body.
func (w *World) SetAngle(id physics.BodyID, radians float64) {
	if b, ok := w.byID[id]; ok && !b.def.FixedRotation {
		b.angle = radians
	}
}

// SetAngularVelocity sets the spin of a body.
func (w *World) SetAngularVelocity(id physics.BodyID, av float64) {
	if b, ok := w.byID[id]; ok && !b.def.FixedRotation {
		b.angVel = av
	}
}

// ApplyImpulse adds dv to the velocity of a body.
func (w *World) ApplyImpulse(id physics.BodyID, dv core.Vec) {
	if b, ok := w.byID[id]; ok {
		b.vel = b.vel.Add(dv)
	}
}

// Body returns the state of a body.
func (w *World) Body(id physics.BodyID) (physics.BodyState, bool) {
	b, ok := w.byID[id]
	if !ok {
		return physics.BodyState{}, false
	}
	return physics.BodyState{
		Position:        b.pos,
		Velocity:        b.vel,
		Angle:           b.angle,
		AngularVelocity: b.angVel,
	}, true
}

// Step integrates every body by dt seconds, separates dynamic bodies from
// the solids they collide with and records new contacts.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}

	for _, b := range w.bodies {
		b.prev = b.pos
		if b.def.Kind == physics.Dynamic && b.def.Gravity {
			b.vel.Y += w.gravity * dt
		}
		b.pos = b.pos.Add(b.vel.Scale(dt))
		b.angle += b.angVel * dt
	}

	for _, b := range w.bodies {
		if b.def.Kind != physics.Dynamic || b.def.CollideWith == 0 {
			continue
		}
		for _, o := range w.bodies {
			if o == b || o.def.Sensor || b.def.CollideWith&o.def.Category == 0 {
				continue
			}
			separate(b, o)
		}
	}

	w.detectContacts()
}

// separate pushes b out of o. A body that was above o before the step lands
// on it, one that was below bumps its head, anything else is pushed sideways.
func separate(b, o *body) {
	bb, ob := b.box(), o.box()
	if !bb.Overlaps(ob) {
		return
	}

	half := b.def.Size.Scale(0.5)
	prevBottom := b.prev.Y - half.Y
	prevTop := b.prev.Y + half.Y

	switch {
	case prevBottom >= ob.Top()-slop:
		b.pos.Y = ob.Top() + half.Y
		if b.vel.Y < 0 {
			b.vel.Y = 0
		}
	case prevTop <= ob.Bottom()+slop:
		b.pos.Y = ob.Bottom() - half.Y
		if b.vel.Y > 0 {
			b.vel.Y = 0
		}
	case b.pos.X < o.pos.X:
		b.pos.X = ob.Left() - half.X
		if b.vel.X > 0 {
			b.vel.X = 0
		}
	default:
		b.pos.X = ob.Right() + half.X
		if b.vel.X < 0 {
			b.vel.X = 0
		}
	}
}

func (w *World) detectContacts() {
	now := make(map[pair]bool, len(w.touching))
	for i, a := range w.bodies {
		for _, b := range w.bodies[i+1:] {
			if !physics.Reports(a.def, b.def) {
				continue
			}
			if !a.box().Touches(b.box(), slop) {
				continue
			}
			p := makePair(a.id, b.id)
			now[p] = true
			if w.touching[p] {
				continue
			}
			w.pending = append(w.pending, physics.Contact{
				A:         a.id,
				B:         b.id,
				CategoryA: a.def.Category,
				CategoryB: b.def.Category,
			})
		}
	}
	w.touching = now
}

// Contacts drains the begin-contact events recorded by Step.
func (w *World) Contacts() []physics.Contact {
	out := w.pending
	w.pending = nil
	return out
}

var _ physics.World = (*World)(nil)
