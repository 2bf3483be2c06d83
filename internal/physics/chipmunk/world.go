// Package chipmunk runs the simulation on Chipmunk2D through jakecoffman/cp.
// Unlike the arcade engine it solves real rigid-body contacts, so a body
// without fixed rotation can tip over on an edge.
package chipmunk

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/vovakirdan/tui-skater/internal/core"
	"github.com/vovakirdan/tui-skater/internal/physics"
	"github.com/vovakirdan/tui-skater/internal/registry"
)

// Name is the registry key of this engine.
const Name = "chipmunk"

func init() {
	registry.Register(Name, "Chipmunk2D rigid bodies (jakecoffman/cp)", func(s physics.Settings) physics.World {
		return New(s)
	})
}

type bodyInfo struct {
	def   physics.BodyDef
	body  *cp.Body
	shape *cp.Shape
}

// World implements physics.World on top of a cp.Space.
type World struct {
	space    *cp.Space
	bodies   map[physics.BodyID]*bodyInfo
	shapes   map[*cp.Shape]physics.BodyID
	handlers map[physics.Category]bool
	pending  []physics.Contact
}

// New creates an empty space with the given gravity.
func New(s physics.Settings) *World {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{X: 0, Y: s.Gravity})
	if s.Iterations > 0 {
		space.Iterations = uint(s.Iterations)
	}
	return &World{
		space:    space,
		bodies:   make(map[physics.BodyID]*bodyInfo),
		shapes:   make(map[*cp.Shape]physics.BodyID),
		handlers: make(map[physics.Category]bool),
	}
}

// Add creates a box body, replacing any body with the same id.
func (w *World) Add(id physics.BodyID, def physics.BodyDef) {
	w.Remove(id)

	var body *cp.Body
	switch def.Kind {
	case physics.Kinematic:
		body = cp.NewKinematicBody()
	default:
		mass := def.Mass
		if mass <= 0 {
			mass = 1
		}
		moment := cp.MomentForBox(mass, def.Size.X, def.Size.Y)
		if def.FixedRotation {
			moment = math.Inf(1)
		}
		body = cp.NewBody(mass, moment)
		if !def.Gravity {
			body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
				cp.BodyUpdateVelocity(body, cp.Vector{}, damping, dt)
			})
		}
	}
	body.SetPosition(toVector(def.Position))

	shape := cp.NewBox(body, def.Size.X, def.Size.Y, 0)
	shape.SetFriction(0)
	shape.SetElasticity(0)
	shape.SetSensor(def.Sensor)
	shape.SetCollisionType(cp.CollisionType(def.Category))
	shape.SetFilter(cp.NewShapeFilter(0, uint(def.Category), filterMask(def)))

	w.space.AddBody(body)
	w.space.AddShape(shape)

	w.bodies[id] = &bodyInfo{def: def, body: body, shape: shape}
	w.shapes[shape] = id

	if def.ContactWith != 0 {
		w.ensureHandler(def.Category)
	}
}

// filterMask lets a body meet everything it collides or reports with. A body
// that names neither meets every category except its own.
func filterMask(def physics.BodyDef) uint {
	mask := uint(def.CollideWith | def.ContactWith)
	if mask == 0 {
		return ^uint(0) &^ uint(def.Category)
	}
	return mask
}

func (w *World) ensureHandler(cat physics.Category) {
	if w.handlers[cat] {
		return
	}
	w.handlers[cat] = true

	handler := w.space.NewWildcardCollisionHandler(cp.CollisionType(cat))
	handler.UserData = w
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*World)
		if !ok || world == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		return world.begin(shapeA, shapeB)
	}
}

// begin queues a contact and decides whether the pair is solved physically.
func (w *World) begin(shapeA, shapeB *cp.Shape) bool {
	idA, okA := w.shapes[shapeA]
	idB, okB := w.shapes[shapeB]
	if !okA || !okB {
		return true
	}
	a, b := w.bodies[idA], w.bodies[idB]
	if physics.Reports(a.def, b.def) && !w.queued(idA, idB) {
		w.pending = append(w.pending, physics.Contact{
			A:         idA,
			B:         idB,
			CategoryA: a.def.Category,
			CategoryB: b.def.Category,
		})
	}
	return a.def.CollideWith&b.def.Category != 0 || b.def.CollideWith&a.def.Category != 0
}

// queued guards against both wildcard handlers of a pair firing for the same begin.
func (w *World) queued(a, b physics.BodyID) bool {
	for _, c := range w.pending {
		if (c.A == a && c.B == b) || (c.A == b && c.B == a) {
			return true
		}
	}
	return false
}

// Remove destroys a body. Unknown ids are ignored.
func (w *World) Remove(id physics.BodyID) {
	info, ok := w.bodies[id]
	if !ok {
		return
	}
	w.space.RemoveShape(info.shape)
	w.space.RemoveBody(info.body)
	delete(w.shapes, info.shape)
	delete(w.bodies, id)
}

// SetPosition teleports a body.
func (w *World) SetPosition(id physics.BodyID, p core.Vec) {
	if info, ok := w.bodies[id]; ok {
		info.body.SetPosition(toVector(p))
	}
}

// SetVelocity sets the linear velocity of a body.
func (w *World) SetVelocity(id physics.BodyID, v core.Vec) {
	if info, ok := w.bodies[id]; ok {
		info.body.SetVelocityVector(toVector(v))
	}
}

// SetAngle sets the rotation of a body.
func (w *World) SetAngle(id physics.BodyID, radians float64) {
	if info, ok := w.bodies[id]; ok {
		info.body.SetAngle(radians)
	}
}

// SetAngularVelocity sets the spin of a body.
func (w *World) SetAngularVelocity(id physics.BodyID, av float64) {
	if info, ok := w.bodies[id]; ok {
		info.body.SetAngularVelocity(av)
	}
}

// ApplyImpulse adds dv to the velocity of a body.
func (w *World) ApplyImpulse(id physics.BodyID, dv core.Vec) {
	if info, ok := w.bodies[id]; ok {
		info.body.SetVelocityVector(info.body.Velocity().Add(toVector(dv)))
	}
}

// Body returns the state of a body.
func (w *World) Body(id physics.BodyID) (physics.BodyState, bool) {
	info, ok := w.bodies[id]
	if !ok {
		return physics.BodyState{}, false
	}
	return physics.BodyState{
		Position:        fromVector(info.body.Position()),
		Velocity:        fromVector(info.body.Velocity()),
		Angle:           info.body.Angle(),
		AngularVelocity: info.body.AngularVelocity(),
	}, true
}

// Step advances the space by dt seconds.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.space.Step(dt)
}

// Contacts drains the begin-contact events queued during Step.
func (w *World) Contacts() []physics.Contact {
	out := w.pending
	w.pending = nil
	return out
}

func toVector(v core.Vec) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

func fromVector(v cp.Vector) core.Vec {
	return core.Vec{X: v.X, Y: v.Y}
}

var _ physics.World = (*World)(nil)
