package skater

import (
	"sort"

	"github.com/vovakirdan/tui-skater/internal/core"
	"github.com/vovakirdan/tui-skater/internal/physics"
)

// Resolver applies the game rules to begin-contacts reported by the world.
type Resolver struct {
	ctrl     *Controller
	track    *Track
	effects  Effects
	bonus    int
	maxLandV float64
}

// NewResolver creates a resolver. Landing counts only while the vertical
// velocity is below maxLandV.
func NewResolver(ctrl *Controller, track *Track, effects Effects, bonus int, maxLandV float64) *Resolver {
	return &Resolver{
		ctrl:     ctrl,
		track:    track,
		effects:  effects,
		bonus:    bonus,
		maxLandV: maxLandV,
	}
}

// Resolve handles each contact once, in creation order of the bodies
// involved, and returns the points earned.
func (r *Resolver) Resolve(contacts []physics.Contact) int {
	sortContacts(contacts)

	points := 0
	for _, c := range contacts {
		if _, _, ok := c.Match(CategoryCharacter, CategorySegment); ok {
			r.land()
			continue
		}
		if _, gem, ok := c.Match(CategoryCharacter, CategoryPickup); ok {
			points += r.collect(EntityID(gem))
		}
	}
	return points
}

func (r *Resolver) land() {
	ch := r.ctrl.Character()
	if ch.Grounded || ch.Velocity.Y >= r.maxLandV {
		return
	}
	r.effects.Sparked(core.Vec{X: ch.Position.X, Y: ch.Position.Y - ch.Size.Y/2})
	r.ctrl.Land()
}

func (r *Resolver) collect(id EntityID) int {
	if !r.track.RemovePickup(id) {
		return 0
	}
	r.effects.GemCollected()
	return r.bonus
}

func sortContacts(contacts []physics.Contact) {
	key := func(c physics.Contact) (physics.BodyID, physics.BodyID) {
		if c.A < c.B {
			return c.A, c.B
		}
		return c.B, c.A
	}
	sort.SliceStable(contacts, func(i, j int) bool {
		ai, bi := key(contacts[i])
		aj, bj := key(contacts[j])
		if ai != aj {
			return ai < aj
		}
		return bi < bj
	})
}
