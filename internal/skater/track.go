package skater

import (
	"github.com/vovakirdan/tui-skater/internal/config"
	"github.com/vovakirdan/tui-skater/internal/core"
	"github.com/vovakirdan/tui-skater/internal/physics"
)

// Rand is the random source of the track generator. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Track spawns, scrolls and culls segments and pickups, keeping the physics
// bodies in step with them.
type Track struct {
	cfg          config.WorldConfig
	playerHeight float64
	rng          Rand
	ids          *idSource
	world        physics.World

	segments []Segment
	pickups  []Pickup
	level    Elevation
}

// NewTrack creates an empty track.
func NewTrack(cfg config.WorldConfig, playerHeight float64, rng Rand, ids *idSource, world physics.World) *Track {
	return &Track{
		cfg:          cfg,
		playerHeight: playerHeight,
		rng:          rng,
		ids:          ids,
		world:        world,
	}
}

// Update scrolls everything left by dx, drops what left the screen and
// extends the track to the right edge of the viewport.
func (t *Track) Update(dx float64, score int, speed float64) {
	for i := range t.segments {
		t.segments[i].Position.X -= dx
		t.world.SetPosition(t.segments[i].ID.body(), t.segments[i].Position)
	}
	for i := range t.pickups {
		t.pickups[i].Position.X -= dx
		t.world.SetPosition(t.pickups[i].ID.body(), t.pickups[i].Position)
	}

	segments := t.segments[:0]
	for _, s := range t.segments {
		if s.Position.X < -t.cfg.BrickWidth {
			t.world.Remove(s.ID.body())
			continue
		}
		segments = append(segments, s)
	}
	clear(t.segments[len(segments):])
	t.segments = segments

	pickups := t.pickups[:0]
	for _, p := range t.pickups {
		if p.Position.X < 0 {
			t.world.Remove(p.ID.body())
			continue
		}
		pickups = append(pickups, p)
	}
	clear(t.pickups[len(pickups):])
	t.pickups = pickups

	t.fill(score, speed)
}

// fill spawns segments until the farthest one reaches the viewport width.
// Each iteration advances by at least one segment width, so it terminates.
func (t *Track) fill(score int, speed float64) {
	w := t.cfg.BrickWidth
	farthest := t.FarthestRight()

	for farthest < t.cfg.ViewportWidth {
		x := farthest + w + 1

		draw := t.rng.Intn(t.cfg.DrawRange)
		if draw < t.cfg.GapChance && score > t.cfg.GapMinScore {
			gap := max(t.cfg.GapFactor*speed, 0)
			x += gap
			y := t.levelY(t.level) + t.playerHeight + float64(t.rng.Intn(t.cfg.GemMaxOffset))
			t.spawnPickup(core.Vec{X: x - gap/2, Y: y})
		} else if draw < t.cfg.GapChance+t.cfg.LevelChance && score > t.cfg.LevelMinScore {
			t.level = t.level.Toggle()
		}

		t.spawnSegment(x)
		farthest = x
	}
}

// FarthestRight returns the x of the rightmost segment centre. An empty track
// reports one segment width left of the origin, so the first segment starts
// just left of the screen edge.
func (t *Track) FarthestRight() float64 {
	farthest := -t.cfg.BrickWidth
	for _, s := range t.segments {
		if s.Position.X > farthest {
			farthest = s.Position.X
		}
	}
	return farthest
}

func (t *Track) levelY(level Elevation) float64 {
	y := t.cfg.BrickHeight / 2
	if level == High {
		y += t.cfg.HighOffset
	}
	return y
}

func (t *Track) spawnSegment(x float64) {
	s := Segment{
		ID:       t.ids.next(),
		Position: core.Vec{X: x, Y: t.levelY(t.level)},
		Size:     core.Vec{X: t.cfg.BrickWidth, Y: t.cfg.BrickHeight},
		Level:    t.level,
	}
	t.segments = append(t.segments, s)
	t.world.Add(s.ID.body(), physics.BodyDef{
		Kind:     physics.Kinematic,
		Position: s.Position,
		Size:     s.Size,
		Category: CategorySegment,
	})
}

func (t *Track) spawnPickup(at core.Vec) {
	p := Pickup{
		ID:       t.ids.next(),
		Position: at,
		Size:     core.Vec{X: t.cfg.GemSize, Y: t.cfg.GemSize},
	}
	t.pickups = append(t.pickups, p)
	t.world.Add(p.ID.body(), physics.BodyDef{
		Kind:     physics.Kinematic,
		Position: p.Position,
		Size:     p.Size,
		Category: CategoryPickup,
		Sensor:   true,
	})
}

// RemovePickup destroys a pickup. It reports false if the pickup was already gone.
func (t *Track) RemovePickup(id EntityID) bool {
	for i, p := range t.pickups {
		if p.ID != id {
			continue
		}
		t.world.Remove(id.body())
		t.pickups = append(t.pickups[:i], t.pickups[i+1:]...)
		return true
	}
	return false
}

// Reset discards every segment and pickup and returns to the low level.
func (t *Track) Reset() {
	for _, s := range t.segments {
		t.world.Remove(s.ID.body())
	}
	for _, p := range t.pickups {
		t.world.Remove(p.ID.body())
	}
	t.segments = nil
	t.pickups = nil
	t.level = Low
}

// Segments returns the active segments in creation order. The slice must not be modified.
func (t *Track) Segments() []Segment { return t.segments }

// Pickups returns the active pickups in creation order. The slice must not be modified.
func (t *Track) Pickups() []Pickup { return t.pickups }

// Level returns the elevation used for the next segment.
func (t *Track) Level() Elevation { return t.level }
