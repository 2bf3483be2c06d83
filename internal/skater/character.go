package skater

import (
	"math"

	"github.com/vovakirdan/tui-skater/internal/config"
	"github.com/vovakirdan/tui-skater/internal/core"
	"github.com/vovakirdan/tui-skater/internal/physics"
)

// Controller owns the character and its physics body. Gravity comes from
// the world; the controller applies jumps and evaluates the airborne and
// wipeout rules.
type Controller struct {
	physics config.PhysicsConfig
	player  config.PlayerConfig
	world   physics.World
	ch      Character
}

// NewController creates the character. Its body is added on Reset.
func NewController(id EntityID, pc config.PhysicsConfig, pl config.PlayerConfig, world physics.World) *Controller {
	return &Controller{
		physics: pc,
		player:  pl,
		world:   world,
		ch: Character{
			ID:   id,
			Size: core.Vec{X: pl.Width, Y: pl.Height},
		},
	}
}

// Reset places the character at its spawn point, at rest and upright.
func (c *Controller) Reset(x float64) {
	y := c.player.Height/2 + c.player.StartOffset
	c.ch.Position = core.Vec{X: x, Y: y}
	c.ch.Velocity = core.Vec{}
	c.ch.Rotation = 0
	c.ch.Grounded = true
	c.ch.MinY = y

	id := c.ch.ID.body()
	c.world.Add(id, physics.BodyDef{
		Kind:          physics.Dynamic,
		Position:      c.ch.Position,
		Size:          c.ch.Size,
		Mass:          1,
		Category:      CategoryCharacter,
		CollideWith:   CategorySegment,
		ContactWith:   CategorySegment | CategoryPickup,
		Gravity:       true,
		FixedRotation: !c.physics.AllowRotation,
	})
	c.world.SetVelocity(id, core.Vec{})
	c.world.SetAngle(id, 0)
	c.world.SetAngularVelocity(id, 0)
}

// Jump launches the character if it stands on a segment. It reports whether
// the jump happened.
func (c *Controller) Jump() bool {
	if !c.ch.Grounded {
		return false
	}
	c.world.ApplyImpulse(c.ch.ID.body(), core.Vec{Y: c.physics.JumpImpulse})
	c.ch.Velocity.Y += c.physics.JumpImpulse
	c.ch.Grounded = false
	return true
}

// Sync copies the body state computed by the last step.
func (c *Controller) Sync() {
	st, ok := c.world.Body(c.ch.ID.body())
	if !ok {
		return
	}
	c.ch.Position = st.Position
	c.ch.Velocity = st.Velocity
	c.ch.Rotation = st.Angle
}

// CheckAirborne clears the grounded flag when the vertical speed is too high
// for resting contact. Only contacts set it again.
func (c *Controller) CheckAirborne() {
	vy := c.ch.Velocity.Y
	if vy > c.physics.AirborneVelocity || vy < -c.physics.AirborneVelocity {
		c.ch.Grounded = false
	}
}

// Land marks the character as standing on a segment.
func (c *Controller) Land() {
	c.ch.Grounded = true
}

// WipedOut reports whether the character left the screen or tipped over.
func (c *Controller) WipedOut() bool {
	if c.ch.Position.X < 0 || c.ch.Position.Y < 0 {
		return true
	}
	maxTilt := c.physics.MaxTilt * math.Pi / 180
	return c.ch.Rotation > maxTilt || c.ch.Rotation < -maxTilt
}

// Character returns a copy of the character.
func (c *Controller) Character() Character {
	return c.ch
}
