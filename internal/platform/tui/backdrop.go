package tui

import (
	"math"

	"github.com/aquilax/go-perlin"

	"github.com/vovakirdan/tui-skater/internal/core"
)

const (
	buildingWidth = 4    // columns per building
	parallax      = 0.25 // skyline scroll speed relative to the track
	skylineHeight = 0.6  // tallest building as a share of the playfield
)

// Backdrop draws a city skyline that scrolls slower than the track.
// Building heights come from Perlin noise, so the same seed always yields
// the same city.
type Backdrop struct {
	noise *perlin.Perlin
}

// NewBackdrop creates a skyline for the given seed.
func NewBackdrop(seed int64) *Backdrop {
	return &Backdrop{noise: perlin.NewPerlin(2, 2, 3, seed)}
}

// Height returns the height of building i in [0, 1].
func (b *Backdrop) Height(i int) float64 {
	// Perlin noise is zero on lattice points, so sample between them.
	n := b.noise.Noise1D(float64(i)*0.37 + 0.5)
	h := (n + 1) / 2
	return math.Max(0, math.Min(1, h))
}

// Draw paints the skyline into the playfield for the given scroll distance.
func (b *Backdrop) Draw(s *core.Screen, p projection, distance float64) {
	offset := distance * p.sx * parallax
	for col := 0; col < s.Width(); col++ {
		world := float64(col) + offset
		i := int(math.Floor(world / buildingWidth))
		height := int(b.Height(i) * float64(p.rows) * skylineHeight)

		glyph := '░'
		if int(math.Floor(world))%buildingWidth == 0 {
			glyph = '▒'
		}
		for r := 0; r < height; r++ {
			s.SetColor(col, p.top+p.rows-1-r, glyph, core.ColorSkyline)
		}
	}
}
