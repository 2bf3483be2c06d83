package tui

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-skater/internal/core"
	"github.com/vovakirdan/tui-skater/internal/skater"
)

// projection maps world coordinates (y up, origin bottom-left) onto the
// playfield rows of a screen (y down).
type projection struct {
	sx, sy    float64
	top, rows int
}

func newProjection(world core.Vec, width, top, rows int) projection {
	p := projection{top: top, rows: rows}
	if world.X > 0 {
		p.sx = float64(width) / world.X
	}
	if world.Y > 0 {
		p.sy = float64(rows) / world.Y
	}
	return p
}

// cell returns the screen cell containing v.
func (p projection) cell(v core.Vec) (int, int) {
	x := int(math.Floor(v.X * p.sx))
	y := p.top + p.rows - 1 - int(math.Floor(v.Y*p.sy))
	return x, y
}

// rect returns the cells covered by b, at least one cell in each direction.
func (p projection) rect(b core.Box) core.Rect {
	x0 := int(math.Floor(b.Left() * p.sx))
	x1 := int(math.Ceil(b.Right() * p.sx))
	y0 := p.top + p.rows - int(math.Ceil(b.Top()*p.sy))
	y1 := p.top + p.rows - int(math.Floor(b.Bottom()*p.sy))
	return core.NewRect(x0, y0, max(x1-x0, 1), max(y1-y0, 1))
}

// drawFrame renders one frame: HUD on the first row, the playfield below.
func drawFrame(s *core.Screen, snap skater.Snapshot, h *hud, bd *Backdrop) {
	s.Clear()
	if s.Height() < 3 || s.Width() < 10 {
		return
	}

	p := newProjection(snap.Viewport, s.Width(), 1, s.Height()-1)
	if bd != nil {
		bd.Draw(s, p, snap.Distance)
	}

	for _, seg := range snap.Segments {
		r := p.rect(seg.Box())
		if seg.Level == skater.High {
			s.DrawRect(r, '▓', core.ColorBrickHigh)
		} else {
			s.DrawRect(r, '█', core.ColorBrick)
		}
	}

	for _, gem := range snap.Pickups {
		x, y := p.cell(gem.Position)
		s.SetColor(x, y, '◆', core.ColorGem)
	}

	drawSkater(s, p, snap.Character)

	for _, sp := range h.sparks {
		x, y := p.cell(sp.at)
		s.SetColor(x, y, '*', core.ColorSpark)
		s.SetColor(x-1, y, '·', core.ColorSpark)
		s.SetColor(x+1, y, '·', core.ColorSpark)
	}

	drawHUD(s, snap, h)
	if h.menuShown {
		drawMenu(s, h.menu)
	}
}

func drawSkater(s *core.Screen, p projection, ch skater.Character) {
	r := p.rect(ch.Box())

	body := '█'
	switch {
	case ch.Rotation > 0.35:
		body = '\\'
	case ch.Rotation < -0.35:
		body = '/'
	}
	s.DrawRect(core.NewRect(r.X, r.Y, r.W, max(r.H-1, 1)), body, core.ColorSkater)
	if r.H > 1 {
		for x := r.X - 1; x <= r.Right(); x++ {
			s.SetColor(x, r.Bottom()-1, '═', core.ColorSkater)
		}
	}
}

func drawHUD(s *core.Screen, snap skater.Snapshot, h *hud) {
	s.DrawText(1, 0, h.scoreLabel(), core.ColorHUD)
	best := h.bestLabel()
	s.DrawText(s.Width()-len(best)-1, 0, best, core.ColorHUD)
	if snap.State == skater.Running {
		s.DrawTextCentered(0, fmt.Sprintf("speed %.1f", snap.Speed), core.ColorDim)
	}
}

func drawMenu(s *core.Screen, m skater.Menu) {
	lines := []string{m.Message}
	if m.HasScore {
		lines = append(lines, fmt.Sprintf("Score %04d", m.Score))
	}
	lines = append(lines, "", "space to play")

	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	box := core.NewRect((s.Width()-width-4)/2, (s.Height()-len(lines)-2)/2, width+4, len(lines)+2)
	s.DrawBox(box, core.ColorMenu)
	for i, l := range lines {
		color := core.ColorMenu
		if i > 0 {
			color = core.ColorHUD
		}
		s.DrawTextCentered(box.Y+1+i, l, color)
	}
}
