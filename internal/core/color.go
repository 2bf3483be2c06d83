package core

// Color is a semantic foreground colour for a screen cell.
// The platform layer maps each value to a terminal style.
type Color uint8

// Palette used by the skater view.
const (
	ColorDefault Color = iota
	ColorSkyline
	ColorBrick
	ColorBrickHigh
	ColorGem
	ColorSkater
	ColorSpark
	ColorHUD
	ColorMenu
	ColorDim
)
