// Package ui is the terminal front end of the panel: a tcell canvas the
// particle field draws on, the schedule form, and the status widgets the
// session reports to.
package ui

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mbocsi/lightsched/particles"
)

// Viewport units covered by one terminal cell. A cell is about twice as tall
// as it is wide, so a 240x67 terminal maps to roughly 1920x1080.
const (
	CellWidth  = 8
	CellHeight = 16
)

// ViewportFor returns the particle viewport of a cols x rows terminal.
func ViewportFor(cols, rows int) particles.Viewport {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return particles.Viewport{Width: float64(cols * CellWidth), Height: float64(rows * CellHeight)}
}

// Canvas draws particles onto a tcell screen. Each particle lands in one cell;
// its radius picks the glyph and its alpha is blended against the background.
type Canvas struct {
	screen tcell.Screen
	bg     particles.Color
}

func NewCanvas(screen tcell.Screen) *Canvas {
	return &Canvas{screen: screen, bg: particles.Color{R: 255, G: 255, B: 255, A: 1}}
}

// SetBackground sets the color cleared to and blended against.
func (c *Canvas) SetBackground(bg particles.Color) {
	c.bg = bg
}

func (c *Canvas) Clear() {
	style := tcell.StyleDefault.Background(toTcell(c.bg))
	c.screen.Fill(' ', style)
}

func (c *Canvas) FillCircle(x, y, radius float64, col particles.Color) {
	cx := int(math.Floor(x / CellWidth))
	cy := int(math.Floor(y / CellHeight))
	w, h := c.screen.Size()
	if cx < 0 || cy < 0 || cx >= w || cy >= h {
		return
	}

	style := tcell.StyleDefault.
		Background(toTcell(c.bg)).
		Foreground(toTcell(Blend(col, c.bg)))
	c.screen.SetContent(cx, cy, Glyph(radius), nil, style)
}

// Glyph picks a dot size for a particle radius.
func Glyph(radius float64) rune {
	switch {
	case radius < 2:
		return '·'
	case radius < 3:
		return '•'
	default:
		return '●'
	}
}

// Blend composites fg over an opaque bg using fg's alpha.
func Blend(fg, bg particles.Color) particles.Color {
	a := math.Max(0, math.Min(1, fg.A))
	mix := func(f, b uint8) uint8 {
		return uint8(math.Round(float64(f)*a + float64(b)*(1-a)))
	}
	return particles.Color{R: mix(fg.R, bg.R), G: mix(fg.G, bg.G), B: mix(fg.B, bg.B), A: 1}
}

func toTcell(c particles.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
