package particles

// Color is a straight (non-premultiplied) RGB color with an alpha in [0, 1].
type Color struct {
	R, G, B uint8
	A       float64
}

var (
	White = Color{R: 255, G: 255, B: 255, A: 1}
	Black = Color{A: 1}
)

func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// Surface is the drawing target a Field renders to. Coordinates are in
// viewport units, the same units Viewport is measured in.
type Surface interface {
	Clear()
	FillCircle(x, y, radius float64, c Color)
}

// Viewport is the size of the drawing area.
type Viewport struct {
	Width  float64
	Height float64
}

func (v Viewport) Contains(x, y float64) bool {
	return x >= 0 && x <= v.Width && y >= 0 && y <= v.Height
}

func (v Viewport) Area() float64 {
	if v.Width <= 0 || v.Height <= 0 {
		return 0
	}
	return v.Width * v.Height
}
