package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/mbocsi/lightsched/particles"
)

func newTestScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init simulation screen: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func TestViewportFor(t *testing.T) {
	vp := ViewportFor(240, 67)
	if vp.Width != 1920 || vp.Height != 1072 {
		t.Errorf("Expected 1920x1072, got %vx%v", vp.Width, vp.Height)
	}
	if vp := ViewportFor(-1, 10); vp.Width != 0 {
		t.Errorf("Expected zero width for negative cols, got %v", vp.Width)
	}
}

func TestBlend(t *testing.T) {
	white := particles.Color{R: 255, G: 255, B: 255, A: 1}
	black := particles.Color{A: 1}

	tests := []struct {
		name string
		fg   particles.Color
		want uint8
	}{
		{"opaque", black, 0},
		{"transparent", black.WithAlpha(0), 255},
		{"half", black.WithAlpha(0.5), 128},
		{"clamped", black.WithAlpha(2), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Blend(tt.fg, white)
			if got.R != tt.want || got.G != tt.want || got.B != tt.want {
				t.Errorf("Expected gray %d, got %+v", tt.want, got)
			}
			if got.A != 1 {
				t.Errorf("Expected opaque result, got alpha %v", got.A)
			}
		})
	}
}

func TestGlyph(t *testing.T) {
	if Glyph(1.5) != '·' || Glyph(2.5) != '•' || Glyph(3.9) != '●' {
		t.Errorf("Unexpected glyphs: %q %q %q", Glyph(1.5), Glyph(2.5), Glyph(3.9))
	}
}

func TestCanvas_FillCircle(t *testing.T) {
	screen := newTestScreen(t, 10, 5)
	c := NewCanvas(screen)
	c.SetBackground(particles.Color{R: 255, G: 255, B: 255, A: 1})
	c.Clear()

	c.FillCircle(17, 33, 3.5, particles.Black.WithAlpha(1))
	mainc, _, style, _ := screen.GetContent(2, 2)
	if mainc != '●' {
		t.Errorf("Expected '●' at (2,2), got %q", mainc)
	}
	fg, bg, _ := style.Decompose()
	if fg != tcell.NewRGBColor(0, 0, 0) {
		t.Errorf("Expected black foreground, got %v", fg)
	}
	if bg != tcell.NewRGBColor(255, 255, 255) {
		t.Errorf("Expected white background, got %v", bg)
	}

	// Off-screen particles are clipped rather than wrapped
	c.FillCircle(-1, 0, 1, particles.Black)
	c.FillCircle(10*CellWidth, 0, 1, particles.Black)
	for x := 0; x < 10; x++ {
		if r, _, _, _ := screen.GetContent(x, 0); r != ' ' {
			t.Errorf("Expected blank cell at (%d,0), got %q", x, r)
		}
	}
}
