package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mbocsi/lightsched/particles"
)

// Palette is the set of colors for one theme.
type Palette struct {
	Background particles.Color
	Text       tcell.Color
	Muted      tcell.Color
	Accent     tcell.Color
	Success    tcell.Color
	Error      tcell.Color
	BulbOn     tcell.Color
	BulbOff    tcell.Color
}

var (
	lightPalette = Palette{
		Background: particles.Color{R: 245, G: 245, B: 245, A: 1},
		Text:       tcell.NewRGBColor(33, 33, 33),
		Muted:      tcell.NewRGBColor(120, 120, 120),
		Accent:     tcell.NewRGBColor(25, 118, 210),
		Success:    tcell.NewRGBColor(46, 125, 50),
		Error:      tcell.NewRGBColor(198, 40, 40),
		BulbOn:     tcell.NewRGBColor(249, 168, 37),
		BulbOff:    tcell.NewRGBColor(158, 158, 158),
	}
	darkPalette = Palette{
		Background: particles.Color{R: 18, G: 18, B: 18, A: 1},
		Text:       tcell.NewRGBColor(230, 230, 230),
		Muted:      tcell.NewRGBColor(150, 150, 150),
		Accent:     tcell.NewRGBColor(100, 181, 246),
		Success:    tcell.NewRGBColor(129, 199, 132),
		Error:      tcell.NewRGBColor(229, 115, 115),
		BulbOn:     tcell.NewRGBColor(255, 213, 79),
		BulbOff:    tcell.NewRGBColor(97, 97, 97),
	}
)

func PaletteFor(dark bool) Palette {
	if dark {
		return darkPalette
	}
	return lightPalette
}

func (p Palette) style(fg tcell.Color) tcell.Style {
	return tcell.StyleDefault.Background(toTcell(p.Background)).Foreground(fg)
}
