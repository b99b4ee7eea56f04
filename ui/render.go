package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mbocsi/lightsched/client"
)

const (
	bulbOn    = '◉'
	bulbOff   = '○'
	helpText  = "Tab switch · Enter set · t theme · Esc quit"
	titleText = "Light Schedule"
)

func submitLabel(s client.SubmitState) string {
	switch s {
	case client.SubmitSending:
		return "[ Sending... ]"
	case client.SubmitSuccess:
		return "[ Schedule Set! ]"
	case client.SubmitDisabled:
		return "[ Disconnected ]"
	default:
		return "[ Set Schedule ]"
	}
}

// drawText writes s starting at (x, y) and returns the column after it.
func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) int {
	w, h := s.Size()
	if y < 0 || y >= h {
		return x
	}
	for _, r := range text {
		if x >= 0 && x < w {
			s.SetContent(x, y, r, nil, style)
		}
		x++
	}
	return x
}

// drawOverlay draws the widgets over the particle field. frame drives the
// bulb pulse; shakeX offsets the submit button.
func drawOverlay(s tcell.Screen, pal Palette, form *Form, v View, frame uint64, shakeX int) {
	w, h := s.Size()
	text := pal.style(pal.Text)
	muted := pal.style(pal.Muted)

	// Title bar
	drawText(s, 2, 1, titleText, text.Bold(true))
	drawText(s, w-len(v.Clock)-2, 1, v.Clock, muted)

	bulbStyle := pal.style(pal.BulbOff)
	bulb := bulbOff
	if v.BulbAnimated {
		bulb = bulbOn
		bulbStyle = pal.style(pal.BulbOn)
		if (frame/30)%2 == 1 {
			bulbStyle = bulbStyle.Dim(true)
		}
	}
	s.SetContent(2+len(titleText)+2, 1, bulb, nil, bulbStyle)

	// Inputs
	drawField(s, pal, 2, 3, "ON ", form.OnTime(), form.Focus() == FieldOn)
	drawField(s, pal, 2, 4, "OFF", form.OffTime(), form.Focus() == FieldOff)

	// Submit button
	bx := 2 + shakeX
	btnStyle := pal.style(pal.Accent).Reverse(true)
	switch v.Submit {
	case client.SubmitSuccess:
		btnStyle = pal.style(pal.Success).Reverse(true)
	case client.SubmitDisabled:
		btnStyle = muted
	}
	drawText(s, bx, 6, submitLabel(v.Submit), btnStyle)

	if v.NextEvent != "" {
		drawText(s, 2, 8, v.NextEvent, text)
	}

	// History
	drawText(s, 2, 10, "History", text.Bold(true))
	for i, e := range v.History {
		drawText(s, 4, 11+i, e.String(), muted)
	}

	// Notification and help along the bottom
	if v.HasNotification {
		ns := text
		switch v.Notification.Severity {
		case client.SeveritySuccess:
			ns = pal.style(pal.Success)
		case client.SeverityError:
			ns = pal.style(pal.Error)
		}
		drawText(s, 2, h-3, v.Notification.Message, ns.Bold(true))
	}
	drawText(s, 2, h-2, helpText, muted)
}

func drawField(s tcell.Screen, pal Palette, x, y int, label, value string, focused bool) {
	x = drawText(s, x, y, label+" ", pal.style(pal.Text))
	display := value
	for len([]rune(display)) < maxTimeLen {
		display += "_"
	}
	style := pal.style(pal.Muted)
	if focused {
		style = pal.style(pal.Accent).Underline(true)
	}
	drawText(s, x, y, "["+display+"]", style)
}
