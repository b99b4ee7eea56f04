package ui

import (
	"github.com/gdamore/tcell/v2"
)

const maxTimeLen = 5 // "HH:MM"

// Field identifies one of the two schedule inputs.
type Field int

const (
	FieldOn Field = iota
	FieldOff
)

// Action is what a key press asks the app to do.
type Action int

const (
	ActionNone Action = iota
	ActionSubmit
	ActionToggleTheme
	ActionQuit
)

// Form is the schedule input: an ON time and an OFF time, one of which has
// focus.
type Form struct {
	values [2][]rune
	focus  Field
}

func NewForm() *Form {
	return &Form{}
}

func (f *Form) OnTime() string  { return string(f.values[FieldOn]) }
func (f *Form) OffTime() string { return string(f.values[FieldOff]) }
func (f *Form) Focus() Field    { return f.focus }

func (f *Form) SetTimes(on, off string) {
	f.values[FieldOn] = []rune(on)
	f.values[FieldOff] = []rune(off)
}

// HandleKey edits the focused field or returns the action the key maps to.
func (f *Form) HandleKey(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyEnter:
		return ActionSubmit
	case tcell.KeyTab, tcell.KeyBacktab, tcell.KeyUp, tcell.KeyDown:
		f.focus = 1 - f.focus
		return ActionNone
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		v := f.values[f.focus]
		if len(v) > 0 {
			f.values[f.focus] = v[:len(v)-1]
		}
		return ActionNone
	case tcell.KeyRune:
		r := ev.Rune()
		switch {
		case r == 't' || r == 'T':
			return ActionToggleTheme
		case r == 'q' || r == 'Q':
			return ActionQuit
		case (r >= '0' && r <= '9') || r == ':':
			f.insert(r)
		}
	}
	return ActionNone
}

// insert appends r, adding the colon after two hour digits.
func (f *Form) insert(r rune) {
	v := f.values[f.focus]
	if len(v) >= maxTimeLen {
		return
	}
	if r != ':' && len(v) == 2 {
		v = append(v, ':')
	}
	if len(v) >= maxTimeLen {
		return
	}
	f.values[f.focus] = append(v, r)
}
