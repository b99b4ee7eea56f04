package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func typeRunes(f *Form, s string) {
	for _, r := range s {
		f.HandleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func TestForm_Typing(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"auto colon", "0630", "06:30"},
		{"typed colon", "06:30", "06:30"},
		{"max length", "063012", "06:30"},
		{"ignores letters", "0x6a30", "06:30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewForm()
			typeRunes(f, tt.input)
			if f.OnTime() != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, f.OnTime())
			}
		})
	}
}

func TestForm_FocusAndBackspace(t *testing.T) {
	f := NewForm()
	typeRunes(f, "0630")

	f.HandleKey(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
	if f.Focus() != FieldOff {
		t.Fatalf("Expected focus on OFF field, got %d", f.Focus())
	}
	typeRunes(f, "2115")
	f.HandleKey(tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone))

	if f.OnTime() != "06:30" {
		t.Errorf("Expected ON 06:30, got %q", f.OnTime())
	}
	if f.OffTime() != "21:1" {
		t.Errorf("Expected OFF 21:1, got %q", f.OffTime())
	}

	f.HandleKey(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone))
	if f.Focus() != FieldOn {
		t.Errorf("Expected focus back on ON field, got %d", f.Focus())
	}
}

func TestForm_Actions(t *testing.T) {
	f := NewForm()

	tests := []struct {
		name string
		ev   *tcell.EventKey
		want Action
	}{
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), ActionSubmit},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), ActionQuit},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), ActionQuit},
		{"theme", tcell.NewEventKey(tcell.KeyRune, 't', tcell.ModNone), ActionToggleTheme},
		{"digit", tcell.NewEventKey(tcell.KeyRune, '1', tcell.ModNone), ActionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.HandleKey(tt.ev); got != tt.want {
				t.Errorf("Expected action %d, got %d", tt.want, got)
			}
		})
	}
}
