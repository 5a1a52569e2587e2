package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m PickerModel, keys ...string) (PickerModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(PickerModel)
	}
	return m, cmd
}

func TestPickerStartsOnCurrent(t *testing.T) {
	m := NewPickerModel("Size", sizeOptions(), "b6")
	if m.Options[m.Cursor].Value != "B6" {
		t.Errorf("cursor on %q, want B6", m.Options[m.Cursor].Value)
	}

	m = NewPickerModel("Size", sizeOptions(), "Letter")
	if m.Cursor != 0 {
		t.Errorf("unknown current should start at 0, got %d", m.Cursor)
	}
}

func TestPickerNavigation(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{"enter keeps first", []string{"enter"}, "grid"},
		{"down once", []string{"down", "enter"}, "line"},
		{"vim keys", []string{"j", "j", "k", "enter"}, "line"},
		{"clamped at bottom", []string{"down", "down", "down", "down", "enter"}, "dot"},
		{"clamped at top", []string{"up", "up", "enter"}, "grid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := press(NewPickerModel("Style", styleOptions(), ""), tt.keys...)
			if m.Selected == nil {
				t.Fatal("nothing selected")
			}
			if m.Selected.Value != tt.want {
				t.Errorf("selected %q, want %q", m.Selected.Value, tt.want)
			}
			if cmd == nil {
				t.Error("enter should quit the program")
			}
		})
	}
}

func TestPickerAbort(t *testing.T) {
	for _, k := range []string{"q", "esc"} {
		m, cmd := press(NewPickerModel("Style", styleOptions(), ""), "down", k)
		if !m.Aborted || m.Selected != nil {
			t.Errorf("%s: Aborted = %v, Selected = %v", k, m.Aborted, m.Selected)
		}
		if cmd == nil {
			t.Errorf("%s should quit the program", k)
		}
	}
}

func TestPickerEmpty(t *testing.T) {
	m, cmd := press(NewPickerModel("Empty", nil, ""), "down", "enter")
	if m.Selected != nil || cmd != nil {
		t.Error("empty picker should ignore enter")
	}
}

func TestPickerView(t *testing.T) {
	view := NewPickerModel("Select Pattern Style", styleOptions(), "dot").View()
	for _, want := range []string{"Select Pattern Style", "grid", "ruled lines", "▸"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}
