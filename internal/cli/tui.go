package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/handbook/pkg/paper"
	"github.com/matzehuels/handbook/pkg/pattern"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PickerModel - Interactive single choice selection
// =============================================================================

// PickerOption is one selectable entry.
type PickerOption struct {
	Value  string
	Detail string
}

// PickerModel is the bubbletea model for choosing one value from a list,
// used by render -i for the sheet size and the pattern style.
type PickerModel struct {
	Title    string
	Options  []PickerOption
	Cursor   int
	Selected *PickerOption
	Aborted  bool
}

// NewPickerModel creates a picker with the cursor on the option whose
// value equals current (case-insensitive), or on the first option.
func NewPickerModel(title string, options []PickerOption, current string) PickerModel {
	m := PickerModel{Title: title, Options: options}
	for i, o := range options {
		if strings.EqualFold(o.Value, current) {
			m.Cursor = i
			break
		}
	}
	return m
}

func (m PickerModel) Init() tea.Cmd {
	return nil
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Aborted = true
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Options)-1 {
				m.Cursor++
			}
		case "enter":
			if len(m.Options) == 0 {
				return m, nil
			}
			m.Selected = &m.Options[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m PickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, o := range m.Options {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-6s %s", cursor, o.Value, listDimStyle.Render(o.Detail))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// =============================================================================
// Option Lists
// =============================================================================

// sizeOptions lists the sheet sizes for the picker.
func sizeOptions() []PickerOption {
	all := paper.All()
	out := make([]PickerOption, len(all))
	for i, s := range all {
		out[i] = PickerOption{
			Value:  s.Name,
			Detail: fmt.Sprintf("%.0f × %.0f mm", s.WidthMM(), s.HeightMM()),
		}
	}
	return out
}

// styleOptions lists the pattern styles for the picker.
func styleOptions() []PickerOption {
	out := make([]PickerOption, len(pattern.Styles))
	for i, st := range pattern.Styles {
		out[i] = PickerOption{Value: string(st), Detail: st.Describe()}
	}
	return out
}

// pick runs a picker program and returns the chosen value. ok is false
// when the user quits without choosing.
func pick(m PickerModel) (value string, ok bool, err error) {
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", false, err
	}
	pm, isPicker := final.(PickerModel)
	if !isPicker || pm.Selected == nil {
		return "", false, nil
	}
	return pm.Selected.Value, true, nil
}
