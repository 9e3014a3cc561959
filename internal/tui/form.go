package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// formField is one labelled input. Name matches the json name used in
// validation errors so messages land next to the right input.
type formField struct {
	name  string
	label string
	input textinput.Model
}

type formResult int

const (
	formEditing formResult = iota
	formSubmitted
	formCancelled
)

// formModel is a vertical stack of text inputs with tab focus.
type formModel struct {
	title   string
	fields  []formField
	focus   int
	errs    map[string]string
	pending bool
	keys    keyMap
}

type fieldSpec struct {
	name, label, value string
	secret             bool
}

func newForm(title string, specs ...fieldSpec) formModel {
	f := formModel{title: title, keys: defaultKeyMap()}
	for _, s := range specs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 100
		ti.Width = 30
		ti.SetValue(s.value)
		if s.secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.fields = append(f.fields, formField{name: s.name, label: s.label, input: ti})
	}
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

// Update returns formSubmitted on enter from the last field and
// formCancelled on esc. Keys are ignored while a submit is pending.
func (f formModel) Update(msg tea.Msg) (formModel, formResult, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, formEditing, nil
	}
	if f.pending {
		return f, formEditing, nil
	}
	switch {
	case key.Matches(km, f.keys.Back):
		return f, formCancelled, nil
	case key.Matches(km, f.keys.Confirm):
		if f.focus == len(f.fields)-1 {
			return f, formSubmitted, nil
		}
		f.move(1)
		return f, formEditing, nil
	case key.Matches(km, f.keys.Tab):
		f.move(1)
		return f, formEditing, nil
	case key.Matches(km, f.keys.ShiftTab):
		f.move(-1)
		return f, formEditing, nil
	}
	if len(f.fields) == 0 {
		return f, formEditing, nil
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(km)
	return f, formEditing, cmd
}

func (f *formModel) move(delta int) {
	if len(f.fields) == 0 {
		return
	}
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	f.fields[f.focus].input.Focus()
}

// Value returns the trimmed value of field name.
func (f formModel) Value(name string) string {
	for _, fld := range f.fields {
		if fld.name == name {
			return strings.TrimSpace(fld.input.Value())
		}
	}
	return ""
}

// fail records err against the fields and ends the pending submit.
// Errors that are not per-field are left to the caller's status line.
func (f *formModel) fail(err error) {
	f.pending = false
	f.errs = fieldErrors(err)
}

func (f formModel) View() string {
	var b strings.Builder
	b.WriteString("  " + titleStyle.Render(f.title) + "\n\n")
	for i, fld := range f.fields {
		marker := "  "
		if i == f.focus {
			marker = accentStyle.Render("> ")
		}
		b.WriteString(marker + labelStyle.Render(fld.label) + fld.input.View() + "\n")
		if msg, ok := f.errs[fld.name]; ok {
			b.WriteString("  " + strings.Repeat(" ", 14) + fieldErrStyle.Render(msg) + "\n")
		}
	}
	if f.pending {
		b.WriteString("\n  " + dimStyle.Render("Working...") + "\n")
	}
	return b.String()
}

func (f formModel) help() string {
	return helpFor(f.keys.Tab, key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")), f.keys.Back)
}
