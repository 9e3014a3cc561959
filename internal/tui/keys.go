package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// keyMap holds the navigation and action bindings.
type keyMap struct {
	Quit         key.Binding
	Rooms        key.Binding
	Reservations key.Binding
	Login        key.Binding
	Logout       key.Binding
	Register     key.Binding

	Up      key.Binding
	Down    key.Binding
	Confirm  key.Binding
	Back     key.Binding
	Tab      key.Binding
	ShiftTab key.Binding

	Dates   key.Binding
	Refresh key.Binding
	Filter  key.Binding
	Edit    key.Binding
	Cancel  key.Binding
	Copy    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Rooms:        key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "rooms")),
		Reservations: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "reservations")),
		Login:        key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "sign in")),
		Logout:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sign out")),
		Register:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "register")),

		Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("j/k", "nav")),
		Down:    key.NewBinding(key.WithKeys("j", "down")),
		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Tab:      key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next")),
		ShiftTab: key.NewBinding(key.WithKeys("shift+tab", "up")),

		Dates:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dates")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Filter:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Cancel:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cancel")),
		Copy:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy id")),
	}
}

// helpFor renders the help bar for a set of bindings.
func helpFor(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, helpEntry(h.Key, h.Desc))
	}
	return " " + strings.Join(parts, "  ")
}
