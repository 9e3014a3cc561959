package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/innkeep/innkeep/internal/booking"
	"github.com/innkeep/innkeep/pkg/domain"
)

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

type reservationsLoadedMsg struct {
	items []domain.Reservation
	err   error
}

type updatedMsg struct {
	res *domain.Reservation
	err error
}

type cancelledMsg struct {
	id  string
	err error
}

type copyResultMsg struct {
	id  string
	err error
}

// reservationsModel lists, filters, edits and cancels the user's bookings.
type reservationsModel struct {
	svc        Service
	keys       keyMap
	items      []domain.Reservation
	cursor     int
	loading    bool
	loaded     bool
	filter     textinput.Model
	filtering  bool
	confirming bool
	editing    bool
	edit       formModel
	editID     string
	editBase   booking.UpdateForm
}

func newReservationsModel(svc Service) reservationsModel {
	ti := textinput.New()
	ti.Placeholder = "name or room number"
	ti.Prompt = "/ "
	ti.CharLimit = 60
	ti.Width = 30
	return reservationsModel{svc: svc, keys: defaultKeyMap(), filter: ti}
}

func (m reservationsModel) Init() tea.Cmd {
	if _, ok := m.svc.Identity(); !ok {
		return nil
	}
	return m.load()
}

func (m reservationsModel) load() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		items, err := svc.MyReservations(context.Background())
		return reservationsLoadedMsg{items: items, err: err}
	}
}

// visible is the filtered list the cursor indexes into.
func (m reservationsModel) visible() []domain.Reservation {
	return booking.FilterReservations(m.items, m.filter.Value())
}

func (m reservationsModel) selected() (domain.Reservation, bool) {
	items := m.visible()
	if m.cursor < 0 || m.cursor >= len(items) {
		return domain.Reservation{}, false
	}
	return items[m.cursor], true
}

// capturing reports whether the view owns the keyboard.
func (m reservationsModel) capturing() bool {
	return m.filtering || m.confirming || m.editing
}

// reset drops everything tied to the previous session.
func (m reservationsModel) reset() reservationsModel {
	return newReservationsModel(m.svc)
}

func (m reservationsModel) Update(msg tea.Msg) (reservationsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reservationsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			return m, notifyErr(msg.err)
		}
		m.items = msg.items
		m.loaded = true
		if m.cursor >= len(m.visible()) {
			m.cursor = 0
		}
		return m, nil

	case updatedMsg:
		if msg.err != nil {
			m.edit.fail(msg.err)
			return m, notifyErr(msg.err)
		}
		m.editing = false
		return m, tea.Batch(notify("Reservation #"+m.editID+" updated", false), m.load())

	case cancelledMsg:
		if msg.err != nil {
			return m, notifyErr(msg.err)
		}
		return m, tea.Batch(notify("Reservation #"+msg.id+" cancelled", false), m.load())

	case copyResultMsg:
		if msg.err != nil {
			return m, notify("Copy failed: "+msg.err.Error(), true)
		}
		return m, notify("Copied #"+msg.id, false)

	case tea.KeyMsg:
		switch {
		case m.editing:
			return m.updateEdit(msg)
		case m.confirming:
			return m.updateConfirm(msg)
		case m.filtering:
			return m.updateFilter(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m reservationsModel) updateList(msg tea.KeyMsg) (reservationsModel, tea.Cmd) {
	if _, ok := m.svc.Identity(); !ok {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.filter.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.load()
	case key.Matches(msg, m.keys.Edit):
		r, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.editID = r.ID.String()
		m.editBase = m.svc.EditForm(r)
		m.edit = newForm("Edit reservation #"+m.editID,
			fieldSpec{name: "firstname", label: "First name", value: m.editBase.Firstname},
			fieldSpec{name: "surname", label: "Surname", value: m.editBase.Surname},
			fieldSpec{name: "checkinDate", label: "Check-in", value: m.editBase.CheckinDate},
			fieldSpec{name: "checkoutDate", label: "Check-out", value: m.editBase.CheckoutDate},
		)
		m.editing = true
	case key.Matches(msg, m.keys.Cancel):
		if _, ok := m.selected(); ok {
			m.confirming = true
		}
	case key.Matches(msg, m.keys.Copy):
		r, ok := m.selected()
		if !ok {
			return m, nil
		}
		id := r.ID.String()
		return m, func() tea.Msg {
			return copyResultMsg{id: id, err: writeClipboard(id)}
		}
	}
	return m, nil
}

func (m reservationsModel) updateFilter(msg tea.KeyMsg) (reservationsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.filter.SetValue("")
		m.filter.Blur()
		m.filtering = false
		m.cursor = 0
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.filter.Blur()
		m.filtering = false
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.cursor = 0
	return m, cmd
}

func (m reservationsModel) updateConfirm(msg tea.KeyMsg) (reservationsModel, tea.Cmd) {
	m.confirming = false
	if msg.String() != "y" && msg.String() != "Y" {
		return m, nil
	}
	r, ok := m.selected()
	if !ok {
		return m, nil
	}
	svc, id := m.svc, r.ID.String()
	return m, func() tea.Msg {
		return cancelledMsg{id: id, err: svc.Cancel(context.Background(), id)}
	}
}

func (m reservationsModel) updateEdit(msg tea.KeyMsg) (reservationsModel, tea.Cmd) {
	var (
		res formResult
		cmd tea.Cmd
	)
	m.edit, res, cmd = m.edit.Update(msg)
	switch res {
	case formCancelled:
		m.editing = false
		return m, nil
	case formSubmitted:
		m.edit.pending = true
		f := m.editBase
		f.Firstname = m.edit.Value("firstname")
		f.Surname = m.edit.Value("surname")
		f.CheckinDate = m.edit.Value("checkinDate")
		f.CheckoutDate = m.edit.Value("checkoutDate")
		svc, id := m.svc, m.editID
		return m, func() tea.Msg {
			res, err := svc.Update(context.Background(), id, f)
			return updatedMsg{res: res, err: err}
		}
	}
	return m, cmd
}

func (m reservationsModel) View() string {
	if m.editing {
		return m.edit.View()
	}

	var b strings.Builder
	b.WriteString("  " + titleStyle.Render("My reservations") + "\n")
	if m.filtering || m.filter.Value() != "" {
		b.WriteString("  " + m.filter.View() + "\n")
	}
	b.WriteString("\n")

	if _, ok := m.svc.Identity(); !ok {
		b.WriteString("  " + dimStyle.Render("Sign in to see your reservations. Press l to sign in") + "\n")
		return b.String()
	}
	if m.loading && !m.loaded {
		b.WriteString("  " + dimStyle.Render("Loading...") + "\n")
		return b.String()
	}

	items := m.visible()
	if len(items) == 0 {
		msg := "No reservations yet."
		if m.filter.Value() != "" {
			msg = "No reservations match the filter."
		}
		b.WriteString("  " + dimStyle.Render(msg) + "\n")
		return b.String()
	}

	for i, r := range items {
		status := r.Status
		if status == "" {
			status = "UNKNOWN"
		}
		line := padRight("#"+r.ID.String(), 8) + " " +
			padRight(roomLabel(r), 10) + " " +
			padRight(r.Guest(), 22) + " " +
			r.CheckinDate.String() + " → " + r.CheckoutDate.String() + " " +
			metaStyle.Render(padRight(nightsLabel(r.Nights()), 9)) + " " +
			statusStyle(status).Render(status)
		if i == m.cursor {
			b.WriteString(accentStyle.Render("> ") + selectedRowBg.Render(selectedStyle.Render(line)) + "\n")
		} else {
			b.WriteString("  " + normalStyle.Render(line) + "\n")
		}
	}

	if m.confirming {
		if r, ok := m.selected(); ok {
			b.WriteString("\n  " + errorStyle.Render(fmt.Sprintf("Cancel reservation #%s? y/n", r.ID)) + "\n")
		}
	}
	return b.String()
}

func roomLabel(r domain.Reservation) string {
	if r.RoomNumber > 0 {
		return "Room " + strconv.Itoa(r.RoomNumber)
	}
	return "Room ?"
}

func nightsLabel(n int) string {
	if n == 1 {
		return "1 night"
	}
	return strconv.Itoa(n) + " nights"
}

func (m reservationsModel) help() string {
	switch {
	case m.editing:
		return m.edit.help()
	case m.confirming:
		return " " + helpEntry("y", "confirm") + "  " + helpEntry("any", "keep")
	case m.filtering:
		return " " + helpEntry("enter", "apply") + "  " + helpEntry("esc", "clear")
	}
	return helpFor(m.keys.Up, m.keys.Filter, m.keys.Edit, m.keys.Cancel, m.keys.Copy, m.keys.Refresh, m.keys.Quit)
}
