package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/innkeep/innkeep/internal/booking"
	"github.com/innkeep/innkeep/pkg/domain"
)

type roomsLoadedMsg struct {
	search booking.SearchForm
	rooms  []domain.Room
	err    error
}

type prefillMsg struct {
	room domain.Room
	form booking.ReservationForm
	err  error
}

type bookedMsg struct {
	res *domain.Reservation
	err error
}

type roomsMode int

const (
	roomsList roomsMode = iota
	roomsDates
	roomsBooking
)

// roomsModel is the availability search and booking view.
type roomsModel struct {
	svc      Service
	keys     keyMap
	search   booking.SearchForm
	rooms    []domain.Room
	cursor   int
	loading  bool
	loaded   bool
	mode     roomsMode
	dates    formModel
	book     formModel
	bookRoom domain.Room
	height   int
}

func newRoomsModel(svc Service, search booking.SearchForm) roomsModel {
	return roomsModel{svc: svc, keys: defaultKeyMap(), search: search, loading: true}
}

func (m roomsModel) Init() tea.Cmd {
	return m.load(m.search)
}

func (m roomsModel) load(search booking.SearchForm) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		rooms, err := svc.SearchRooms(context.Background(), search)
		return roomsLoadedMsg{search: search, rooms: rooms, err: err}
	}
}

func (m roomsModel) prefill(room domain.Room) tea.Cmd {
	svc, search := m.svc, m.search
	return func() tea.Msg {
		form, err := svc.PrefillBooking(context.Background(), search)
		return prefillMsg{room: room, form: form, err: err}
	}
}

func (m roomsModel) submitBooking() tea.Cmd {
	svc, room := m.svc, m.bookRoom
	f := booking.ReservationForm{
		Firstname:    m.book.Value("firstname"),
		Surname:      m.book.Value("surname"),
		CheckinDate:  m.book.Value("checkinDate"),
		CheckoutDate: m.book.Value("checkoutDate"),
	}
	return func() tea.Msg {
		res, err := svc.Book(context.Background(), room, f)
		return bookedMsg{res: res, err: err}
	}
}

// editing reports whether a form owns the keyboard.
func (m roomsModel) editing() bool {
	return m.mode != roomsList
}

func (m roomsModel) selected() (domain.Room, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rooms) {
		return domain.Room{}, false
	}
	return m.rooms[m.cursor], true
}

func (m roomsModel) Update(msg tea.Msg) (roomsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case roomsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			if m.mode == roomsDates {
				m.dates.fail(msg.err)
			}
			return m, notifyErr(msg.err)
		}
		m.search = msg.search
		m.rooms = msg.rooms
		m.loaded = true
		m.cursor = 0
		m.mode = roomsList
		return m, nil

	case prefillMsg:
		m.loading = false
		if msg.err != nil {
			return m, notifyErr(msg.err)
		}
		m.bookRoom = msg.room
		m.book = newForm("Book "+msg.room.Label(),
			fieldSpec{name: "firstname", label: "First name", value: msg.form.Firstname},
			fieldSpec{name: "surname", label: "Surname", value: msg.form.Surname},
			fieldSpec{name: "checkinDate", label: "Check-in", value: msg.form.CheckinDate},
			fieldSpec{name: "checkoutDate", label: "Check-out", value: msg.form.CheckoutDate},
		)
		m.mode = roomsBooking
		return m, nil

	case bookedMsg:
		if msg.err != nil {
			m.book.fail(msg.err)
			return m, notifyErr(msg.err)
		}
		m.mode = roomsList
		text := "Booked " + m.bookRoom.Label()
		if msg.res != nil && !msg.res.ID.IsZero() {
			text = fmt.Sprintf("Booked %s, reservation #%s", m.bookRoom.Label(), msg.res.ID)
		}
		return m, tea.Batch(notify(text, false), m.load(m.search))

	case tea.KeyMsg:
		switch m.mode {
		case roomsDates:
			return m.updateDates(msg)
		case roomsBooking:
			return m.updateBooking(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m roomsModel) updateList(msg tea.KeyMsg) (roomsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rooms)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Dates):
		m.dates = newForm("Search dates",
			fieldSpec{name: "checkin", label: "Check-in", value: m.search.Checkin},
			fieldSpec{name: "checkout", label: "Check-out", value: m.search.Checkout},
		)
		m.mode = roomsDates
	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.load(m.search)
	case key.Matches(msg, m.keys.Confirm):
		room, ok := m.selected()
		if !ok {
			return m, nil
		}
		if _, signedIn := m.svc.Identity(); !signedIn {
			return m, notify("Sign in to book a room. Press l to sign in", true)
		}
		m.loading = true
		return m, m.prefill(room)
	}
	return m, nil
}

func (m roomsModel) updateDates(msg tea.KeyMsg) (roomsModel, tea.Cmd) {
	var (
		res formResult
		cmd tea.Cmd
	)
	m.dates, res, cmd = m.dates.Update(msg)
	switch res {
	case formCancelled:
		m.mode = roomsList
		return m, nil
	case formSubmitted:
		m.dates.pending = true
		m.loading = true
		return m, m.load(booking.SearchForm{
			Checkin:  m.dates.Value("checkin"),
			Checkout: m.dates.Value("checkout"),
		})
	}
	return m, cmd
}

func (m roomsModel) updateBooking(msg tea.KeyMsg) (roomsModel, tea.Cmd) {
	var (
		res formResult
		cmd tea.Cmd
	)
	m.book, res, cmd = m.book.Update(msg)
	switch res {
	case formCancelled:
		m.mode = roomsList
		return m, nil
	case formSubmitted:
		m.book.pending = true
		return m, m.submitBooking()
	}
	return m, cmd
}

func (m roomsModel) View() string {
	switch m.mode {
	case roomsDates:
		return m.dates.View()
	case roomsBooking:
		return m.book.View()
	}

	var b strings.Builder
	b.WriteString("  " + titleStyle.Render("Available rooms") + "  " +
		dimStyle.Render(m.search.Checkin+" → "+m.search.Checkout) + "\n\n")

	switch {
	case m.loading && !m.loaded:
		b.WriteString("  " + dimStyle.Render("Loading...") + "\n")
		return b.String()
	case len(m.rooms) == 0 && m.loaded:
		b.WriteString("  " + dimStyle.Render("No rooms found for the selected dates.") + "\n")
		return b.String()
	}

	for i, r := range m.rooms {
		line := padRight(r.Label(), 12) + " " + padRight(r.RoomType, 20)
		if i == m.cursor {
			b.WriteString(accentStyle.Render("> ") + selectedRowBg.Render(selectedStyle.Render(line)) + "\n")
		} else {
			b.WriteString("  " + normalStyle.Render(line) + "\n")
		}
	}
	return b.String()
}

func (m roomsModel) help() string {
	switch m.mode {
	case roomsDates, roomsBooking:
		return m.form().help()
	}
	return helpFor(m.keys.Up, key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "book")),
		m.keys.Dates, m.keys.Refresh, m.keys.Login, m.keys.Quit)
}

func (m roomsModel) form() formModel {
	if m.mode == roomsBooking {
		return m.book
	}
	return m.dates
}
