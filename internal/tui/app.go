// Package tui is the interactive terminal front end.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/innkeep/innkeep/internal/booking"
	"github.com/innkeep/innkeep/pkg/client"
	"github.com/innkeep/innkeep/pkg/domain"
)

// Service is the booking surface the TUI drives.
type Service interface {
	SearchRooms(ctx context.Context, f booking.SearchForm) ([]domain.Room, error)
	PrefillBooking(ctx context.Context, search booking.SearchForm) (booking.ReservationForm, error)
	Book(ctx context.Context, room domain.Room, f booking.ReservationForm) (*domain.Reservation, error)
	MyReservations(ctx context.Context) ([]domain.Reservation, error)
	EditForm(r domain.Reservation) booking.UpdateForm
	Update(ctx context.Context, id string, f booking.UpdateForm) (*domain.Reservation, error)
	Cancel(ctx context.Context, id string) error
	Login(ctx context.Context, f booking.LoginForm) (domain.Identity, error)
	Register(ctx context.Context, f booking.RegisterForm) (*client.RegisterResponse, error)
	Logout() error
	Identity() (domain.Identity, bool)
}

type view int

const (
	viewRooms view = iota
	viewReservations
)

type authMode int

const (
	authNone authMode = iota
	authLogin
	authRegister
)

// noticeMsg sets the status line.
type noticeMsg struct {
	text string
	err  bool
}

func notify(text string, isErr bool) tea.Cmd {
	return func() tea.Msg { return noticeMsg{text: text, err: isErr} }
}

func notifyErr(err error) tea.Cmd {
	return notify(errorText(err), true)
}

type loggedInMsg struct {
	id  domain.Identity
	err error
}

type registeredMsg struct {
	username string
	err      error
}

// App is the root Bubbletea model.
type App struct {
	svc          Service
	version      string
	keys         keyMap
	view         view
	rooms        roomsModel
	reservations reservationsModel
	auth         formModel
	authMode     authMode
	notice       noticeMsg
	width        int
	height       int
	frame        int // logo shimmer animation frame
}

// NewApp creates a new TUI application.
func NewApp(svc Service, version string) App {
	return App{
		svc:          svc,
		version:      version,
		keys:         defaultKeyMap(),
		rooms:        newRoomsModel(svc, booking.DefaultSearch(time.Now())),
		reservations: newReservationsModel(svc),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.rooms.Init(), shimmerTickCmd())
}

func (a App) openLogin(username string) App {
	a.authMode = authLogin
	a.auth = newForm("Sign in",
		fieldSpec{name: "username", label: "Username", value: username},
		fieldSpec{name: "password", label: "Password", secret: true},
	)
	if username != "" {
		a.auth.move(1)
	}
	return a
}

func (a App) openRegister() App {
	a.authMode = authRegister
	a.auth = newForm("Create account",
		fieldSpec{name: "username", label: "Username"},
		fieldSpec{name: "email", label: "Email"},
		fieldSpec{name: "firstName", label: "First name"},
		fieldSpec{name: "lastName", label: "Last name"},
		fieldSpec{name: "password", label: "Password", secret: true},
	)
	return a
}

func (a App) submitAuth() tea.Cmd {
	svc := a.svc
	if a.authMode == authRegister {
		f := booking.RegisterForm{
			Username:  a.auth.Value("username"),
			Email:     a.auth.Value("email"),
			FirstName: a.auth.Value("firstName"),
			LastName:  a.auth.Value("lastName"),
			Password:  a.auth.Value("password"),
		}
		return func() tea.Msg {
			_, err := svc.Register(context.Background(), f)
			return registeredMsg{username: f.Username, err: err}
		}
	}
	f := booking.LoginForm{Username: a.auth.Value("username"), Password: a.auth.Value("password")}
	return func() tea.Msg {
		id, err := svc.Login(context.Background(), f)
		return loggedInMsg{id: id, err: err}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + status(1) + help(1) = 5 lines
		a.rooms, _ = a.rooms.Update(tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 5})
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case noticeMsg:
		a.notice = msg
		return a, nil

	case loggedInMsg:
		if msg.err != nil {
			a.auth.fail(msg.err)
			return a, notifyErr(msg.err)
		}
		a.authMode = authNone
		a.reservations = a.reservations.reset()
		return a, tea.Batch(notify("Signed in as "+msg.id.Label(), false), a.reservations.Init())

	case registeredMsg:
		if msg.err != nil {
			a.auth.fail(msg.err)
			return a, notifyErr(msg.err)
		}
		a = a.openLogin(msg.username)
		return a, notify("Account created. Sign in to continue", false)

	case roomsLoadedMsg, prefillMsg, bookedMsg:
		var cmd tea.Cmd
		a.rooms, cmd = a.rooms.Update(msg)
		return a, cmd

	case reservationsLoadedMsg, updatedMsg, cancelledMsg, copyResultMsg:
		var cmd tea.Cmd
		a.reservations, cmd = a.reservations.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.authMode != authNone {
			return a.updateAuth(msg)
		}
		if !a.capturing() {
			if next, cmd, ok := a.globalKey(msg); ok {
				return next, cmd
			}
		}
		a.notice = noticeMsg{}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewRooms:
		a.rooms, cmd = a.rooms.Update(msg)
	case viewReservations:
		a.reservations, cmd = a.reservations.Update(msg)
	}
	return a, cmd
}

func (a App) globalKey(msg tea.KeyMsg) (App, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit, true
	case key.Matches(msg, a.keys.Rooms):
		a.view = viewRooms
		return a, nil, true
	case key.Matches(msg, a.keys.Reservations):
		if a.view == viewReservations {
			return a, nil, true
		}
		a.view = viewReservations
		a.reservations.loading = true
		return a, a.reservations.Init(), true
	case key.Matches(msg, a.keys.Login):
		if id, ok := a.svc.Identity(); ok {
			return a, notify("Already signed in as "+id.Label(), false), true
		}
		return a.openLogin(""), nil, true
	case key.Matches(msg, a.keys.Register):
		return a.openRegister(), nil, true
	case key.Matches(msg, a.keys.Logout):
		if _, ok := a.svc.Identity(); !ok {
			return a, notify("Already signed out", false), true
		}
		err := a.svc.Logout()
		a.reservations = a.reservations.reset()
		if err != nil {
			return a, notify("Signed out, but the session file could not be cleared: "+err.Error(), true), true
		}
		return a, notify("Signed out", false), true
	}
	return a, nil, false
}

func (a App) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var (
		res formResult
		cmd tea.Cmd
	)
	a.auth, res, cmd = a.auth.Update(msg)
	switch res {
	case formCancelled:
		a.authMode = authNone
		return a, nil
	case formSubmitted:
		a.auth.pending = true
		return a, a.submitAuth()
	}
	return a, cmd
}

// capturing reports whether the active view owns the keyboard.
func (a App) capturing() bool {
	switch a.view {
	case viewRooms:
		return a.rooms.editing()
	case viewReservations:
		return a.reservations.capturing()
	}
	return false
}

func (a App) View() string {
	logo := renderShimmerLogo(a.frame)
	header := center(logo, a.width)

	who := "not signed in"
	if id, ok := a.svc.Identity(); ok {
		who = "signed in as " + id.Label()
	}
	header += "\n" + center(metaStyle.Render(who+" . "+a.version), a.width)

	tabs := []struct {
		key  string
		name string
		v    view
	}{
		{"1", "Rooms", viewRooms},
		{"2", "Reservations", viewReservations},
	}
	var tabBar strings.Builder
	for i, t := range tabs {
		if i > 0 {
			tabBar.WriteString("    ")
		}
		if t.v == a.view {
			tabBar.WriteString(accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name))
		} else {
			tabBar.WriteString(metaStyle.Render(t.key) + " " + dimStyle.Render(t.name))
		}
	}

	var body, help string
	switch {
	case a.authMode != authNone:
		body = a.auth.View()
		help = a.auth.help()
	case a.view == viewRooms:
		body = a.rooms.View()
		help = a.rooms.help()
	default:
		body = a.reservations.View()
		help = a.reservations.help()
	}

	status := ""
	if a.notice.text != "" {
		if a.notice.err {
			status = " " + errorStyle.Render(a.notice.text)
		} else {
			status = " " + successStyle.Render(a.notice.text)
		}
	}

	chrome := 5
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", header, center(tabBar.String(), a.width), body, status, help)
}

func center(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}
