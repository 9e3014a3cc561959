package booking

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innkeep/innkeep/internal/session"
	"github.com/innkeep/innkeep/internal/validate"
	"github.com/innkeep/innkeep/pkg/client"
	"github.com/innkeep/innkeep/pkg/domain"
)

// fakeAPI records calls and serves canned answers for both the session
// manager and the booking service.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	user        *domain.User
	userErr     error
	rooms       []domain.Room
	items       []domain.Reservation
	created     client.ReservationRequest
	updated     client.ReservationRequest
	updatedID   string
	cancelledID string
	loginResp   *client.LoginResponse
	loginErr    error
	registered  client.RegisterRequest
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) Login(_ context.Context, _ client.LoginRequest) (*client.LoginResponse, error) {
	f.record("login")
	return f.loginResp, f.loginErr
}

func (f *fakeAPI) Register(_ context.Context, req client.RegisterRequest) (*client.RegisterResponse, error) {
	f.record("register")
	f.registered = req
	return &client.RegisterResponse{Message: "ok"}, nil
}

func (f *fakeAPI) CurrentUser(context.Context, ...client.RequestOption) (*domain.User, error) {
	f.record("user")
	return f.user, f.userErr
}

func (f *fakeAPI) AvailableRooms(_ context.Context, in, out domain.Date, _ ...client.RequestOption) ([]domain.Room, error) {
	f.record("rooms " + in.String() + " " + out.String())
	return f.rooms, nil
}

func (f *fakeAPI) UserReservations(_ context.Context, userID string, _ ...client.RequestOption) ([]domain.Reservation, error) {
	f.record("reservations " + userID)
	return f.items, nil
}

func (f *fakeAPI) CreateReservation(_ context.Context, req client.ReservationRequest, _ ...client.RequestOption) (*domain.Reservation, error) {
	f.record("create")
	f.created = req
	return &domain.Reservation{ID: "res-1", Firstname: req.Firstname}, nil
}

func (f *fakeAPI) UpdateReservation(_ context.Context, id string, req client.ReservationRequest, _ ...client.RequestOption) (*domain.Reservation, error) {
	f.record("update " + id)
	f.updatedID = id
	f.updated = req
	return nil, nil
}

func (f *fakeAPI) CancelReservation(_ context.Context, id string, _ ...client.RequestOption) error {
	f.record("cancel " + id)
	f.cancelledID = id
	return nil
}

func newService(t *testing.T, api *fakeAPI, st session.State) *Service {
	t.Helper()
	store, err := session.Open(session.NewMemoryBackend(st))
	require.NoError(t, err)
	return NewService(api, session.NewManager(store, api, nil), validate.New())
}

var authed = session.State{Token: "mock-token", Username: "test", UserID: "user-123"}

func fieldErr(t *testing.T, err error, field string) string {
	t.Helper()
	var ve *validate.ValidationError
	require.True(t, errors.As(err, &ve), "want ValidationError, got %v", err)
	return ve.Field(field)
}

func TestDefaultSearch(t *testing.T) {
	f := DefaultSearch(time.Date(2025, 12, 31, 22, 0, 0, 0, time.UTC))
	assert.Equal(t, SearchForm{Checkin: "2025-12-31", Checkout: "2026-01-01"}, f)
}

func TestSearchRooms(t *testing.T) {
	api := &fakeAPI{rooms: []domain.Room{{ID: "1", RoomNumber: 101}}}
	s := newService(t, api, session.State{})

	rooms, err := s.SearchRooms(context.Background(), SearchForm{Checkin: "2025-10-15", Checkout: "2025-10-16"})
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
	assert.Equal(t, []string{"rooms 2025-10-15 2025-10-16"}, api.Calls())
}

func TestSearchRooms_SameDayAllowed(t *testing.T) {
	api := &fakeAPI{}
	s := newService(t, api, session.State{})

	_, err := s.SearchRooms(context.Background(), SearchForm{Checkin: "2025-10-15", Checkout: "2025-10-15"})
	require.NoError(t, err)
}

func TestSearchRooms_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		form  SearchForm
		field string
		msg   string
	}{
		{"missing checkin", SearchForm{Checkout: "2025-10-16"}, "checkin", "checkin is required"},
		{"bad format", SearchForm{Checkin: "15/10/2025", Checkout: "2025-10-16"}, "checkin", "checkin must be a date like 2006-01-02"},
		{"reversed", SearchForm{Checkin: "2025-10-16", Checkout: "2025-10-15"}, "checkout", "checkout must not be before checkin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			s := newService(t, api, session.State{})
			_, err := s.SearchRooms(context.Background(), tt.form)
			assert.Equal(t, tt.msg, fieldErr(t, err, tt.field))
			assert.Empty(t, api.Calls(), "validation failures never reach the API")
		})
	}
}

func TestBook_Authenticated(t *testing.T) {
	api := &fakeAPI{}
	s := newService(t, api, authed)
	room := domain.Room{ID: "7", RoomNumber: 101}

	res, err := s.Book(context.Background(), room, ReservationForm{
		Firstname: " Ada ", Surname: "Lovelace", CheckinDate: "2025-10-15", CheckoutDate: "2025-10-17",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ID("res-1"), res.ID)

	assert.Equal(t, domain.ID("user-123"), api.created.UserID)
	assert.Equal(t, domain.ID("7"), api.created.RoomID)
	assert.Equal(t, 101, api.created.RoomNum)
	assert.Equal(t, "Ada", api.created.Firstname)
	assert.Equal(t, "2025-10-17", api.created.CheckoutDate.String())
	assert.Equal(t, []string{"create"}, api.Calls(), "cached user id needs no lookup")
}

func TestBook_ResolvesMissingUserID(t *testing.T) {
	api := &fakeAPI{user: &domain.User{ID: "user-9"}}
	s := newService(t, api, session.State{Token: "tok", Username: "test"})

	_, err := s.Book(context.Background(), domain.Room{ID: "1", RoomNumber: 1}, ReservationForm{
		Firstname: "A", Surname: "B", CheckinDate: "2025-10-15", CheckoutDate: "2025-10-16",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ID("user-9"), api.created.UserID)
	assert.Equal(t, []string{"user", "create"}, api.Calls())
}

func TestBook_AnonymousFallback(t *testing.T) {
	api := &fakeAPI{}
	s := newService(t, api, session.State{})

	_, err := s.Book(context.Background(), domain.Room{ID: "1", RoomNumber: 1}, ReservationForm{
		Firstname: "A", Surname: "B", CheckinDate: "2025-10-15", CheckoutDate: "2025-10-16",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ID(AnonymousUserID), api.created.UserID)
}

func TestBook_UserLookupFailureIsReturned(t *testing.T) {
	api := &fakeAPI{userErr: &client.HTTPError{StatusCode: http.StatusUnauthorized}}
	s := newService(t, api, session.State{Token: "expired", Username: "test"})

	_, err := s.Book(context.Background(), domain.Room{ID: "1"}, ReservationForm{
		Firstname: "A", Surname: "B", CheckinDate: "2025-10-15", CheckoutDate: "2025-10-16",
	})
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
	assert.NotContains(t, api.Calls(), "create")
}

func TestBook_Validation(t *testing.T) {
	api := &fakeAPI{}
	s := newService(t, api, authed)

	_, err := s.Book(context.Background(), domain.Room{ID: "1"}, ReservationForm{
		CheckinDate: "2025-10-17", CheckoutDate: "2025-10-15",
	})
	assert.Equal(t, "firstname is required", fieldErr(t, err, "firstname"))
	assert.Equal(t, "surname is required", fieldErr(t, err, "surname"))
	assert.Equal(t, "checkoutDate must not be before checkinDate", fieldErr(t, err, "checkoutDate"))
	assert.Empty(t, api.Calls())
}

func TestBook_SameDayAllowed(t *testing.T) {
	api := &fakeAPI{}
	s := newService(t, api, authed)

	_, err := s.Book(context.Background(), domain.Room{ID: "1", RoomNumber: 101}, ReservationForm{
		Firstname: "A", Surname: "B", CheckinDate: "2025-10-15", CheckoutDate: "2025-10-15",
	})
	require.NoError(t, err)
	assert.Contains(t, api.Calls(), "create")
}

func TestPrefillBooking(t *testing.T) {
	search := SearchForm{Checkin: "2025-10-15", Checkout: "2025-10-16"}

	t.Run("authenticated", func(t *testing.T) {
		api := &fakeAPI{user: &domain.User{ID: "user-123", FirstName: "Ada", LastName: "Lovelace"}}
		s := newService(t, api, authed)
		f, err := s.PrefillBooking(context.Background(), search)
		require.NoError(t, err)
		assert.Equal(t, ReservationForm{Firstname: "Ada", Surname: "Lovelace", CheckinDate: "2025-10-15", CheckoutDate: "2025-10-16"}, f)
	})

	t.Run("anonymous", func(t *testing.T) {
		api := &fakeAPI{}
		s := newService(t, api, session.State{})
		f, err := s.PrefillBooking(context.Background(), search)
		require.NoError(t, err)
		assert.Empty(t, f.Firstname)
		assert.Equal(t, "2025-10-15", f.CheckinDate)
		assert.Empty(t, api.Calls())
	})

	t.Run("lookup failure keeps dates", func(t *testing.T) {
		api := &fakeAPI{userErr: errors.New("boom")}
		s := newService(t, api, authed)
		f, err := s.PrefillBooking(context.Background(), search)
		require.Error(t, err)
		assert.Equal(t, "2025-10-16", f.CheckoutDate)
	})
}

func TestMyReservations(t *testing.T) {
	api := &fakeAPI{items: []domain.Reservation{{ID: "r1"}}}
	s := newService(t, api, authed)

	items, err := s.MyReservations(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, []string{"reservations user-123"}, api.Calls())

	anon := newService(t, &fakeAPI{}, session.State{})
	_, err = anon.MyReservations(context.Background())
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
	assert.True(t, IsAuthError(err))
}

func TestFilterReservations(t *testing.T) {
	items := []domain.Reservation{
		{ID: "1", Firstname: "Ada", Surname: "Lovelace", RoomNumber: 101},
		{ID: "2", Firstname: "Alan", Surname: "Turing", RoomNumber: 202},
		{ID: "3", Firstname: "Grace", Surname: "Hopper", RoomNumber: 110},
	}
	ids := func(rs []domain.Reservation) []domain.ID {
		var out []domain.ID
		for _, r := range rs {
			out = append(out, r.ID)
		}
		return out
	}

	assert.Len(t, FilterReservations(items, ""), 3)
	assert.Len(t, FilterReservations(items, "   "), 3)
	assert.Equal(t, []domain.ID{"1"}, ids(FilterReservations(items, "LOVE")))
	assert.Equal(t, []domain.ID{"1", "3"}, ids(FilterReservations(items, "10")))
	assert.Equal(t, []domain.ID{"2"}, ids(FilterReservations(items, "alan turing")))
	assert.Empty(t, FilterReservations(items, "nobody"))
}

func TestEditFormAndUpdate(t *testing.T) {
	api := &fakeAPI{}
	s := newService(t, api, authed)

	in, _ := domain.ParseDate("2025-10-15")
	out, _ := domain.ParseDate("2025-10-17")
	r := domain.Reservation{ID: "res-1", RoomID: "7", RoomNumber: 101, Firstname: "Ada", Surname: "Lovelace", CheckinDate: in, CheckoutDate: out}

	f := s.EditForm(r)
	assert.Equal(t, "Ada", f.Firstname)
	assert.Equal(t, "2025-10-15", f.CheckinDate)
	assert.Equal(t, domain.ID("user-123"), f.UserID)
	assert.Equal(t, domain.ID("7"), f.RoomID)
	assert.Equal(t, 101, f.RoomNum)

	f.Surname = "King"
	_, err := s.Update(context.Background(), "res-1", f)
	require.NoError(t, err)
	assert.Equal(t, "res-1", api.updatedID)
	assert.Equal(t, "King", api.updated.Surname)
	assert.Equal(t, domain.ID("user-123"), api.updated.UserID)
	assert.Equal(t, 101, api.updated.RoomNum)
}

func TestUpdate_Validation(t *testing.T) {
	api := &fakeAPI{}
	s := newService(t, api, authed)

	f := UpdateForm{ReservationForm: ReservationForm{Firstname: "A", Surname: "B", CheckinDate: "2025-10-17", CheckoutDate: "2025-10-15"}}
	_, err := s.Update(context.Background(), "res-1", f)
	assert.Equal(t, "checkoutDate must not be before checkinDate", fieldErr(t, err, "checkoutDate"))

	same := f
	same.CheckoutDate = same.CheckinDate
	_, err = s.Update(context.Background(), "res-1", same)
	require.NoError(t, err)

	_, err = s.Update(context.Background(), "", f)
	assert.Equal(t, "id is required", fieldErr(t, err, "id"))
	assert.Empty(t, api.Calls())
}

func TestCancel(t *testing.T) {
	api := &fakeAPI{}
	s := newService(t, api, authed)

	require.NoError(t, s.Cancel(context.Background(), "res-1"))
	assert.Equal(t, "res-1", api.cancelledID)

	err := s.Cancel(context.Background(), " ")
	assert.True(t, validate.IsValidation(err))
}

func TestLoginForm(t *testing.T) {
	api := &fakeAPI{loginResp: &client.LoginResponse{Token: "mock-token", UserID: "user-123"}}
	s := newService(t, api, session.State{})

	_, err := s.Login(context.Background(), LoginForm{Username: "test"})
	assert.Equal(t, "password is required", fieldErr(t, err, "password"))
	assert.Empty(t, api.Calls())

	id, err := s.Login(context.Background(), LoginForm{Username: "test", Password: "pass"})
	require.NoError(t, err)
	assert.Equal(t, "test", id.Username)
	assert.True(t, s.Sessions().Authenticated())

	require.NoError(t, s.Logout())
	assert.False(t, s.Sessions().Authenticated())
}

func TestRegisterForm(t *testing.T) {
	api := &fakeAPI{}
	s := newService(t, api, session.State{})

	_, err := s.Register(context.Background(), RegisterForm{Username: "new", Email: "bad", FirstName: "A", LastName: "B", Password: "12345"})
	assert.Equal(t, "email must be a valid email address", fieldErr(t, err, "email"))
	assert.Equal(t, "password must be at least 6 characters long", fieldErr(t, err, "password"))
	assert.Empty(t, api.Calls())

	resp, err := s.Register(context.Background(), RegisterForm{Username: "new", Email: "new@example.com", FirstName: "A", LastName: "B", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Message)
	assert.Equal(t, "new@example.com", api.registered.Email)
	assert.False(t, s.Sessions().Authenticated(), "register does not sign in")
}
