// Package booking implements the room search, booking and reservation
// management flows on top of the API client and the session.
package booking

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/innkeep/innkeep/internal/session"
	"github.com/innkeep/innkeep/internal/validate"
	"github.com/innkeep/innkeep/pkg/client"
	"github.com/innkeep/innkeep/pkg/domain"
)

// AnonymousUserID is sent as the owner of a booking made without a session.
const AnonymousUserID = "anonymous"

// API is the part of the dispatcher the booking flows call.
type API interface {
	AvailableRooms(ctx context.Context, checkin, checkout domain.Date, opts ...client.RequestOption) ([]domain.Room, error)
	CurrentUser(ctx context.Context, opts ...client.RequestOption) (*domain.User, error)
	UserReservations(ctx context.Context, userID string, opts ...client.RequestOption) ([]domain.Reservation, error)
	CreateReservation(ctx context.Context, req client.ReservationRequest, opts ...client.RequestOption) (*domain.Reservation, error)
	UpdateReservation(ctx context.Context, id string, req client.ReservationRequest, opts ...client.RequestOption) (*domain.Reservation, error)
	CancelReservation(ctx context.Context, id string, opts ...client.RequestOption) error
}

// Service runs the booking flows. Forms are validated before any request
// is made.
type Service struct {
	api      API
	sessions *session.Manager
	v        *validate.Validator
}

// NewService wires a Service and registers the form rules on v.
func NewService(api API, sessions *session.Manager, v *validate.Validator) *Service {
	registerRules(v)
	return &Service{api: api, sessions: sessions, v: v}
}

// SearchRooms lists rooms free for the form's date range.
func (s *Service) SearchRooms(ctx context.Context, f SearchForm) ([]domain.Room, error) {
	if err := s.v.Validate(f); err != nil {
		return nil, err
	}
	in, out, err := parseRange(f.Checkin, f.Checkout)
	if err != nil {
		return nil, err
	}
	return s.api.AvailableRooms(ctx, in, out)
}

// PrefillBooking returns a booking form for the given dates with the
// guest name taken from the profile. Anonymous sessions get empty names.
func (s *Service) PrefillBooking(ctx context.Context, search SearchForm) (ReservationForm, error) {
	f := ReservationForm{CheckinDate: search.Checkin, CheckoutDate: search.Checkout}
	if !s.sessions.Authenticated() {
		return f, nil
	}
	u, err := s.api.CurrentUser(ctx)
	if err != nil {
		return f, fmt.Errorf("fetch user info: %w", err)
	}
	f.Firstname = u.FirstName
	f.Surname = u.LastName
	return f, nil
}

// Book reserves room for the guest in f. Signed-in users book under their
// own id; anonymous bookings use AnonymousUserID.
func (s *Service) Book(ctx context.Context, room domain.Room, f ReservationForm) (*domain.Reservation, error) {
	if err := s.v.Validate(f); err != nil {
		return nil, err
	}
	userID := AnonymousUserID
	if s.sessions.Authenticated() {
		id, err := s.sessions.ResolveUserID(ctx)
		if err != nil {
			return nil, err
		}
		userID = id
	}
	req, err := f.request(domain.ID(userID), room.ID, room.RoomNumber)
	if err != nil {
		return nil, err
	}
	return s.api.CreateReservation(ctx, req)
}

// MyReservations lists the signed-in user's reservations.
func (s *Service) MyReservations(ctx context.Context) ([]domain.Reservation, error) {
	userID, err := s.sessions.ResolveUserID(ctx)
	if err != nil {
		return nil, err
	}
	return s.api.UserReservations(ctx, userID)
}

// FilterReservations keeps the items whose guest name or room number
// contains query, ignoring case. An empty query keeps everything.
func FilterReservations(items []domain.Reservation, query string) []domain.Reservation {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	out := make([]domain.Reservation, 0, len(items))
	for _, r := range items {
		if strings.Contains(r.SearchText(), q) {
			out = append(out, r)
		}
	}
	return out
}

// EditForm seeds an update form from an existing reservation.
func (s *Service) EditForm(r domain.Reservation) UpdateForm {
	userID := r.UserID
	if id, ok := s.sessions.CurrentIdentity(); ok && id.UserID != "" {
		userID = domain.ID(id.UserID)
	}
	return UpdateForm{
		ReservationForm: ReservationForm{
			Firstname:    r.Firstname,
			Surname:      r.Surname,
			CheckinDate:  r.CheckinDate.String(),
			CheckoutDate: r.CheckoutDate.String(),
		},
		UserID:  userID,
		RoomID:  r.RoomID,
		RoomNum: r.RoomNumber,
	}
}

// Update saves f over reservation id.
func (s *Service) Update(ctx context.Context, id string, f UpdateForm) (*domain.Reservation, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &validate.ValidationError{Errors: map[string]string{"id": "id is required"}}
	}
	if err := s.v.Validate(f); err != nil {
		return nil, err
	}
	req, err := f.request(f.UserID, f.RoomID, f.RoomNum)
	if err != nil {
		return nil, err
	}
	return s.api.UpdateReservation(ctx, id, req)
}

// Cancel cancels reservation id.
func (s *Service) Cancel(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return &validate.ValidationError{Errors: map[string]string{"id": "id is required"}}
	}
	return s.api.CancelReservation(ctx, id)
}

// Login validates f and signs in.
func (s *Service) Login(ctx context.Context, f LoginForm) (domain.Identity, error) {
	if err := s.v.Validate(f); err != nil {
		return domain.Identity{}, err
	}
	return s.sessions.Login(ctx, f.Username, f.Password)
}

// Register validates f and creates the account. It does not sign in.
func (s *Service) Register(ctx context.Context, f RegisterForm) (*client.RegisterResponse, error) {
	if err := s.v.Validate(f); err != nil {
		return nil, err
	}
	return s.sessions.Register(ctx, client.RegisterRequest{
		Username:  f.Username,
		Email:     f.Email,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Password:  f.Password,
	})
}

// Logout drops the session.
func (s *Service) Logout() error {
	return s.sessions.Logout()
}

// Identity returns the cached identity of the signed-in user.
func (s *Service) Identity() (domain.Identity, bool) {
	return s.sessions.CurrentIdentity()
}

// Sessions returns the session manager.
func (s *Service) Sessions() *session.Manager {
	return s.sessions
}

// IsAuthError reports whether err means the user must sign in again.
func IsAuthError(err error) bool {
	return errors.Is(err, session.ErrNotAuthenticated) || client.IsStatus(err, http.StatusUnauthorized)
}

func (f ReservationForm) request(userID, roomID domain.ID, roomNum int) (client.ReservationRequest, error) {
	in, out, err := parseRange(f.CheckinDate, f.CheckoutDate)
	if err != nil {
		return client.ReservationRequest{}, err
	}
	return client.ReservationRequest{
		UserID:       userID,
		RoomID:       roomID,
		RoomNum:      roomNum,
		Firstname:    strings.TrimSpace(f.Firstname),
		Surname:      strings.TrimSpace(f.Surname),
		CheckinDate:  in,
		CheckoutDate: out,
	}, nil
}
