package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/innkeep/innkeep/pkg/domain"
)

// API paths.
const (
	PathLogin            = "/api/v1/auth/login"
	PathRegister         = "/api/v1/auth/register"
	PathAvailableRooms   = "/api/v1/reservations/available-rooms"
	PathCurrentUser      = "/api/v1/user"
	PathReservations     = "/api/v1/reservations"
	PathUserReservations = "/api/v1/reservations/user/"
)

// LoginRequest is the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the login endpoint's body. Token is empty when the API
// refused the credentials without an error status.
type LoginResponse struct {
	Token  string    `json:"token"`
	UserID domain.ID `json:"userId,omitempty"`
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

// RegisterResponse is returned as-is to the caller.
type RegisterResponse struct {
	Message string    `json:"message,omitempty"`
	ID      domain.ID `json:"id,omitempty"`
}

// ReservationRequest is the payload for creating or updating a reservation.
type ReservationRequest struct {
	UserID       domain.ID   `json:"userId"`
	RoomID       domain.ID   `json:"roomId"`
	RoomNum      int         `json:"roomNum,omitempty"`
	Firstname    string      `json:"firstname"`
	Surname      string      `json:"surname"`
	CheckinDate  domain.Date `json:"checkinDate"`
	CheckoutDate domain.Date `json:"checkoutDate"`
}

// Login exchanges a username and password for a token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.Post(ctx, PathLogin, req, &resp); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &resp, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.Post(ctx, PathRegister, req, &resp); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &resp, nil
}

// AvailableRooms lists rooms free between checkin and checkout.
func (c *Client) AvailableRooms(ctx context.Context, checkin, checkout domain.Date, opts ...RequestOption) ([]domain.Room, error) {
	params := url.Values{}
	params.Set("checkin", checkin.String())
	params.Set("checkout", checkout.String())

	path := PathAvailableRooms + "?" + params.Encode()
	var rooms []domain.Room
	if err := c.Get(ctx, path, &rooms, opts...); err != nil {
		return nil, fmt.Errorf("client.AvailableRooms: %w", err)
	}
	if err := validateAll(path, rooms); err != nil {
		return nil, fmt.Errorf("client.AvailableRooms: %w", err)
	}
	return rooms, nil
}

// CurrentUser returns the profile behind the cached credential.
func (c *Client) CurrentUser(ctx context.Context, opts ...RequestOption) (*domain.User, error) {
	var u domain.User
	if err := c.Get(ctx, PathCurrentUser, &u, opts...); err != nil {
		return nil, fmt.Errorf("client.CurrentUser: %w", err)
	}
	return &u, nil
}

// UserReservations lists the reservations owned by userID.
func (c *Client) UserReservations(ctx context.Context, userID string, opts ...RequestOption) ([]domain.Reservation, error) {
	path := PathUserReservations + url.PathEscape(userID)
	var items []domain.Reservation
	if err := c.Get(ctx, path, &items, opts...); err != nil {
		return nil, fmt.Errorf("client.UserReservations: %w", err)
	}
	if err := validateAll(path, items); err != nil {
		return nil, fmt.Errorf("client.UserReservations: %w", err)
	}
	return items, nil
}

// CreateReservation books a room. The returned reservation is nil when the
// API answers without a body.
func (c *Client) CreateReservation(ctx context.Context, req ReservationRequest, opts ...RequestOption) (*domain.Reservation, error) {
	var raw json.RawMessage
	if err := c.Post(ctx, PathReservations, req, &raw, opts...); err != nil {
		return nil, fmt.Errorf("client.CreateReservation: %w", err)
	}
	r, err := decodeOptional(PathReservations, raw)
	if err != nil {
		return nil, fmt.Errorf("client.CreateReservation: %w", err)
	}
	return r, nil
}

// UpdateReservation replaces the editable fields of reservation id.
func (c *Client) UpdateReservation(ctx context.Context, id string, req ReservationRequest, opts ...RequestOption) (*domain.Reservation, error) {
	path := PathReservations + "/" + url.PathEscape(id)
	var raw json.RawMessage
	if err := c.Put(ctx, path, req, &raw, opts...); err != nil {
		return nil, fmt.Errorf("client.UpdateReservation: %w", err)
	}
	r, err := decodeOptional(path, raw)
	if err != nil {
		return nil, fmt.Errorf("client.UpdateReservation: %w", err)
	}
	return r, nil
}

// CancelReservation cancels reservation id.
func (c *Client) CancelReservation(ctx context.Context, id string, opts ...RequestOption) error {
	if err := c.Post(ctx, PathReservations+"/"+url.PathEscape(id)+"/cancel", nil, nil, opts...); err != nil {
		return fmt.Errorf("client.CancelReservation: %w", err)
	}
	return nil
}

func validateAll[T validatable](path string, items []T) error {
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return &DecodeError{Path: path, Err: fmt.Errorf("item %d: %w", i, err)}
		}
	}
	return nil
}

func decodeOptional(path string, raw json.RawMessage) (*domain.Reservation, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	// Some deployments answer with a bare acknowledgement object.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	if _, ok := probe["id"]; !ok {
		return nil, nil
	}
	var r domain.Reservation
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	if err := r.Validate(); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return &r, nil
}
