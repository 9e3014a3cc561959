package domain

import (
	"errors"
	"strconv"
	"strings"
)

// Reservation is a booking owned by a user.
type Reservation struct {
	ID           ID     `json:"id"`
	UserID       ID     `json:"userId,omitempty"`
	RoomID       ID     `json:"roomId,omitempty"`
	RoomNumber   int    `json:"roomNumber,omitempty"`
	Firstname    string `json:"firstname"`
	Surname      string `json:"surname"`
	CheckinDate  Date   `json:"checkinDate"`
	CheckoutDate Date   `json:"checkoutDate"`
	Status       string `json:"status,omitempty"`
}

// Validate rejects structurally malformed reservations.
func (r Reservation) Validate() error {
	if r.ID.IsZero() {
		return errors.New("reservation: missing id")
	}
	return nil
}

// Guest returns "firstname surname".
func (r Reservation) Guest() string {
	return strings.TrimSpace(r.Firstname + " " + r.Surname)
}

// Nights returns the length of stay, or 0 when either date is unknown.
func (r Reservation) Nights() int {
	if r.CheckinDate.IsZero() || r.CheckoutDate.IsZero() {
		return 0
	}
	return int(r.CheckoutDate.Sub(r.CheckinDate.Time).Hours() / 24)
}

// SearchText is the haystack used by reservation filtering.
func (r Reservation) SearchText() string {
	return strings.ToLower(r.Firstname + " " + r.Surname + " " + strconv.Itoa(r.RoomNumber))
}
