package domain

import "errors"

// User is the profile returned by the current-user endpoint.
type User struct {
	ID        ID     `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Validate rejects a profile without an id.
func (u User) Validate() error {
	if u.ID.IsZero() {
		return errors.New("user: missing id")
	}
	return nil
}

// Identity is the cached "who am I" for the current session.
// UserID may be empty until it is resolved from the API.
type Identity struct {
	Username string
	UserID   string
}

// IsZero reports whether no identity is present.
func (i Identity) IsZero() bool {
	return i.Username == "" && i.UserID == ""
}

// Label prefers the username and falls back to the user id.
func (i Identity) Label() string {
	if i.Username != "" {
		return i.Username
	}
	return i.UserID
}
