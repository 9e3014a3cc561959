package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Room is a bookable room returned by the availability search.
type Room struct {
	ID         ID     `json:"id"`
	RoomNumber int    `json:"roomNumber"`
	RoomType   string `json:"roomType"`
}

// UnmarshalJSON also accepts "type" for the room type; the API has shipped
// both spellings.
func (r *Room) UnmarshalJSON(b []byte) error {
	type alias Room
	var raw struct {
		alias
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = Room(raw.alias)
	if r.RoomType == "" {
		r.RoomType = raw.Type
	}
	return nil
}

// Validate rejects rooms that cannot be reserved.
func (r Room) Validate() error {
	if r.ID.IsZero() {
		return errors.New("room: missing id")
	}
	if r.RoomNumber <= 0 {
		return fmt.Errorf("room %s: invalid room number %d", r.ID, r.RoomNumber)
	}
	return nil
}

// Label renders the room the way listings show it.
func (r Room) Label() string {
	return fmt.Sprintf("Room %d", r.RoomNumber)
}
