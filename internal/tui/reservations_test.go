package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/innkeep/innkeep/internal/validate"
	"github.com/innkeep/innkeep/pkg/domain"
)

func signedInService(t *testing.T) *fakeService {
	t.Helper()
	return &fakeService{
		signedIn: true,
		identity: domain.Identity{Username: "alice", UserID: "user-123"},
		reservations: []domain.Reservation{
			{ID: "1", RoomID: "10", RoomNumber: 101, Firstname: "Alice", Surname: "Smith",
				CheckinDate: mustDate(t, "2025-10-15"), CheckoutDate: mustDate(t, "2025-10-17"), Status: "CONFIRMED"},
			{ID: "2", RoomID: "20", RoomNumber: 202, Firstname: "Bob", Surname: "Jones",
				CheckinDate: mustDate(t, "2025-11-01"), CheckoutDate: mustDate(t, "2025-11-02")},
		},
	}
}

func reservationsApp(t *testing.T, svc *fakeService) App {
	t.Helper()
	a := newTestApp(svc)
	return send(t, a, keyRunes("2"))
}

func TestReservationsAnonymous(t *testing.T) {
	a := reservationsApp(t, &fakeService{})
	if !strings.Contains(a.View(), "Sign in to see your reservations") {
		t.Errorf("expected sign-in prompt:\n%s", a.View())
	}
}

func TestReservationsListed(t *testing.T) {
	a := reservationsApp(t, signedInService(t))
	out := a.View()
	for _, want := range []string{"#1", "Room 101", "Alice Smith", "2025-10-15 → 2025-10-17", "2 nights", "CONFIRMED", "1 night", "UNKNOWN"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestReservationsFilter(t *testing.T) {
	a := reservationsApp(t, signedInService(t))
	a = send(t, a, keyRunes("/"))
	if !a.reservations.filtering {
		t.Fatal("filter not focused")
	}
	// Global keys are typed into the filter while it has focus.
	a = send(t, a, keyRunes("bob"))
	if a.view != viewReservations {
		t.Fatal("typing switched views")
	}
	if got := len(a.reservations.visible()); got != 1 {
		t.Fatalf("visible = %d, want 1", got)
	}
	a = send(t, a, keyEnter)
	if a.reservations.filtering {
		t.Error("enter did not leave the filter")
	}
	out := a.View()
	if strings.Contains(out, "Alice Smith") || !strings.Contains(out, "Bob Jones") {
		t.Errorf("filter not applied:\n%s", out)
	}

	a = send(t, a, keyRunes("/"))
	a = send(t, a, keyEsc)
	if a.reservations.filter.Value() != "" || len(a.reservations.visible()) != 2 {
		t.Error("esc did not clear the filter")
	}
}

func TestReservationsFilterByRoomNumber(t *testing.T) {
	a := reservationsApp(t, signedInService(t))
	a = send(t, a, keyRunes("/"))
	a = send(t, a, keyRunes("zzz"))
	if !strings.Contains(a.View(), "No reservations match the filter.") {
		t.Error("expected no-match message")
	}
	a = send(t, a, keyEsc)
	a = send(t, a, keyRunes("/"))
	a = send(t, a, keyRunes("202"))
	items := a.reservations.visible()
	if len(items) != 1 || items[0].ID != "2" {
		t.Errorf("visible = %+v", items)
	}
}

func TestReservationsCancelConfirm(t *testing.T) {
	svc := signedInService(t)
	a := reservationsApp(t, svc)
	a = send(t, a, keyRunes("j"))
	a = send(t, a, keyRunes("x"))
	if !strings.Contains(a.View(), "Cancel reservation #2? y/n") {
		t.Fatalf("no confirmation prompt:\n%s", a.View())
	}
	a = send(t, a, keyRunes("y"))
	if len(svc.cancelled) != 1 || svc.cancelled[0] != "2" {
		t.Errorf("cancelled = %v", svc.cancelled)
	}
	if a.notice.text != "Reservation #2 cancelled" {
		t.Errorf("notice = %q", a.notice.text)
	}
}

func TestReservationsCancelDeclined(t *testing.T) {
	svc := signedInService(t)
	a := reservationsApp(t, svc)
	a = send(t, a, keyRunes("x"))
	a = send(t, a, keyRunes("n"))
	if len(svc.cancelled) != 0 {
		t.Errorf("cancelled = %v, want none", svc.cancelled)
	}
	if a.reservations.confirming {
		t.Error("still confirming")
	}
}

func TestReservationsEdit(t *testing.T) {
	svc := signedInService(t)
	a := reservationsApp(t, svc)
	a = send(t, a, keyRunes("e"))
	if !a.reservations.editing {
		t.Fatal("edit form not open")
	}
	a.reservations.edit.fields[0].input.SetValue("Alicia")
	for i := 0; i < 4; i++ {
		a = send(t, a, keyEnter)
	}
	got, ok := svc.updated["1"]
	if !ok {
		t.Fatal("update not sent")
	}
	if got.Firstname != "Alicia" || got.Surname != "Smith" {
		t.Errorf("names = %q %q", got.Firstname, got.Surname)
	}
	if got.UserID != "user-123" || got.RoomID != "10" || got.RoomNum != 101 {
		t.Errorf("echoed fields = %+v", got)
	}
	if a.reservations.editing {
		t.Error("form still open")
	}
	if a.notice.text != "Reservation #1 updated" {
		t.Errorf("notice = %q", a.notice.text)
	}
}

func TestReservationsEditValidation(t *testing.T) {
	svc := signedInService(t)
	svc.updateErr = &validate.ValidationError{Errors: map[string]string{"firstname": "firstname is required"}}
	a := reservationsApp(t, svc)
	a = send(t, a, keyRunes("e"))
	for i := 0; i < 4; i++ {
		a = send(t, a, keyEnter)
	}
	if !a.reservations.editing {
		t.Fatal("form closed on validation failure")
	}
	if !strings.Contains(a.View(), "firstname is required") {
		t.Error("field error not rendered")
	}
}

func TestReservationsCopy(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { writeClipboard = orig })

	a := reservationsApp(t, signedInService(t))
	a = send(t, a, keyRunes("c"))
	if copied != "1" {
		t.Errorf("copied = %q, want 1", copied)
	}
	if a.notice.text != "Copied #1" {
		t.Errorf("notice = %q", a.notice.text)
	}
}

func TestReservationsCopyFailure(t *testing.T) {
	orig := writeClipboard
	writeClipboard = func(string) error { return errors.New("no clipboard") }
	t.Cleanup(func() { writeClipboard = orig })

	a := reservationsApp(t, signedInService(t))
	a = send(t, a, keyRunes("c"))
	if !a.notice.err || !strings.Contains(a.notice.text, "no clipboard") {
		t.Errorf("notice = %+v", a.notice)
	}
}

func TestReservationsClearedOnLogout(t *testing.T) {
	a := reservationsApp(t, signedInService(t))
	a = send(t, a, keyRunes("o"))
	if len(a.reservations.items) != 0 {
		t.Error("reservations survived logout")
	}
	if !strings.Contains(a.View(), "Sign in to see your reservations") {
		t.Error("expected sign-in prompt after logout")
	}
}
