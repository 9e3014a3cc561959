package booking

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/innkeep/innkeep/internal/validate"
	"github.com/innkeep/innkeep/pkg/domain"
)

// SearchForm is the date range for an availability search.
type SearchForm struct {
	Checkin  string `json:"checkin" validate:"required,datetime=2006-01-02"`
	Checkout string `json:"checkout" validate:"required,datetime=2006-01-02"`
}

// DefaultSearch is today to tomorrow.
func DefaultSearch(now time.Time) SearchForm {
	today := domain.NewDate(now)
	return SearchForm{Checkin: today.String(), Checkout: today.AddDays(1).String()}
}

// ReservationForm holds the guest and stay fields of a booking.
type ReservationForm struct {
	Firstname    string `json:"firstname" validate:"required"`
	Surname      string `json:"surname" validate:"required"`
	CheckinDate  string `json:"checkinDate" validate:"required,datetime=2006-01-02"`
	CheckoutDate string `json:"checkoutDate" validate:"required,datetime=2006-01-02"`
}

// UpdateForm is a ReservationForm plus the fields an update echoes back.
type UpdateForm struct {
	ReservationForm
	UserID  domain.ID `json:"userId"`
	RoomID  domain.ID `json:"roomId"`
	RoomNum int       `json:"roomNum"`
}

// LoginForm is the sign-in form.
type LoginForm struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterForm is the sign-up form.
type RegisterForm struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Password  string `json:"password" validate:"required,min=6"`
}

// registerRules adds the date-order rules to v.
func registerRules(v *validate.Validator) {
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		f := sl.Current().Interface().(SearchForm)
		in, out, err := parseRange(f.Checkin, f.Checkout)
		if err != nil {
			return // reported by the field rules
		}
		if out.Before(in.Time) {
			sl.ReportError(f.Checkout, "checkout", "Checkout", validate.TagNotBefore, "checkin")
		}
	}, SearchForm{})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		f := sl.Current().Interface().(ReservationForm)
		in, out, err := parseRange(f.CheckinDate, f.CheckoutDate)
		if err != nil {
			return
		}
		if out.Before(in.Time) {
			sl.ReportError(f.CheckoutDate, "checkoutDate", "CheckoutDate", validate.TagNotBefore, "checkinDate")
		}
	}, ReservationForm{})
}

func parseRange(checkin, checkout string) (domain.Date, domain.Date, error) {
	in, err := domain.ParseDate(checkin)
	if err != nil {
		return domain.Date{}, domain.Date{}, fmt.Errorf("checkin: %w", err)
	}
	out, err := domain.ParseDate(checkout)
	if err != nil {
		return domain.Date{}, domain.Date{}, fmt.Errorf("checkout: %w", err)
	}
	return in, out, nil
}
