package tui

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/innkeep/innkeep/internal/booking"
	"github.com/innkeep/innkeep/internal/session"
	"github.com/innkeep/innkeep/internal/validate"
)

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// padRight pads s with spaces to width runes, truncating if longer.
func padRight(s string, width int) string {
	s = truncStr(s, width)
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// errorText turns an error into a one-line notification.
func errorText(err error) string {
	var ve *validate.ValidationError
	switch {
	case errors.As(err, &ve):
		msgs := make([]string, 0, len(ve.Errors))
		for _, f := range ve.Fields() {
			msgs = append(msgs, ve.Errors[f])
		}
		return strings.Join(msgs, "; ")
	case errors.Is(err, session.ErrInvalidCredentials):
		return "Invalid username or password"
	case booking.IsAuthError(err):
		return "Not signed in or session expired. Press l to sign in"
	default:
		return err.Error()
	}
}

// fieldErrors extracts per-field messages from a validation error.
func fieldErrors(err error) map[string]string {
	var ve *validate.ValidationError
	if errors.As(err, &ve) {
		return ve.Errors
	}
	return nil
}
