package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/innkeep/innkeep/internal/output"
	"github.com/innkeep/innkeep/internal/session"
	"github.com/innkeep/innkeep/internal/validate"
	"github.com/innkeep/innkeep/pkg/client"
)

// classify maps an error to the message and exit code the user sees.
func classify(err error) *output.CLIError {
	var cliErr *output.CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	var ve *validate.ValidationError
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve.Errors))
		for _, f := range ve.Fields() {
			msgs = append(msgs, ve.Errors[f])
		}
		return &output.CLIError{
			Summary:  "invalid input",
			Detail:   strings.Join(msgs, "; "),
			ExitCode: output.ExitUsageError,
		}
	}

	switch {
	case errors.Is(err, session.ErrInvalidCredentials):
		return &output.CLIError{
			Summary:    "login failed",
			Detail:     "invalid username or password",
			Suggestion: "Check your credentials, or run 'innkeep register' to create an account",
			ExitCode:   output.ExitInvalidCredentials,
		}
	case errors.Is(err, session.ErrNotAuthenticated):
		return &output.CLIError{
			Summary:    "not signed in",
			Suggestion: "Run 'innkeep login'",
			ExitCode:   output.ExitNotAuthenticated,
		}
	case client.IsStatus(err, http.StatusUnauthorized):
		return &output.CLIError{
			Summary:    "the API rejected the session",
			Detail:     err.Error(),
			Suggestion: "Your session may have expired. Run 'innkeep login'",
			ExitCode:   output.ExitNotAuthenticated,
		}
	case client.IsDecode(err):
		return &output.CLIError{
			Summary:  "unexpected response from the API",
			Detail:   err.Error(),
			ExitCode: output.ExitGeneral,
		}
	}

	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) {
		return &output.CLIError{
			Summary:  "request failed",
			Detail:   err.Error(),
			ExitCode: output.ExitGeneral,
		}
	}

	return &output.CLIError{Summary: err.Error(), ExitCode: output.ExitGeneral}
}
