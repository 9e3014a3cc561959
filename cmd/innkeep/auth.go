package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/innkeep/innkeep/internal/booking"
	"github.com/innkeep/innkeep/internal/session"
)

func newLoginCmd(a *app) *cobra.Command {
	var (
		username      string
		passwordStdin bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and cache the session",
		Long: `Sign in with a username and password. The token is cached in the session
file and attached to every later request that needs it.

Missing values are prompted for on stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if username, err = a.prompt("Username", username); err != nil {
				return err
			}
			var password string
			if passwordStdin {
				password, err = a.readLine()
			} else {
				password, err = a.promptPassword("Password")
			}
			if err != nil {
				return err
			}

			id, err := a.svc.Login(cmd.Context(), booking.LoginForm{Username: username, Password: password})
			if err != nil {
				return err
			}
			a.printer.Success("Logged in as %s", id.Label())
			a.printer.PrintHints("login")
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin without a prompt")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the cached session",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if !a.store.Authenticated() {
				a.printer.Print("Already logged out.")
				return nil
			}
			if err := a.svc.Logout(); err != nil {
				return err
			}
			a.printer.Print("Logged out.")
			a.printer.PrintHints("logout")
			return nil
		},
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	var (
		form          booking.RegisterForm
		passwordStdin bool
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long: `Create an account. Registration does not sign you in; run 'innkeep login'
afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if form.Username, err = a.prompt("Username", form.Username); err != nil {
				return err
			}
			if form.Email, err = a.prompt("Email", form.Email); err != nil {
				return err
			}
			if form.FirstName, err = a.prompt("First name", form.FirstName); err != nil {
				return err
			}
			if form.LastName, err = a.prompt("Last name", form.LastName); err != nil {
				return err
			}
			if passwordStdin {
				form.Password, err = a.readLine()
			} else {
				form.Password, err = a.promptPassword("Password")
			}
			if err != nil {
				return err
			}

			resp, err := a.svc.Register(cmd.Context(), form)
			if err != nil {
				return err
			}
			if resp.Message != "" {
				a.printer.Info("%s", resp.Message)
			}
			a.printer.Success("Account created for %s", form.Username)
			a.printer.PrintHints("register")
			return nil
		},
	}
	cmd.Flags().StringVarP(&form.Username, "username", "u", "", "account username")
	cmd.Flags().StringVar(&form.Email, "email", "", "email address")
	cmd.Flags().StringVar(&form.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&form.LastName, "last-name", "", "last name")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin without a prompt")
	return cmd
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sessions := a.svc.Sessions()
			id, ok := sessions.CurrentIdentity()
			if !ok {
				return session.ErrNotAuthenticated
			}

			userID, err := sessions.ResolveUserID(cmd.Context())
			if err != nil {
				a.printer.Warning("Could not resolve user id: %v", err)
			}

			a.printer.Print("Username: %s", valueOr(id.Username, a.printer.Dim("(unknown)")))
			a.printer.Print("User ID:  %s", valueOr(userID, a.printer.Dim("(unknown)")))
			if claims, ok := sessions.TokenClaims(); ok && !claims.ExpiresAt.IsZero() {
				exp := claims.ExpiresAt.Local().Format(time.RFC1123)
				if claims.Expired(time.Now()) {
					a.printer.Print("Token:    %s", a.printer.Dim("expired "+exp))
				} else {
					a.printer.Print("Token:    expires %s", exp)
				}
			}
			return nil
		},
	}
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
