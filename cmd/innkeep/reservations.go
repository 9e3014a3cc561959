package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/innkeep/innkeep/internal/booking"
	"github.com/innkeep/innkeep/internal/output"
	"github.com/innkeep/innkeep/pkg/domain"
)

func newReservationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reservations",
		Aliases: []string{"res"},
		Short:   "Book and manage reservations",
	}
	cmd.AddCommand(
		newReservationsListCmd(a),
		newReservationsBookCmd(a),
		newReservationsUpdateCmd(a),
		newReservationsCancelCmd(a),
	)
	return cmd
}

func newReservationsListCmd(a *app) *cobra.Command {
	var (
		search string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your reservations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := a.svc.MyReservations(cmd.Context())
			if err != nil {
				return err
			}
			items = booking.FilterReservations(items, search)
			if asJSON {
				return a.printer.JSON(items)
			}
			if len(items) == 0 {
				a.printer.Info("No reservations found.")
				return nil
			}
			a.printReservations(items)
			a.printer.PrintHints("reservations list")
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by guest name or room number")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func (a *app) printReservations(items []domain.Reservation) {
	tbl := a.printer.NewTable([]string{"id", "guest", "room", "check-in", "check-out", "nights", "status"})
	for _, r := range items {
		tbl.AddRow(
			r.ID.String(),
			r.Guest(),
			strconv.Itoa(r.RoomNumber),
			r.CheckinDate.String(),
			r.CheckoutDate.String(),
			strconv.Itoa(r.Nights()),
			a.printer.StatusBadge(r.Status),
		)
	}
	if err := tbl.Render(); err != nil {
		a.printer.Error("render table: %v", err)
	}
}

func newReservationsBookCmd(a *app) *cobra.Command {
	var (
		room domain.Room
		form booking.ReservationForm
	)
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Reserve a room",
		Long: `Reserve a room found with 'innkeep rooms'. Guest names default to the
signed-in user's profile.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			roomID, _ := cmd.Flags().GetString("room-id")
			room.ID = domain.ID(roomID)

			def := booking.DefaultSearch(time.Now())
			search := booking.SearchForm{Checkin: valueOr(form.CheckinDate, def.Checkin), Checkout: valueOr(form.CheckoutDate, def.Checkout)}
			if form.Firstname == "" || form.Surname == "" {
				prefill, err := a.svc.PrefillBooking(cmd.Context(), search)
				if err != nil {
					a.printer.Warning("Failed to fetch user info: %v", err)
				}
				form.Firstname = valueOr(form.Firstname, prefill.Firstname)
				form.Surname = valueOr(form.Surname, prefill.Surname)
			}
			form.CheckinDate = search.Checkin
			form.CheckoutDate = search.Checkout

			res, err := a.svc.Book(cmd.Context(), room, form)
			if err != nil {
				return err
			}
			label := room.Label()
			if room.RoomNumber == 0 {
				label = "room " + room.ID.String()
			}
			a.printer.Success("Reservation created: %s for %s %s, %s to %s", label, form.Firstname, form.Surname, form.CheckinDate, form.CheckoutDate)
			if res != nil {
				a.printer.Print("%s", res.ID)
			}
			a.printer.PrintHints("reservations book")
			return nil
		},
	}
	cmd.Flags().String("room-id", "", "room id from 'innkeep rooms'")
	cmd.Flags().IntVar(&room.RoomNumber, "room-number", 0, "room number")
	cmd.Flags().StringVar(&form.CheckinDate, "checkin", "", "check-in date (default today)")
	cmd.Flags().StringVar(&form.CheckoutDate, "checkout", "", "check-out date (default tomorrow)")
	cmd.Flags().StringVar(&form.Firstname, "firstname", "", "guest first name")
	cmd.Flags().StringVar(&form.Surname, "surname", "", "guest surname")
	_ = cmd.MarkFlagRequired("room-id")
	return cmd
}

func newReservationsUpdateCmd(a *app) *cobra.Command {
	var flags booking.ReservationForm
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change guest names or dates of a reservation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			items, err := a.svc.MyReservations(cmd.Context())
			if err != nil {
				return err
			}
			var current *domain.Reservation
			for i := range items {
				if items[i].ID.String() == id {
					current = &items[i]
					break
				}
			}
			if current == nil {
				return &output.CLIError{
					Summary:    fmt.Sprintf("reservation %s not found", id),
					Suggestion: "Run 'innkeep reservations list' to see your reservations",
					ExitCode:   output.ExitUsageError,
				}
			}

			form := a.svc.EditForm(*current)
			if cmd.Flags().Changed("firstname") {
				form.Firstname = flags.Firstname
			}
			if cmd.Flags().Changed("surname") {
				form.Surname = flags.Surname
			}
			if cmd.Flags().Changed("checkin") {
				form.CheckinDate = flags.CheckinDate
			}
			if cmd.Flags().Changed("checkout") {
				form.CheckoutDate = flags.CheckoutDate
			}

			if _, err := a.svc.Update(cmd.Context(), id, form); err != nil {
				return err
			}
			a.printer.Success("Reservation updated")
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.Firstname, "firstname", "", "guest first name")
	cmd.Flags().StringVar(&flags.Surname, "surname", "", "guest surname")
	cmd.Flags().StringVar(&flags.CheckinDate, "checkin", "", "check-in date")
	cmd.Flags().StringVar(&flags.CheckoutDate, "checkout", "", "check-out date")
	return cmd
}

func newReservationsCancelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a reservation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.svc.Cancel(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.printer.Success("Reservation cancelled")
			return nil
		},
	}
}
