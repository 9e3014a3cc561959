package main

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/innkeep/innkeep/internal/booking"
)

func newRoomsCmd(a *app) *cobra.Command {
	var (
		form   booking.SearchForm
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "List rooms available for a date range",
		Long: `List rooms available between --checkin and --checkout (YYYY-MM-DD).
Dates default to today and tomorrow. No sign-in is needed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			def := booking.DefaultSearch(time.Now())
			if form.Checkin == "" {
				form.Checkin = def.Checkin
			}
			if form.Checkout == "" {
				form.Checkout = def.Checkout
			}

			rooms, err := a.svc.SearchRooms(cmd.Context(), form)
			if err != nil {
				return err
			}
			if asJSON {
				return a.printer.JSON(rooms)
			}
			if len(rooms) == 0 {
				a.printer.Info("No rooms found for the selected dates.")
				return nil
			}

			a.printer.Header("Available rooms " + form.Checkin + " to " + form.Checkout)
			tbl := a.printer.NewTable([]string{"id", "room", "type"})
			for _, r := range rooms {
				tbl.AddRow(r.ID.String(), strconv.Itoa(r.RoomNumber), r.RoomType)
			}
			if err := tbl.Render(); err != nil {
				return err
			}
			a.printer.PrintHints("rooms")
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Checkin, "checkin", "", "check-in date (default today)")
	cmd.Flags().StringVar(&form.Checkout, "checkout", "", "check-out date (default tomorrow)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
