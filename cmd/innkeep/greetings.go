package main

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/lipgloss"
)

var innkeeperGreetings = [...]string{
	"The kettle's on. The ledger's open. Your name isn't in it yet.",
	"Every room has a number. Yours is still a question mark.",
	"Keys hang by the door. Sign the book and one of them is yours.",
	"The porter has asked about you twice. I said you'd be along.",
	"We leave the light on. We do not leave the door unlocked.",
	"Check-in is whenever you like. Check-out is after check-in. That's the only rule.",
	"Somebody just booked the corner room. There are other corners.",
	"The register is patient. The good rooms are not.",
	"You can look at the rooms without signing in. Booking them is another matter.",
	"The beds are made. The pillows have opinions.",
	"We keep your name on file and your token in a drawer only you can open.",
	"Tonight's special: a room with a door that closes.",
}

func printWelcome(w io.Writer) {
	msg := innkeeperGreetings[rand.IntN(len(innkeeperGreetings))]

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f59e0b")).
		Bold(true).
		Render("INNKEEP")

	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(msg)

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Render("To sign in: innkeep login    To browse: innkeep rooms")

	fmt.Fprintf(w, "\n%s\n\n%s\n\n%s\n\n", title, quote, hint)
}
