package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// shimmerTickMsg advances the logo animation.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

const logoText = "INNKEEP"

// lamp is a two-stop gradient the logo letters glow between.
type lamp struct {
	dim, lit [3]float64
}

var logoLamp = lamp{
	dim: [3]float64{0x3a, 0x2a, 0x12},
	lit: [3]float64{0xf5, 0x9e, 0x0b},
}

// at returns the color at brightness b in [0,1].
func (l lamp) at(b float64) lipgloss.Color {
	var c [3]int
	for i := range c {
		c[i] = clampByte(l.dim[i] + b*(l.lit[i]-l.dim[i]))
	}
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", c[0], c[1], c[2]))
}

// glow is the brightness of letter i of n at frame: a wave travelling
// along the word plus a slow flicker, kept within [0.05, 1].
func glow(i, n, frame int) float64 {
	t := float64(frame)
	x := float64(i) / float64(max(n-1, 1))
	wave := math.Sin(t*0.1-x*3+math.Sin(t*0.023)*2)*0.5 + 0.5
	flicker := math.Sin(t*0.035) * 0.12
	return min(max(math.Pow(wave, 1.3)*0.75+flicker+0.18, 0.05), 1)
}

func renderShimmerLogo(frame int) string {
	letters := []rune(logoText)
	parts := make([]string, len(letters))
	for i, r := range letters {
		parts[i] = lipgloss.NewStyle().
			Bold(true).
			Foreground(logoLamp.at(glow(i, len(letters), frame))).
			Render(string(r))
	}
	return strings.Join(parts, "  ")
}

func clampByte(v float64) int {
	return int(min(max(v, 0), 255))
}

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f59e0b"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f59e0b")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0")).
			Width(14)

	fieldErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060")).
			Bold(true)

	confirmedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	cancelledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#b45555"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844"))

	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))
)

// statusStyle colors a reservation status.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case "CONFIRMED", "BOOKED", "ACTIVE":
		return confirmedStyle
	case "CANCELLED", "CANCELED":
		return cancelledStyle
	case "PENDING":
		return pendingStyle
	default:
		return dimStyle
	}
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}
