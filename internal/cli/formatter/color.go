package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/menuplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// MenuTypeBadge colors weekly blue and monthly purple.
func MenuTypeBadge(mt domain.MenuType) string {
	switch mt {
	case domain.MenuWeekly:
		return StyleBlue.Render("weekly")
	case domain.MenuMonthly:
		return StylePurple.Render("monthly")
	default:
		return StyleDim.Render("--")
	}
}

// CategoryStyle picks the color of a session log line.
func CategoryStyle(c domain.LogCategory) lipgloss.Style {
	switch c {
	case domain.LogError:
		return StyleRed
	case domain.LogLookup:
		return StyleYellow
	case domain.LogInfo:
		return StyleGreen
	default:
		return StyleFg
	}
}

// Header renders an upper-cased section title with a rule under it.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
