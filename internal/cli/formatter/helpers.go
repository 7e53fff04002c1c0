package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/menuplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// HumanTimestamp describes t relative to now: "Just now", "5m ago", "3h
// ago", or a date once it is a day old.
func HumanTimestamp(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < 0:
		return t.Format("Jan 2, 2006 15:04")
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return t.Format("Jan 2, 2006")
	}
}

func SessionStatusPill(status domain.SessionStatus) string {
	switch status {
	case domain.SessionPending:
		return StyleBlue.Render("○ Pending")
	case domain.SessionRunning:
		return StyleYellow.Render("● Running")
	case domain.SessionCompleted:
		return StyleGreen.Render("✔ Completed")
	default:
		return StyleDim.Render(string(status))
	}
}

// FormatPrice renders a price with two decimals and a euro sign.
func FormatPrice(p float64) string {
	return fmt.Sprintf("%.2f €", p)
}

// FormatOptionalPrice renders nil as a dimmed dash.
func FormatOptionalPrice(p *float64) string {
	if p == nil {
		return Dim("--")
	}
	return FormatPrice(*p)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// TermNames maps term ids to display names.
type TermNames map[int64]string

func NewTermNames(terms []domain.Term) TermNames {
	names := make(TermNames, len(terms))
	for _, t := range terms {
		names[t.ID] = t.Name
	}
	return names
}

// Name renders id as its term name, "--" when absent, or "#id" when the
// term is unknown.
func (n TermNames) Name(id int64) string {
	if id == 0 {
		return Dim("--")
	}
	if name, ok := n[id]; ok {
		return name
	}
	return StyleRed.Render(fmt.Sprintf("#%d", id))
}
