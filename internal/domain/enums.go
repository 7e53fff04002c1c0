package domain

import "strings"

type MenuType string

const (
	MenuWeekly  MenuType = "weekly"
	MenuMonthly MenuType = "monthly"
)

// ParseMenuType maps a spreadsheet or metadata value onto a MenuType.
// The second result is false when the value is neither weekly nor monthly.
func ParseMenuType(s string) (MenuType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(MenuWeekly):
		return MenuWeekly, true
	case string(MenuMonthly):
		return MenuMonthly, true
	default:
		return "", false
	}
}

type Taxonomy string

const (
	TaxonomyProgramMenu Taxonomy = "program_menu"
	TaxonomyWeek        Taxonomy = "week_no"
	TaxonomyWeekday     Taxonomy = "weekday"
	TaxonomyMealtime    Taxonomy = "mealtime"
)

// Taxonomies lists the controlled vocabularies in resolution order.
var Taxonomies = []Taxonomy{TaxonomyProgramMenu, TaxonomyWeek, TaxonomyWeekday, TaxonomyMealtime}

// ValidTaxonomies is the canonical set of accepted taxonomy strings.
var ValidTaxonomies = map[string]bool{
	"program_menu": true, "week_no": true, "weekday": true, "mealtime": true,
}

type ItemStatus string

const (
	ItemPublished ItemStatus = "publish"
	ItemDraft     ItemStatus = "draft"
)

type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionRunning   SessionStatus = "running"
	SessionCompleted SessionStatus = "completed"
)

type LogCategory string

const (
	LogRow    LogCategory = "row"
	LogLookup LogCategory = "lookup"
	LogError  LogCategory = "error"
	LogInfo   LogCategory = "info"
)
