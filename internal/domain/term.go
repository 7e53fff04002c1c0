package domain

import "strings"

type Term struct {
	ID       int64
	Name     string
	Taxonomy Taxonomy
	// MenuType is explicit metadata and only meaningful for program_menu terms.
	MenuType MenuType
}

var (
	weeklyNameHints  = []string{"weekly", "εβδομαδιαίο"}
	monthlyNameHints = []string{"monthly", "μηνιαίο"}
)

// InferredMenuType returns the explicit menu type if set, otherwise guesses
// from the term name. Returns "" when neither applies.
func (t Term) InferredMenuType() MenuType {
	if t.MenuType != "" {
		return t.MenuType
	}
	name := strings.ToLower(t.Name)
	for _, hint := range weeklyNameHints {
		if strings.Contains(name, hint) {
			return MenuWeekly
		}
	}
	for _, hint := range monthlyNameHints {
		if strings.Contains(name, hint) {
			return MenuMonthly
		}
	}
	return ""
}

// EffectiveMenuType is InferredMenuType with unknown defaulting to weekly.
func (t Term) EffectiveMenuType() MenuType {
	if mt := t.InferredMenuType(); mt != "" {
		return mt
	}
	return MenuWeekly
}
