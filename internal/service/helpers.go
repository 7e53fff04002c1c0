package service

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/menuplan/internal/domain"
)

// formatValidationErrors folds a list of problems into one error.
func formatValidationErrors(what string, errs []error) error {
	msg := fmt.Sprintf("%s failed (%d errors):", what, len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}

// layoutPrice is the price charged for one occurrence: the layout-specific
// price when the item has one, else its base price.
func layoutPrice(item *domain.Item, mt domain.MenuType) float64 {
	switch {
	case mt == domain.MenuWeekly && item.WeeklyPrice != nil:
		return *item.WeeklyPrice
	case mt == domain.MenuMonthly && item.MonthlyPrice != nil:
		return *item.MonthlyPrice
	}
	return item.Price
}

func describeItems(items []domain.Item) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("'%s' (#%d)", it.Title, it.ID))
	}
	return strings.Join(parts, ", ")
}
