package formatter

import (
	"fmt"

	"github.com/alexanderramin/menuplan/internal/domain"
)

// FormatAssignments renders an item's canonical sequence in order.
func FormatAssignments(item *domain.Item, records []domain.AssignmentRecord, names TermNames) string {
	title := fmt.Sprintf("%s %s\n", Bold(item.Title), Dim(fmt.Sprintf("#%d", item.ID)))
	if len(records) == 0 {
		return title + Dim("No menu assignments.") + "\n"
	}
	rows := make([][]string, 0, len(records))
	for i, r := range records {
		rows = append(rows, []string{
			fmt.Sprint(i),
			MenuTypeBadge(r.MenuType),
			names.Name(r.ProgramMenuID),
			names.Name(r.WeekID),
			names.Name(r.DayID),
			mealName(names, r.MealID),
		})
	}
	return title + RenderTable([]string{"#", "Type", "Menu", "Week", "Day", "Meal"}, rows)
}

func mealName(names TermNames, id int64) string {
	if id == 0 {
		return Dim("any")
	}
	return names.Name(id)
}

func FormatMenuStats(stats []MenuStatRow) string {
	if len(stats) == 0 {
		return Dim("No program menus.") + "\n"
	}
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			fmt.Sprint(s.ID),
			s.Name,
			MenuTypeBadge(s.MenuType),
			fmt.Sprint(s.Items),
			fmt.Sprint(s.Assignments),
		})
	}
	return RenderTable([]string{"ID", "Menu", "Type", "Items", "Assignments"}, rows)
}

// MenuStatRow is one line of the per-menu statistics table.
type MenuStatRow struct {
	ID          int64
	Name        string
	MenuType    domain.MenuType
	Items       int
	Assignments int
}
