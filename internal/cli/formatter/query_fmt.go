package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/menuplan/internal/domain"
)

// FormatItemIDs renders query results, naming items where known.
func FormatItemIDs(ids []int64, titles map[int64]string, tier string) string {
	var b strings.Builder
	if len(ids) == 0 {
		b.WriteString(Dim("No items match.") + "\n")
	} else {
		rows := make([][]string, 0, len(ids))
		for _, id := range ids {
			title, ok := titles[id]
			if !ok {
				title = Dim("(unknown)")
			}
			rows = append(rows, []string{fmt.Sprint(id), title})
		}
		b.WriteString(RenderTable([]string{"ID", "Title"}, rows))
	}
	fmt.Fprintf(&b, "%s\n", Dim(fmt.Sprintf("%d items, answered by %s", len(ids), tier)))
	return b.String()
}

func FormatOccurrences(occ []domain.Occurrence, titles map[int64]string, names TermNames) string {
	if len(occ) == 0 {
		return Dim("No occurrences.") + "\n"
	}
	rows := make([][]string, 0, len(occ))
	for _, o := range occ {
		rows = append(rows, []string{
			fmt.Sprint(o.ItemID),
			titles[o.ItemID],
			fmt.Sprint(o.Ordinal),
			names.Name(o.Record.Week),
			names.Name(o.Record.Day),
			mealName(names, o.Record.Meal),
		})
	}
	return RenderTable([]string{"Item", "Title", "#", "Week", "Day", "Meal"}, rows)
}

// FormatMenuTotal renders the priced summary of one program menu.
func FormatMenuTotal(menu string, mt domain.MenuType, occurrences, items int, total float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Menu:        %s %s\n", Bold(menu), MenuTypeBadge(mt))
	fmt.Fprintf(&b, "Items:       %d\n", items)
	fmt.Fprintf(&b, "Occurrences: %d\n", occurrences)
	fmt.Fprintf(&b, "Total:       %s\n", StyleGreen.Render(FormatPrice(total)))
	return b.String()
}
