package formatter

import (
	"fmt"

	"github.com/alexanderramin/menuplan/internal/domain"
)

func FormatTerms(terms []domain.Term) string {
	if len(terms) == 0 {
		return Dim("No terms.") + "\n"
	}
	rows := make([][]string, 0, len(terms))
	for _, t := range terms {
		mt := ""
		if t.Taxonomy == domain.TaxonomyProgramMenu {
			mt = MenuTypeBadge(t.EffectiveMenuType())
		}
		rows = append(rows, []string{fmt.Sprint(t.ID), t.Name, Dim(string(t.Taxonomy)), mt})
	}
	return RenderTable([]string{"ID", "Name", "Taxonomy", "Menu type"}, rows)
}

func FormatItems(items []domain.Item) string {
	if len(items) == 0 {
		return Dim("No items.") + "\n"
	}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		status := StyleGreen.Render("published")
		if !it.IsPublished() {
			status = Dim(string(it.Status))
		}
		rows = append(rows, []string{
			fmt.Sprint(it.ID),
			it.Title,
			status,
			FormatPrice(it.Price),
			FormatOptionalPrice(it.WeeklyPrice),
			FormatOptionalPrice(it.MonthlyPrice),
		})
	}
	return RenderTable([]string{"ID", "Title", "Status", "Price", "Weekly", "Monthly"}, rows)
}
