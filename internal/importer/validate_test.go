package importer

import (
	"testing"

	"github.com/alexanderramin/menuplan/internal/domain"
	"github.com/alexanderramin/menuplan/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookups() (*resolver.TermResolver, *resolver.ItemResolver) {
	terms := resolver.NewTermResolver([]domain.Term{
		{ID: 1, Name: "Plan A", Taxonomy: domain.TaxonomyProgramMenu},
		{ID: 2, Name: "Week 1", Taxonomy: domain.TaxonomyWeek},
		{ID: 3, Name: "Monday", Taxonomy: domain.TaxonomyWeekday},
		{ID: 4, Name: "Breakfast", Taxonomy: domain.TaxonomyMealtime},
	})
	items := resolver.NewItemResolver([]domain.Item{
		{ID: 10, Title: "Oats", Status: domain.ItemPublished},
	})
	return terms, items
}

func monthly(n int, menu, item, week, day, meal string) Row {
	return DecodeRow(n, map[string]string{
		ColType: "monthly", ColMenuTitle: menu, ColMonthlyItem: item, ColWeek: week, ColDay: day, ColMeal: meal,
	})
}

func TestValidate_Ready(t *testing.T) {
	terms, items := lookups()
	rows := []Row{
		monthly(2, "Plan A", "Oats", "Week 1", "Monday", "Breakfast"),
		monthly(3, "Plan A", "Oats", "Week 1", "Monday", ""),
	}

	report := Validate(rows, terms, items)
	assert.Equal(t, 2, report.TotalRows)
	assert.Equal(t, 2, report.ValidRows)
	assert.Equal(t, 1, report.ProductsFound)
	assert.Equal(t, 0, report.ProductsMissing)
	assert.Empty(t, report.DataIssues)
	assert.True(t, report.ReadyToImport)
}

func TestValidate_MissingItemsAndTermsListedOnce(t *testing.T) {
	terms, items := lookups()
	rows := []Row{
		monthly(2, "Plan Z", "Pizza", "Week 9", "Monday", "Brunch"),
		monthly(3, "Plan Z", "Pizza", "Week 9", "Monday", "Brunch"),
		monthly(4, "Plan A", "Tacos", "Week 1", "Monday", ""),
	}

	report := Validate(rows, terms, items)
	assert.Equal(t, []string{"Pizza", "Tacos"}, report.MissingProducts)
	assert.Equal(t, 2, report.ProductsMissing)
	assert.Equal(t, []string{"Plan Z"}, report.MissingTerms[domain.TaxonomyProgramMenu])
	assert.Equal(t, []string{"Week 9"}, report.MissingTerms[domain.TaxonomyWeek])
	assert.Equal(t, []string{"Brunch"}, report.MissingTerms[domain.TaxonomyMealtime])
	assert.Equal(t, 3, report.MissingTermCount())
	assert.False(t, report.ReadyToImport)
}

func TestValidate_WeeklyRowsDoNotCheckWeek(t *testing.T) {
	terms, items := lookups()
	row := DecodeRow(2, map[string]string{
		ColType: "weekly", ColMenuTitle: "Plan A", ColMeal: "Oats", ColWeek: "Monday", ColDay: "Breakfast",
	})

	report := Validate([]Row{row}, terms, items)
	assert.Empty(t, report.MissingTerms)
	assert.True(t, report.ReadyToImport)
}

func TestValidate_DataIssues(t *testing.T) {
	terms, items := lookups()
	rows := []Row{
		monthly(2, "", "Oats", "", "", ""),
		monthly(3, "Plan A", "", "", "", ""),
		monthly(4, "", "", "", "", ""),
		DecodeRow(5, map[string]string{ColType: "daily", ColMenuTitle: "Plan A", ColMonthlyItem: "Oats"}),
	}

	report := Validate(rows, terms, items)
	require.Len(t, report.DataIssues, 3)
	assert.Equal(t, "Row 2: Product 'Oats' has no menu assignment", report.DataIssues[0])
	assert.Equal(t, "Row 3: Menu assignment without product name", report.DataIssues[1])
	assert.Contains(t, report.DataIssues[2], "Row 5")
	assert.Equal(t, 1, report.ValidRows)
}

func TestValidate_NoValidRowsIsNotReady(t *testing.T) {
	terms, items := lookups()
	report := Validate(nil, terms, items)
	assert.False(t, report.ReadyToImport)
	assert.Equal(t, 0, report.TotalRows)
}
