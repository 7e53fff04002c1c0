package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/menuplan/internal/domain"
	"github.com/alexanderramin/menuplan/internal/importer"
	"github.com/alexanderramin/menuplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTerm_Validation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		term    domain.Term
		wantErr string
	}{
		{"missing name", domain.Term{Name: "  ", Taxonomy: domain.TaxonomyWeekday}, "name is required"},
		{"unknown taxonomy", domain.Term{Name: "Lunch", Taxonomy: "course"}, "unknown taxonomy"},
		{"bad menu type", domain.Term{Name: "Menu X", Taxonomy: domain.TaxonomyProgramMenu, MenuType: "daily"}, "unknown menu type"},
		{"menu type on weekday", domain.Term{Name: "Friday", Taxonomy: domain.TaxonomyWeekday, MenuType: domain.MenuWeekly}, "only applies"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := tt.term
			err := h.catalog.CreateTerm(ctx, &term)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	ok := domain.Term{Name: " Lunch ", Taxonomy: domain.TaxonomyMealtime}
	require.NoError(t, h.catalog.CreateTerm(ctx, &ok))
	assert.NotZero(t, ok.ID)
	assert.Equal(t, "Lunch", ok.Name)
}

func TestCreateMissingTerms(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	report := &importer.ValidationReport{MissingTerms: map[domain.Taxonomy][]string{
		domain.TaxonomyWeekday:     {"Friday"},
		domain.TaxonomyProgramMenu: {"Monthly Detox", "Menu C"},
	}}
	created, err := h.catalog.CreateMissingTerms(ctx, report)
	require.NoError(t, err)
	require.Len(t, created, 3)

	assert.Equal(t, "Monthly Detox", created[0].Name)
	assert.Equal(t, domain.MenuMonthly, created[0].MenuType)
	assert.Equal(t, "Menu C", created[1].Name)
	assert.Equal(t, domain.MenuType(""), created[1].MenuType)
	assert.Equal(t, domain.TaxonomyWeekday, created[2].Taxonomy)

	mt, err := h.catalog.MenuType(ctx, created[1].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MenuWeekly, mt)

	days, err := h.catalog.ListTerms(ctx, domain.TaxonomyWeekday)
	require.NoError(t, err)
	assert.Len(t, days, 3)
}

func TestCreateMissingTerms_ThenImportIsReady(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seed.Item("Oats")

	sess := h.start(t, domain.DefaultImportOptions(),
		testutil.MonthlyRow("Menu C", "Oats", "Week 3", "Monday", "Breakfast"))
	report, err := h.imports.Validate(ctx, sess.ID)
	require.NoError(t, err)
	require.False(t, report.ReadyToImport)
	require.Equal(t, 2, report.MissingTermCount())

	_, err = h.catalog.CreateMissingTerms(ctx, report)
	require.NoError(t, err)

	report, err = h.imports.Validate(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, report.ReadyToImport)
}

func TestCreateItem(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	err := h.catalog.CreateItem(ctx, &domain.Item{Title: "", Status: domain.ItemPublished})
	require.Error(t, err)
	err = h.catalog.CreateItem(ctx, &domain.Item{Title: "Oats", Status: domain.ItemPublished, Price: -1})
	require.Error(t, err)

	require.NoError(t, h.catalog.CreateItem(ctx, &domain.Item{Title: "Oats", Status: domain.ItemPublished, Price: 3}))
	require.NoError(t, h.catalog.CreateItem(ctx, &domain.Item{Title: "Draft", Status: domain.ItemDraft}))

	published, err := h.catalog.ListItems(ctx, true)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "Oats", published[0].Title)

	all, err := h.catalog.ListItems(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
