package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/alexanderramin/menuplan/internal/cli/formatter"
	"github.com/alexanderramin/menuplan/internal/query"
	"github.com/spf13/cobra"
)

// slotFlags are the --menu/--week/--day/--meal term ids shared by query
// and assignment commands. Zero means omitted.
type slotFlags struct {
	menu, week, day, meal int64
}

func (f *slotFlags) register(cmd *cobra.Command, menuRequired bool) {
	cmd.Flags().Int64Var(&f.menu, "menu", 0, "Program menu term ID")
	cmd.Flags().Int64Var(&f.week, "week", 0, "Week term ID")
	cmd.Flags().Int64Var(&f.day, "day", 0, "Weekday term ID")
	cmd.Flags().Int64Var(&f.meal, "meal", 0, "Mealtime term ID")
	if menuRequired {
		_ = cmd.MarkFlagRequired("menu")
	}
}

func (f *slotFlags) query() query.Query {
	return query.Query{ProgramMenuID: f.menu, WeekID: f.week, DayID: f.day, MealID: f.meal}
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID %q", what, s)
	}
	return id, nil
}

func termNames(ctx context.Context, app *App) (formatter.TermNames, error) {
	terms, err := app.Catalog.ListTerms(ctx, "")
	if err != nil {
		return nil, err
	}
	return formatter.NewTermNames(terms), nil
}

func itemTitles(ctx context.Context, app *App) (map[int64]string, error) {
	items, err := app.Catalog.ListItems(ctx, false)
	if err != nil {
		return nil, err
	}
	titles := make(map[int64]string, len(items))
	for _, it := range items {
		titles[it.ID] = it.Title
	}
	return titles, nil
}
