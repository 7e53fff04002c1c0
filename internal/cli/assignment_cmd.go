package cli

import (
	"fmt"

	"github.com/alexanderramin/menuplan/internal/cli/formatter"
	"github.com/alexanderramin/menuplan/internal/domain"
	"github.com/spf13/cobra"
)

func newAssignmentsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "assignments",
		Aliases: []string{"assign"},
		Short:   "Inspect and maintain menu assignments",
	}

	cmd.AddCommand(
		newAssignmentsShowCmd(app),
		newAssignmentsSetCmd(app),
		newAssignmentsClearCmd(app),
		newAssignmentsDedupeCmd(app),
		newAssignmentsRebuildIndexCmd(app),
		newAssignmentsRemoveAllCmd(app),
		newAssignmentsStatsCmd(app),
		newAssignmentsClearCacheCmd(app),
	)

	return cmd
}

func newAssignmentsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show an item's assignments in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0], "item")
			if err != nil {
				return err
			}
			item, err := app.Catalog.Item(ctx, id)
			if err != nil {
				return err
			}
			records, err := app.Assignments.Get(ctx, id)
			if err != nil {
				return err
			}
			names, err := termNames(ctx, app)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAssignments(item, records, names))
			return nil
		},
	}
}

func newAssignmentsSetCmd(app *App) *cobra.Command {
	var slot slotFlags
	var menuType string
	var appendRecord bool

	cmd := &cobra.Command{
		Use:   "set <item-id>",
		Short: "Replace an item's assignments with one record, or append it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0], "item")
			if err != nil {
				return err
			}

			mt, ok := domain.ParseMenuType(menuType)
			if menuType == "" {
				mt, err = app.Catalog.MenuType(ctx, slot.menu)
				if err != nil {
					return err
				}
			} else if !ok {
				return fmt.Errorf("unknown menu type %q (weekly or monthly)", menuType)
			}

			rec := domain.AssignmentRecord{
				MenuType:      mt,
				ProgramMenuID: slot.menu,
				WeekID:        slot.week,
				DayID:         slot.day,
				MealID:        slot.meal,
			}
			if appendRecord {
				err = app.Assignments.Append(ctx, id, rec)
			} else {
				err = app.Assignments.Set(ctx, id, []domain.AssignmentRecord{rec})
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s assignment for item %d\n", mt, id)
			return nil
		},
	}
	slot.register(cmd, true)
	cmd.Flags().StringVar(&menuType, "type", "", "weekly or monthly (default: the menu's type)")
	cmd.Flags().BoolVar(&appendRecord, "append", false, "Append instead of replacing")

	return cmd
}

func newAssignmentsClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <item-id>",
		Short: "Remove every assignment of one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "item")
			if err != nil {
				return err
			}
			if err := app.Assignments.Set(cmd.Context(), id, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared assignments of item %d\n", id)
			return nil
		},
	}
}

func newAssignmentsDedupeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dedupe",
		Short: "Remove exact duplicate assignments",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Assignments.Dedupe(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d duplicates from %d items\n", res.RecordsRemoved, res.ItemsChanged)
			return nil
		},
	}
}

func newAssignmentsRebuildIndexCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild-index",
		Short: "Rewrite the mirror and lookup index of every item",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.Assignments.RebuildIndex(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reindexed %d items\n", n)
			return nil
		},
	}
}

func newAssignmentsRemoveAllCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-all",
		Short: "Delete every menu assignment",
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirm(cmd, app, "Delete the menu assignments of every item?")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
			n, err := app.Assignments.RemoveAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed assignments of %d items\n", n)
			return nil
		},
	}
}

func newAssignmentsStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count items and assignments per program menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := app.Assignments.MenuStats(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([]formatter.MenuStatRow, 0, len(stats))
			for _, s := range stats {
				rows = append(rows, formatter.MenuStatRow{
					ID:          s.Menu.ID,
					Name:        s.Menu.Name,
					MenuType:    s.MenuType,
					Items:       s.Items,
					Assignments: s.Assignments,
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMenuStats(rows))
			return nil
		},
	}
}

func newAssignmentsClearCacheCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-cache",
		Short: "Drop every cached query result",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.Assignments.ClearCache(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dropped %d cached results\n", n)
			return nil
		},
	}
}
