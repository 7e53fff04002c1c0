package cli

import (
	"fmt"

	"github.com/alexanderramin/menuplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newQueryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Find items by menu slot",
	}

	cmd.AddCommand(
		newQueryItemsCmd(app),
		newQueryOccurrencesCmd(app),
		newQueryTotalCmd(app),
	)

	return cmd
}

func newQueryItemsCmd(app *App) *cobra.Command {
	var slot slotFlags

	cmd := &cobra.Command{
		Use:   "items",
		Short: "List the items assigned to a menu slot",
		Long: `List the items assigned to a menu slot.

Without --week only assignments that have no week match. Without --day any
day matches. With --meal, assignments without a meal match too.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			res, err := app.Queries.FindItems(ctx, slot.query())
			if err != nil {
				return err
			}
			titles, err := itemTitles(ctx, app)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatItemIDs(res.ItemIDs, titles, res.Tier))
			return nil
		},
	}
	slot.register(cmd, true)

	return cmd
}

func newQueryOccurrencesCmd(app *App) *cobra.Command {
	var slot slotFlags
	var allWeeks bool

	cmd := &cobra.Command{
		Use:   "occurrences",
		Short: "List every matching assignment, duplicates included",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			occ, err := app.Queries.Occurrences(ctx, slot.query(), allWeeks)
			if err != nil {
				return err
			}
			titles, err := itemTitles(ctx, app)
			if err != nil {
				return err
			}
			names, err := termNames(ctx, app)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatOccurrences(occ, titles, names))
			return nil
		},
	}
	slot.register(cmd, true)
	cmd.Flags().BoolVar(&allWeeks, "all-weeks", false, "Ignore the week")

	return cmd
}

func newQueryTotalCmd(app *App) *cobra.Command {
	var menu int64

	cmd := &cobra.Command{
		Use:   "total",
		Short: "Sum item prices over a program menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			total, err := app.Queries.MenuTotal(cmd.Context(), menu)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMenuTotal(
				total.Menu.Name, total.MenuType, total.Occurrences, total.Items, total.Total))
			return nil
		},
	}
	cmd.Flags().Int64Var(&menu, "menu", 0, "Program menu term ID")
	_ = cmd.MarkFlagRequired("menu")

	return cmd
}
