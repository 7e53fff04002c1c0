package cli

import (
	"fmt"

	"github.com/alexanderramin/menuplan/internal/cli/formatter"
	"github.com/alexanderramin/menuplan/internal/domain"
	"github.com/spf13/cobra"
)

func newItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage catalog items",
	}

	cmd.AddCommand(
		newItemAddCmd(app),
		newItemListCmd(app),
	)

	return cmd
}

func newItemAddCmd(app *App) *cobra.Command {
	var title string
	var price, weekly, monthly float64
	var draft bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a catalog item",
		RunE: func(cmd *cobra.Command, args []string) error {
			item := &domain.Item{Title: title, Status: domain.ItemPublished, Price: price}
			if draft {
				item.Status = domain.ItemDraft
			}
			if cmd.Flags().Changed("weekly-price") {
				item.WeeklyPrice = &weekly
			}
			if cmd.Flags().Changed("monthly-price") {
				item.MonthlyPrice = &monthly
			}
			if err := app.Catalog.CreateItem(cmd.Context(), item); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created item %s (#%d)\n", item.Title, item.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Item title")
	cmd.Flags().Float64Var(&price, "price", 0, "Base price")
	cmd.Flags().Float64Var(&weekly, "weekly-price", 0, "Price on weekly menus")
	cmd.Flags().Float64Var(&monthly, "monthly-price", 0, "Price on monthly menus")
	cmd.Flags().BoolVar(&draft, "draft", false, "Create unpublished")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newItemListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog items",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.Catalog.ListItems(cmd.Context(), !all)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatItems(items))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include drafts")

	return cmd
}
