package cli

import (
	"fmt"

	"github.com/alexanderramin/menuplan/internal/cli/formatter"
	"github.com/alexanderramin/menuplan/internal/domain"
	"github.com/spf13/cobra"
)

func newTermCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "term",
		Short: "Manage menu, week, day and meal terms",
	}

	cmd.AddCommand(
		newTermAddCmd(app),
		newTermListCmd(app),
		newTermCreateMissingCmd(app),
	)

	return cmd
}

func newTermAddCmd(app *App) *cobra.Command {
	var name, taxonomy, menuType string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a term",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := &domain.Term{
				Name:     name,
				Taxonomy: domain.Taxonomy(taxonomy),
				MenuType: domain.MenuType(menuType),
			}
			if err := app.Catalog.CreateTerm(cmd.Context(), t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s term %s (#%d)\n", t.Taxonomy, t.Name, t.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Term name")
	cmd.Flags().StringVar(&taxonomy, "taxonomy", "", "program_menu, week_no, weekday or mealtime")
	cmd.Flags().StringVar(&menuType, "menu-type", "", "weekly or monthly (program menus only)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("taxonomy")

	return cmd
}

func newTermListCmd(app *App) *cobra.Command {
	var taxonomy string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List terms",
		RunE: func(cmd *cobra.Command, args []string) error {
			if taxonomy != "" && !domain.ValidTaxonomies[taxonomy] {
				return fmt.Errorf("unknown taxonomy %q", taxonomy)
			}
			terms, err := app.Catalog.ListTerms(cmd.Context(), domain.Taxonomy(taxonomy))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTerms(terms))
			return nil
		},
	}

	cmd.Flags().StringVar(&taxonomy, "taxonomy", "", "Only list one taxonomy")

	return cmd
}

func newTermCreateMissingCmd(app *App) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "create-missing",
		Short: "Create the terms an import session could not resolve",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := sessionFor(ctx, app, sessionID)
			if err != nil {
				return err
			}
			report, err := app.Imports.Validate(ctx, sess.ID)
			if err != nil {
				return err
			}
			created, err := app.Catalog.CreateMissingTerms(ctx, report)
			if err != nil {
				return err
			}
			if len(created) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No missing terms.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTerms(created))
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID (default: current session)")

	return cmd
}
