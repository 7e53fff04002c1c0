package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// confirm gates a destructive command. --yes always passes. Otherwise the
// question is asked interactively, and refused when no one can answer.
func confirm(cmd *cobra.Command, app *App, title string) (bool, error) {
	if yes, _ := cmd.Flags().GetBool(FlagYes); yes {
		return true, nil
	}
	if app.Confirm != nil {
		return app.Confirm(title)
	}
	if app.IsInteractive == nil || !app.IsInteractive() {
		return false, fmt.Errorf("%s: confirmation required, rerun with --yes", title)
	}
	ok := false
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		return false, fmt.Errorf("confirmation prompt: %w", err)
	}
	return ok, nil
}
