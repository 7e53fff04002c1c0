package cli

import (
	"context"
	"io"
	"time"

	"github.com/alexanderramin/menuplan/internal/domain"
	"github.com/alexanderramin/menuplan/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Catalog     service.CatalogService
	Assignments service.AssignmentService
	Queries     service.QueryService
	Imports     service.ImportService

	// BatchSize is the default for new import sessions.
	BatchSize int

	// IsInteractive reports whether prompts can be shown. Nil means never.
	IsInteractive func() bool
	// Confirm asks a yes/no question. Nil uses a terminal prompt.
	Confirm func(title string) (bool, error)

	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) batchSize() int {
	if a.BatchSize > 0 {
		return a.BatchSize
	}
	return domain.DefaultBatchSize
}

// Global flags shared by every command. main reads the same names before
// the command tree exists.
const (
	FlagVerbose     = "verbose"
	FlagMetricsFile = "metrics-file"
	FlagYes         = "yes"
)

// NewRootCmd creates the top-level "menuplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "menuplan",
		Short:         "Import menu spreadsheets and query menu assignments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.BoolP(FlagVerbose, "v", false, "Log service use cases to stderr")
	pf.String(FlagMetricsFile, "", "Write Prometheus metrics to this file on exit")
	pf.BoolP(FlagYes, "y", false, "Answer yes to confirmation prompts")

	root.AddCommand(
		newImportCmd(app),
		newQueryCmd(app),
		newAssignmentsCmd(app),
		newTermCmd(app),
		newItemCmd(app),
	)

	return root
}

// Execute runs args through a fresh command tree, writing to out and errOut.
func Execute(ctx context.Context, app *App, args []string, out, errOut io.Writer) error {
	root := NewRootCmd(app)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}

