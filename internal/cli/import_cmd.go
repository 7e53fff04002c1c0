package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alexanderramin/menuplan/internal/cli/formatter"
	"github.com/alexanderramin/menuplan/internal/domain"
	"github.com/alexanderramin/menuplan/internal/service"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import menu assignments from a spreadsheet",
	}

	cmd.AddCommand(
		newImportStartCmd(app),
		newImportValidateCmd(app),
		newImportBatchCmd(app),
		newImportRunCmd(app),
		newImportStatusCmd(app),
		newImportLogCmd(app),
	)

	return cmd
}

// sessionFor returns the named session, or the current one when id is empty.
func sessionFor(ctx context.Context, app *App, id string) (*domain.ImportSession, error) {
	if id == "" {
		return app.Imports.Current(ctx)
	}
	return app.Imports.Get(ctx, id)
}

func newImportStartCmd(app *App) *cobra.Command {
	var skip, clear, prices bool
	var batchSize int

	cmd := &cobra.Command{
		Use:   "start <file.xlsx>",
		Short: "Upload a spreadsheet and open a new import session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			// --clear-existing implies no skipping unless asked for explicitly.
			if clear && !cmd.Flags().Changed("skip-existing") {
				skip = false
			}
			opts := domain.ImportOptions{
				SkipExisting:  skip,
				ClearExisting: clear,
				UpdatePrices:  prices,
				BatchSize:     batchSize,
			}
			if opts.BatchSize == 0 {
				opts.BatchSize = app.batchSize()
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			if clear {
				ok, err := confirm(cmd, app, "Replace the existing assignments of every imported item?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			sess, err := app.Imports.Start(ctx, filepath.Base(args[0]), f, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Started import %s: %s, %d rows\n", sess.ID, sess.FileName, sess.TotalRows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skip, "skip-existing", true, "Skip rows whose assignment already exists")
	cmd.Flags().BoolVar(&clear, "clear-existing", false, "Replace each item's assignments the first time the import touches it")
	cmd.Flags().BoolVar(&prices, "update-prices", false, "Update item prices from the price columns")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Rows per batch (default from config)")

	return cmd
}

func newImportValidateCmd(app *App) *cobra.Command {
	var sessionID string
	var createMissing bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a session's spreadsheet against the catalog",
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

			if createMissing && report.MissingTermCount() > 0 {
				created, err := app.Catalog.CreateMissingTerms(ctx, report)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %d terms.\n", len(created))
				if report, err = app.Imports.Validate(ctx, sess.ID); err != nil {
					return err
				}
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatValidationReport(report))
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID (default: current session)")
	cmd.Flags().BoolVar(&createMissing, "create-missing", false, "Create the missing terms, then validate again")

	return cmd
}

func newImportBatchCmd(app *App) *cobra.Command {
	var sessionID string
	var index int

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Process the next batch of rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := sessionFor(ctx, app, sessionID)
			if err != nil {
				return err
			}

			var res *service.BatchResult
			if cmd.Flags().Changed("index") {
				res, err = app.Imports.ProcessBatch(ctx, sess.ID, index)
			} else {
				res, err = app.Imports.Next(ctx, sess.ID)
			}
			if err != nil {
				return err
			}
			printBatch(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID (default: current session)")
	cmd.Flags().IntVar(&index, "index", 0, "Process this batch instead of the one at the cursor")

	return cmd
}

func newImportRunCmd(app *App) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process every remaining batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := sessionFor(ctx, app, sessionID)
			if err != nil {
				return err
			}
			for {
				r, err := app.Imports.Next(ctx, sess.ID)
				if err != nil {
					return err
				}
				if !r.HasMore {
					printBatch(cmd.OutOrStdout(), r)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderProgress(r.Processed, r.Total, 30))
			}
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID (default: current session)")

	return cmd
}

func printBatch(w io.Writer, r *service.BatchResult) {
	fmt.Fprint(w, formatter.FormatBatch(r.Processed, r.Total, r.HasMore, r.Stats, r.TotalStats))
}

func newImportStatusCmd(app *App) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show an import session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := sessionFor(cmd.Context(), app, sessionID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSession(sess, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID (default: current session)")

	return cmd
}

func newImportLogCmd(app *App) *cobra.Command {
	var sessionID, category string

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the session log",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			switch domain.LogCategory(category) {
			case "", domain.LogRow, domain.LogLookup, domain.LogError, domain.LogInfo:
			default:
				return fmt.Errorf("unknown log category %q (row, lookup, error, info)", category)
			}
			sess, err := sessionFor(ctx, app, sessionID)
			if err != nil {
				return err
			}
			entries, err := app.Imports.Log(ctx, sess.ID, domain.LogCategory(category))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLog(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID (default: current session)")
	cmd.Flags().StringVar(&category, "category", "", "Only show one category: row, lookup, error or info")

	return cmd
}
