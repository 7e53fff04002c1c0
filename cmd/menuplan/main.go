package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alexanderramin/menuplan/internal/blob"
	"github.com/alexanderramin/menuplan/internal/cache"
	"github.com/alexanderramin/menuplan/internal/cli"
	"github.com/alexanderramin/menuplan/internal/config"
	"github.com/alexanderramin/menuplan/internal/db"
	"github.com/alexanderramin/menuplan/internal/metrics"
	"github.com/alexanderramin/menuplan/internal/query"
	"github.com/alexanderramin/menuplan/internal/repository"
	"github.com/alexanderramin/menuplan/internal/service"
	"github.com/alexanderramin/menuplan/internal/session"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are the root flags needed before the command tree is built.
type globalFlags struct {
	verbose     bool
	metricsFile string
}

// parseGlobalFlags picks the global flags out of args and ignores the rest.
// cobra parses and reports on the full command line later.
func parseGlobalFlags(args []string) globalFlags {
	var g globalFlags
	fs := pflag.NewFlagSet("menuplan", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.BoolVarP(&g.verbose, cli.FlagVerbose, "v", false, "")
	fs.StringVar(&g.metricsFile, cli.FlagMetricsFile, "", "")
	_ = fs.Parse(args)
	return g
}

func newCache(cfg config.Config, database *sql.DB) cache.Cache {
	switch cfg.CacheDriver {
	case config.CacheMemory:
		return cache.NewMemory(1024, cfg.CacheTTL())
	case config.CacheNone:
		return cache.Nop{}
	default:
		return cache.NewSQLite(database, cfg.CacheTTL())
	}
}

// newResolver consults the lookup index only when it is enabled. Writes
// maintain lookup rows either way, so toggling the setting never leaves the
// index behind the mirrors.
func newResolver(cfg config.Config, c cache.Cache, conn db.DBTX, assignments *repository.SQLiteAssignmentRepo, scan *query.ScanStrategy) *query.Resolver {
	if !cfg.Index.Enabled {
		return query.NewResolver(c, scan)
	}
	return query.NewResolver(c, query.NewIndexStrategy(conn, assignments), scan)
}

func run() error {
	flags := parseGlobalFlags(os.Args[1:])

	cfg, cfgPath, err := config.Load(os.Getenv)
	if err != nil {
		return err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if flags.verbose {
		observer = service.NewLogUseCaseObserver(os.Stderr)
		if cfgPath != "" {
			fmt.Fprintf(os.Stderr, "config: %s\n", cfgPath)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	blobs, err := blob.Open(ctx, cfg.Blob)
	if err != nil {
		return fmt.Errorf("opening upload store: %w", err)
	}
	sessions, err := session.NewFileStore(cfg.SessionDir())
	if err != nil {
		return err
	}

	// Wire repositories
	termRepo := repository.NewSQLiteTermRepo(database)
	itemRepo := repository.NewSQLiteItemRepo(database)
	assignRepo := repository.NewSQLiteAssignmentRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	m := metrics.New()
	c := newCache(cfg, database)
	scan := query.NewScanStrategy(assignRepo)
	resolver := newResolver(cfg, c, database, assignRepo, scan)

	// Wire services
	assignments := service.NewAssignmentService(assignRepo, termRepo, uow, c, m, observer)
	app := &cli.App{
		Catalog:     service.NewCatalogService(termRepo, itemRepo, uow),
		Assignments: assignments,
		Queries:     service.NewQueryService(resolver, scan, assignRepo, itemRepo, termRepo, m, observer),
		Imports:     service.NewImportService(sessions, blobs, termRepo, itemRepo, assignments, m, observer),
		BatchSize:   cfg.BatchSize,
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	execErr := cli.Execute(ctx, app, os.Args[1:], os.Stdout, os.Stderr)

	metricsFile := flags.metricsFile
	if metricsFile == "" {
		metricsFile = cfg.MetricsFile
	}
	if metricsFile != "" {
		if err := m.WriteTextfile(metricsFile); err != nil {
			return errors.Join(execErr, err)
		}
	}
	return execErr
}
