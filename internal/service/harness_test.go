package service

import (
	"bytes"
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/menuplan/internal/blob"
	"github.com/alexanderramin/menuplan/internal/cache"
	"github.com/alexanderramin/menuplan/internal/db"
	"github.com/alexanderramin/menuplan/internal/domain"
	"github.com/alexanderramin/menuplan/internal/metrics"
	"github.com/alexanderramin/menuplan/internal/query"
	"github.com/alexanderramin/menuplan/internal/repository"
	"github.com/alexanderramin/menuplan/internal/session"
	"github.com/alexanderramin/menuplan/internal/testutil"
	"github.com/stretchr/testify/require"
)

// harness wires every service against one in-memory database.
type harness struct {
	db          *sql.DB
	seed        *testutil.Seed
	vocab       testutil.Vocabulary
	terms       *repository.SQLiteTermRepo
	items       *repository.SQLiteItemRepo
	assignRepo  *repository.SQLiteAssignmentRepo
	cache       *cache.Memory
	metrics     *metrics.Metrics
	observer    *recordingObserver
	catalog     CatalogService
	assignments AssignmentService
	queries     QueryService
	imports     ImportService
}

type harnessOption func(*harnessConfig)

type harnessConfig struct {
	uow          func(*sql.DB) db.UnitOfWork
	indexEnabled bool
	onInvalidate func(ctx context.Context) error
}

func withUoW(fn func(*sql.DB) db.UnitOfWork) harnessOption {
	return func(c *harnessConfig) { c.uow = fn }
}

func withIndexDisabled() harnessOption {
	return func(c *harnessConfig) { c.indexEnabled = false }
}

// withInvalidateHook runs fn before every query cache invalidation made by
// the services. A non-nil error fails the invalidation.
func withInvalidateHook(fn func(ctx context.Context) error) harnessOption {
	return func(c *harnessConfig) { c.onInvalidate = fn }
}

// hookedCache is the harness cache with an interceptable DeletePrefix.
type hookedCache struct {
	*cache.Memory
	hook func(ctx context.Context) error
}

func (c *hookedCache) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	if err := c.hook(ctx); err != nil {
		return 0, err
	}
	return c.Memory.DeletePrefix(ctx, prefix)
}

// newResolver reads the lookup index only when enabled, the way the CLI
// wires it.
func newResolver(c cache.Cache, database *sql.DB, repo *repository.SQLiteAssignmentRepo, scan *query.ScanStrategy, indexEnabled bool) *query.Resolver {
	if !indexEnabled {
		return query.NewResolver(c, scan)
	}
	return query.NewResolver(c, query.NewIndexStrategy(database, repo), scan)
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	cfg := harnessConfig{uow: testutil.NewTestUoW, indexEnabled: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	database := testutil.NewTestDB(t)
	h := &harness{
		db:         database,
		seed:       testutil.NewSeed(t, database),
		terms:      repository.NewSQLiteTermRepo(database),
		items:      repository.NewSQLiteItemRepo(database),
		assignRepo: repository.NewSQLiteAssignmentRepo(database),
		cache:      cache.NewMemory(0, time.Hour),
		metrics:    metrics.New(),
		observer:   &recordingObserver{},
	}
	h.vocab = h.seed.Vocabulary()

	uow := cfg.uow(database)
	var svcCache cache.Cache = h.cache
	if cfg.onInvalidate != nil {
		svcCache = &hookedCache{Memory: h.cache, hook: cfg.onInvalidate}
	}
	scan := query.NewScanStrategy(h.assignRepo)
	resolver := newResolver(h.cache, database, h.assignRepo, scan, cfg.indexEnabled)

	blobs, err := blob.NewFS(t.TempDir())
	require.NoError(t, err)
	sessions, err := session.NewFileStore(t.TempDir())
	require.NoError(t, err)

	h.catalog = NewCatalogService(h.terms, h.items, uow)
	h.assignments = NewAssignmentService(h.assignRepo, h.terms, uow, svcCache, h.metrics, h.observer)
	h.queries = NewQueryService(resolver, scan, h.assignRepo, h.items, h.terms, h.metrics, h.observer)
	h.imports = NewImportService(sessions, blobs, h.terms, h.items, h.assignments, h.metrics, h.observer)
	return h
}

// start uploads a workbook built from rows and returns the new session.
func (h *harness) start(t *testing.T, opts domain.ImportOptions, rows ...testutil.WorkbookRow) *domain.ImportSession {
	t.Helper()
	data := testutil.WriteWorkbook(t, testutil.StandardHeader, rows...)
	sess, err := h.imports.Start(context.Background(), "menu.xlsx", bytes.NewReader(data), opts)
	require.NoError(t, err)
	return sess
}

// run processes every batch of a session and returns the last result.
func (h *harness) run(t *testing.T, sessionID string) *BatchResult {
	t.Helper()
	var res *BatchResult
	for {
		var err error
		res, err = h.imports.Next(context.Background(), sessionID)
		require.NoError(t, err)
		if !res.HasMore {
			return res
		}
	}
}

func (h *harness) records(t *testing.T, itemID int64) []domain.AssignmentRecord {
	t.Helper()
	records, err := h.assignments.Get(context.Background(), itemID)
	require.NoError(t, err)
	return records
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) named(name string) []UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []UseCaseEvent
	for _, e := range o.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}
