package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alexanderramin/menuplan/internal/db"
	"github.com/alexanderramin/menuplan/internal/domain"
	"github.com/alexanderramin/menuplan/internal/metrics"
	"github.com/alexanderramin/menuplan/internal/query"
	"github.com/alexanderramin/menuplan/internal/repository"
	"github.com/alexanderramin/menuplan/internal/testutil"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentSet_WritesAllProjections(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	oats := h.seed.Item("Oats")

	records := []domain.AssignmentRecord{
		{MenuType: domain.MenuMonthly, ProgramMenuID: h.vocab.MonthlyMenu.ID, WeekID: h.vocab.Week2.ID, DayID: h.vocab.Monday.ID},
		{MenuType: domain.MenuWeekly, ProgramMenuID: h.vocab.WeeklyMenu.ID, MealID: h.vocab.Breakfast.ID},
	}
	require.NoError(t, h.assignments.Set(ctx, oats.ID, records))

	assert.Equal(t, records, h.records(t, oats.ID))
	rows, err := h.assignRepo.ListLookupRows(ctx, oats.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LookupRows(oats.ID, records), rows)

	mirrors, err := h.assignRepo.ListMirrors(ctx)
	require.NoError(t, err)
	require.Len(t, mirrors, 1)
	assert.Equal(t, domain.Mirror(records), mirrors[0].Entries)

	assert.Equal(t, 1.0, promtest.ToFloat64(h.metrics.AssignmentWrites))
}

func TestAssignmentSet_RejectsInvalidRecord(t *testing.T) {
	h := newHarness(t)
	oats := h.seed.Item("Oats")

	err := h.assignments.Set(context.Background(), oats.ID, []domain.AssignmentRecord{
		{MenuType: domain.MenuWeekly, ProgramMenuID: h.vocab.WeeklyMenu.ID, WeekID: h.vocab.Week2.ID},
	})
	require.ErrorIs(t, err, domain.ErrInvalidAssignment)
	assert.Empty(t, h.records(t, oats.ID))

	events := h.observer.named("assignments.set")
	require.Len(t, events, 1)
	assert.False(t, events[0].Success)
}

func TestAssignmentSet_RollsBackPartialWrite(t *testing.T) {
	h := newHarness(t, withUoW(func(database *sql.DB) db.UnitOfWork {
		return &testutil.FailOnNthExecUoW{DB: database, FailOn: 3, Err: errors.New("injected mirror failure")}
	}))
	ctx := context.Background()
	oats := h.seed.Item("Oats")

	err := h.assignments.Set(ctx, oats.ID, []domain.AssignmentRecord{
		{MenuType: domain.MenuWeekly, ProgramMenuID: h.vocab.WeeklyMenu.ID},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected mirror failure")

	// The canonical upsert ran before the failure and must be gone too.
	assert.Empty(t, h.records(t, oats.ID))
	ids, err := h.assignRepo.ItemIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestAssignmentSet_InvalidatesQueryCache(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	oats := h.seed.Item("Oats")
	soup := h.seed.Item("Soup")
	rec := domain.AssignmentRecord{MenuType: domain.MenuWeekly, ProgramMenuID: h.vocab.WeeklyMenu.ID}
	q := query.Query{ProgramMenuID: h.vocab.WeeklyMenu.ID}

	require.NoError(t, h.assignments.Append(ctx, oats.ID, rec))
	first, err := h.queries.FindItems(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, query.TierIndex, first.Tier)

	cached, err := h.queries.FindItems(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, query.TierCache, cached.Tier)

	require.NoError(t, h.assignments.Append(ctx, soup.ID, rec))
	fresh, err := h.queries.FindItems(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, query.TierIndex, fresh.Tier)
	assert.Equal(t, []int64{oats.ID, soup.ID}, fresh.ItemIDs)
	assert.GreaterOrEqual(t, promtest.ToFloat64(h.metrics.CacheInvalidations), 1.0)
}

func TestAssignmentAppend_KeepsOrder(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	oats := h.seed.Item("Oats")
	a := domain.AssignmentRecord{MenuType: domain.MenuWeekly, ProgramMenuID: h.vocab.WeeklyMenu.ID, DayID: h.vocab.Monday.ID}
	b := domain.AssignmentRecord{MenuType: domain.MenuWeekly, ProgramMenuID: h.vocab.WeeklyMenu.ID, DayID: h.vocab.Tuesday.ID}

	require.NoError(t, h.assignments.Append(ctx, oats.ID, a))
	require.NoError(t, h.assignments.Append(ctx, oats.ID, b))
	require.NoError(t, h.assignments.Append(ctx, oats.ID, a))

	assert.Equal(t, []domain.AssignmentRecord{a, b, a}, h.records(t, oats.ID))
}

func TestAssignmentSetEmpty_RemovesEverything(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	oats := h.seed.Item("Oats")
	require.NoError(t, h.assignments.Set(ctx, oats.ID, []domain.AssignmentRecord{
		{MenuType: domain.MenuWeekly, ProgramMenuID: h.vocab.WeeklyMenu.ID},
	}))

	require.NoError(t, h.assignments.Set(ctx, oats.ID, nil))
	assert.Empty(t, h.records(t, oats.ID))
	rows, err := h.assignRepo.ListLookupRows(ctx, oats.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAssignmentDedupe(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	oats := h.seed.Item("Oats")
	soup := h.seed.Item("Soup")
	a := domain.AssignmentRecord{MenuType: domain.MenuWeekly, ProgramMenuID: h.vocab.WeeklyMenu.ID, DayID: h.vocab.Monday.ID}
	b := domain.AssignmentRecord{MenuType: domain.MenuWeekly, ProgramMenuID: h.vocab.WeeklyMenu.ID, DayID: h.vocab.Tuesday.ID}
	require.NoError(t, h.assignments.Set(ctx, oats.ID, []domain.AssignmentRecord{a, b, a, a}))
	require.NoError(t, h.assignments.Set(ctx, soup.ID, []domain.AssignmentRecord{a, b}))

	res, err := h.assignments.Dedupe(ctx)
	require.NoError(t, err)
	assert.Equal(t, &DedupeResult{ItemsChanged: 1, RecordsRemoved: 2}, res)
	assert.Equal(t, []domain.AssignmentRecord{a, b}, h.records(t, oats.ID))

	rows, err := h.assignRepo.ListLookupRows(ctx, oats.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestAssignmentRemoveAll(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	rec := domain.AssignmentRecord{MenuType: domain.MenuWeekly, ProgramMenuID: h.vocab.WeeklyMenu.ID}
	for _, title := range []string{"Oats", "Soup", "Bread"} {
		item := h.seed.Item(title)
		require.NoError(t, h.assignments.Set(ctx, item.ID, []domain.AssignmentRecord{rec}))
	}

	n, err := h.assignments.RemoveAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	ids, err := h.assignRepo.ItemIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	res, err := h.queries.FindItems(ctx, query.Query{ProgramMenuID: h.vocab.WeeklyMenu.ID})
	require.NoError(t, err)
	assert.Empty(t, res.ItemIDs)
}

func TestAssignmentRebuildIndex(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	oats := h.seed.Item("Oats")
	rec := domain.AssignmentRecord{MenuType: domain.MenuWeekly, ProgramMenuID: h.vocab.WeeklyMenu.ID}
	require.NoError(t, h.assignments.Set(ctx, oats.ID, []domain.AssignmentRecord{rec}))

	_, err := h.db.Exec(`DELETE FROM ` + db.LookupTable)
	require.NoError(t, err)
	ok, err := h.assignRepo.IndexAvailable(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	n, err := h.assignments.RebuildIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	ok, err = h.assignRepo.IndexAvailable(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAssignmentMenuStats(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	oats := h.seed.Item("Oats")
	soup := h.seed.Item("Soup")
	weekly := domain.AssignmentRecord{MenuType: domain.MenuWeekly, ProgramMenuID: h.vocab.WeeklyMenu.ID}
	monday := weekly
	monday.DayID = h.vocab.Monday.ID
	require.NoError(t, h.assignments.Set(ctx, oats.ID, []domain.AssignmentRecord{weekly, monday}))
	require.NoError(t, h.assignments.Set(ctx, soup.ID, []domain.AssignmentRecord{weekly}))

	stats, err := h.assignments.MenuStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	byMenu := map[int64]MenuStat{}
	for _, s := range stats {
		byMenu[s.Menu.ID] = s
	}
	assert.Equal(t, 2, byMenu[h.vocab.WeeklyMenu.ID].Items)
	assert.Equal(t, 3, byMenu[h.vocab.WeeklyMenu.ID].Assignments)
	assert.Equal(t, domain.MenuWeekly, byMenu[h.vocab.WeeklyMenu.ID].MenuType)
	assert.Equal(t, 0, byMenu[h.vocab.MonthlyMenu.ID].Items)
	assert.Equal(t, domain.MenuMonthly, byMenu[h.vocab.MonthlyMenu.ID].MenuType)
}

func TestAssignmentSet_InvalidationFailureKeepsCommittedWrite(t *testing.T) {
	h := newHarness(t, withInvalidateHook(func(context.Context) error {
		return errors.New("cache unavailable")
	}))
	ctx := context.Background()
	oats := h.seed.Item("Oats")
	rec := domain.AssignmentRecord{MenuType: domain.MenuWeekly, ProgramMenuID: h.vocab.WeeklyMenu.ID}

	require.NoError(t, h.assignments.Set(ctx, oats.ID, []domain.AssignmentRecord{rec}))
	assert.Equal(t, []domain.AssignmentRecord{rec}, h.records(t, oats.ID))
	assert.Equal(t, 1.0, promtest.ToFloat64(h.metrics.InvalidationErrors))

	events := h.observer.named("assignments.set")
	require.Len(t, events, 1)
	assert.True(t, events[0].Success)
	assert.Equal(t, "invalidating query cache: cache unavailable", events[0].Fields["invalidate_error"])

	_, err := h.assignments.ClearCache(ctx)
	require.Error(t, err, "an explicit clear still reports the failure")
}

func TestAssignmentClearCache(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.cache.Set(ctx, query.CachePrefix+"a", []byte("[]")))
	require.NoError(t, h.cache.Set(ctx, "other:b", []byte("[]")))

	n, err := h.assignments.ClearCache(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, ok, err := h.cache.Get(ctx, "other:b")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAssignmentService_NilMetricsIsNoop(t *testing.T) {
	database := testutil.NewTestDB(t)
	seed := testutil.NewSeed(t, database)
	vocab := seed.Vocabulary()
	oats := seed.Item("Oats")

	var m *metrics.Metrics
	repo := repository.NewSQLiteAssignmentRepo(database)
	svc := NewAssignmentService(repo, repository.NewSQLiteTermRepo(database), testutil.NewTestUoW(database), nil, m)
	require.NoError(t, svc.Set(context.Background(), oats.ID, []domain.AssignmentRecord{
		{MenuType: domain.MenuWeekly, ProgramMenuID: vocab.WeeklyMenu.ID},
	}))
	_, err := svc.ClearCache(context.Background())
	require.NoError(t, err)
}
