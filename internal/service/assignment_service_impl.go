package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/menuplan/internal/cache"
	"github.com/alexanderramin/menuplan/internal/db"
	"github.com/alexanderramin/menuplan/internal/domain"
	"github.com/alexanderramin/menuplan/internal/metrics"
	"github.com/alexanderramin/menuplan/internal/query"
	"github.com/alexanderramin/menuplan/internal/repository"
)

type assignmentService struct {
	assignments repository.AssignmentRepo
	terms       repository.TermRepo
	uow         db.UnitOfWork
	cache       cache.Cache
	metrics     *metrics.Metrics
	observer    UseCaseObserver
}

// NewAssignmentService wires the assignment store. Every write keeps the
// lookup rows current whether or not queries read them.
func NewAssignmentService(
	assignments repository.AssignmentRepo,
	terms repository.TermRepo,
	uow db.UnitOfWork,
	c cache.Cache,
	m *metrics.Metrics,
	observers ...UseCaseObserver,
) AssignmentService {
	if c == nil {
		c = cache.Nop{}
	}
	return &assignmentService{
		assignments: assignments,
		terms:       terms,
		uow:         uow,
		cache:       c,
		metrics:     m,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *assignmentService) Get(ctx context.Context, itemID int64) ([]domain.AssignmentRecord, error) {
	return s.assignments.Get(ctx, itemID)
}

func (s *assignmentService) Set(ctx context.Context, itemID int64, records []domain.AssignmentRecord) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"item_id": itemID, "records": len(records)}
	defer func() { observe(ctx, s.observer, "assignments.set", startedAt, err, fields) }()

	for i, r := range records {
		if verr := r.Validate(); verr != nil {
			return fmt.Errorf("record %d: %w", i, verr)
		}
	}
	if err = s.write(ctx, itemID, records); err != nil {
		return err
	}
	s.invalidateAfterWrite(ctx, fields)
	return nil
}

// write replaces the canonical sequence, mirror and lookup rows of one item
// in a single transaction.
func (s *assignmentService) write(ctx context.Context, itemID int64, records []domain.AssignmentRecord) error {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteAssignmentRepo(tx).Set(ctx, itemID, records)
	})
	if err != nil {
		return fmt.Errorf("saving assignments for item %d: %w", itemID, err)
	}
	s.metrics.AssignmentWrite()
	return nil
}

func (s *assignmentService) invalidate(ctx context.Context) (int, error) {
	n, err := s.cache.DeletePrefix(ctx, query.CachePrefix)
	if err != nil {
		return 0, fmt.Errorf("invalidating query cache: %w", err)
	}
	s.metrics.Invalidated(n)
	return n, nil
}

// invalidateAfterWrite drops cached query results once a write has
// committed. A failure here does not undo the write, so it is recorded
// rather than returned; cached entries still expire with their TTL.
func (s *assignmentService) invalidateAfterWrite(ctx context.Context, fields map[string]any) {
	n, err := s.invalidate(ctx)
	if err != nil {
		s.metrics.InvalidationFailed()
		if fields != nil {
			fields["invalidate_error"] = err.Error()
		}
		return
	}
	if fields != nil {
		fields["invalidated"] = n
	}
}

func (s *assignmentService) Append(ctx context.Context, itemID int64, record domain.AssignmentRecord) error {
	existing, err := s.assignments.Get(ctx, itemID)
	if err != nil {
		return err
	}
	return s.Set(ctx, itemID, append(existing, record))
}

// Resync rewrites the mirror and lookup rows from the canonical sequence.
func (s *assignmentService) Resync(ctx context.Context, itemID int64) error {
	records, err := s.assignments.Get(ctx, itemID)
	if err != nil {
		return err
	}
	if err := s.write(ctx, itemID, records); err != nil {
		return err
	}
	s.invalidateAfterWrite(ctx, nil)
	return nil
}

func (s *assignmentService) RebuildIndex(ctx context.Context) (n int, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		fields["items"] = n
		observe(ctx, s.observer, "assignments.rebuild_index", startedAt, err, fields)
	}()

	ids, err := s.assignments.ItemIDs(ctx)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		records, err := s.assignments.Get(ctx, id)
		if err != nil {
			return n, err
		}
		if err := s.write(ctx, id, records); err != nil {
			return n, err
		}
		n++
	}
	s.invalidateAfterWrite(ctx, fields)
	return n, nil
}

func (s *assignmentService) Dedupe(ctx context.Context) (res *DedupeResult, err error) {
	startedAt := time.Now().UTC()
	res = &DedupeResult{}
	defer func() {
		observe(ctx, s.observer, "assignments.dedupe", startedAt, err, map[string]any{
			"items_changed":   res.ItemsChanged,
			"records_removed": res.RecordsRemoved,
		})
	}()

	ids, err := s.assignments.ItemIDs(ctx)
	if err != nil {
		return res, err
	}
	for _, id := range ids {
		records, err := s.assignments.Get(ctx, id)
		if err != nil {
			return res, err
		}
		unique, removed := domain.Dedupe(records)
		if removed == 0 {
			continue
		}
		if err := s.write(ctx, id, unique); err != nil {
			return res, err
		}
		res.ItemsChanged++
		res.RecordsRemoved += removed
	}
	if res.ItemsChanged > 0 {
		s.invalidateAfterWrite(ctx, nil)
	}
	return res, nil
}

func (s *assignmentService) RemoveAll(ctx context.Context) (n int, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		observe(ctx, s.observer, "assignments.remove_all", startedAt, err, map[string]any{"items": n})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var derr error
		n, derr = repository.NewSQLiteAssignmentRepo(tx).DeleteAll(ctx)
		return derr
	})
	if err != nil {
		return 0, err
	}
	s.invalidateAfterWrite(ctx, nil)
	return n, nil
}

// MenuStats counts, per program menu, the items assigned to it and their
// records. Menus without items are included with zero counts.
func (s *assignmentService) MenuStats(ctx context.Context) ([]MenuStat, error) {
	menus, err := s.terms.List(ctx, domain.TaxonomyProgramMenu)
	if err != nil {
		return nil, err
	}
	mirrors, err := s.assignments.ListMirrors(ctx)
	if err != nil {
		return nil, err
	}

	items := make(map[int64]map[int64]bool)
	records := make(map[int64]int)
	for _, m := range mirrors {
		for _, e := range m.Entries {
			if items[e.Program] == nil {
				items[e.Program] = make(map[int64]bool)
			}
			items[e.Program][m.ItemID] = true
			records[e.Program]++
		}
	}

	stats := make([]MenuStat, 0, len(menus))
	for _, menu := range menus {
		stats = append(stats, MenuStat{
			Menu:        menu,
			MenuType:    menu.EffectiveMenuType(),
			Items:       len(items[menu.ID]),
			Assignments: records[menu.ID],
		})
	}
	return stats, nil
}

func (s *assignmentService) ClearCache(ctx context.Context) (int, error) {
	return s.invalidate(ctx)
}
