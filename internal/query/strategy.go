package query

import (
	"context"
	"fmt"
	"sort"

	"github.com/alexanderramin/menuplan/internal/db"
	"github.com/alexanderramin/menuplan/internal/domain"
)

const (
	TierCache = "cache"
	TierIndex = "index"
	TierScan  = "scan"
)

// Strategy is one way of answering a query.
type Strategy interface {
	Name() string
	Available(ctx context.Context) (bool, error)
	FindItems(ctx context.Context, conds []Condition) ([]int64, error)
}

type indexChecker interface {
	IndexAvailable(ctx context.Context) (bool, error)
}

// IndexStrategy filters the lookup table in SQL.
type IndexStrategy struct {
	db    db.DBTX
	check indexChecker
}

func NewIndexStrategy(conn db.DBTX, check indexChecker) *IndexStrategy {
	return &IndexStrategy{db: conn, check: check}
}

func (s *IndexStrategy) Name() string { return TierIndex }

func (s *IndexStrategy) Available(ctx context.Context) (bool, error) {
	return s.check.IndexAvailable(ctx)
}

func (s *IndexStrategy) FindItems(ctx context.Context, conds []Condition) ([]int64, error) {
	where, args := Where(conds)
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT item_id FROM `+db.LookupTable+` WHERE `+where+` ORDER BY item_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying lookup index: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning item id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lookup index: %w", err)
	}
	return ids, nil
}

type mirrorLister interface {
	ListMirrors(ctx context.Context) ([]domain.ItemMirror, error)
}

// ScanStrategy decodes every item's mirror and evaluates the predicate in
// process. It is always available.
type ScanStrategy struct {
	mirrors mirrorLister
}

func NewScanStrategy(mirrors mirrorLister) *ScanStrategy {
	return &ScanStrategy{mirrors: mirrors}
}

func (s *ScanStrategy) Name() string { return TierScan }

func (s *ScanStrategy) Available(context.Context) (bool, error) { return true, nil }

func (s *ScanStrategy) FindItems(ctx context.Context, conds []Condition) ([]int64, error) {
	mirrors, err := s.mirrors.ListMirrors(ctx)
	if err != nil {
		return nil, err
	}
	ids := []int64{}
	for _, m := range mirrors {
		for _, e := range m.Entries {
			if MatchAll(conds, e.Slot()) {
				ids = append(ids, m.ItemID)
				break
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Occurrences lists every matching record, duplicates included, in item
// then sequence order.
func (s *ScanStrategy) Occurrences(ctx context.Context, conds []Condition) ([]domain.Occurrence, error) {
	mirrors, err := s.mirrors.ListMirrors(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.Occurrence
	for _, m := range mirrors {
		for i, e := range m.Entries {
			if MatchAll(conds, e.Slot()) {
				out = append(out, domain.Occurrence{ItemID: m.ItemID, Ordinal: i, Record: e})
			}
		}
	}
	return out, nil
}
