package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/menuplan/internal/domain"
	"github.com/alexanderramin/menuplan/internal/metrics"
	"github.com/alexanderramin/menuplan/internal/query"
	"github.com/alexanderramin/menuplan/internal/repository"
)

type queryService struct {
	resolver    *query.Resolver
	scan        *query.ScanStrategy
	assignments repository.AssignmentRepo
	items       repository.ItemRepo
	terms       repository.TermRepo
	metrics     *metrics.Metrics
	observer    UseCaseObserver
}

func NewQueryService(
	resolver *query.Resolver,
	scan *query.ScanStrategy,
	assignments repository.AssignmentRepo,
	items repository.ItemRepo,
	terms repository.TermRepo,
	m *metrics.Metrics,
	observers ...UseCaseObserver,
) QueryService {
	return &queryService{
		resolver:    resolver,
		scan:        scan,
		assignments: assignments,
		items:       items,
		terms:       terms,
		metrics:     m,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *queryService) FindItems(ctx context.Context, q query.Query) (res *query.Result, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"program_menu": q.ProgramMenuID,
		"week":         q.WeekID,
		"day":          q.DayID,
		"meal":         q.MealID,
	}
	defer func() { observe(ctx, s.observer, "query.find_items", startedAt, err, fields) }()

	res, err = s.resolver.FindItems(ctx, q)
	if err != nil {
		return nil, err
	}
	s.metrics.Query(res.Tier, time.Since(startedAt))
	fields["tier"] = res.Tier
	fields["items"] = len(res.ItemIDs)
	return res, nil
}

func (s *queryService) ItemHasMenu(ctx context.Context, itemID, menuID int64, menuType domain.MenuType) (bool, error) {
	records, err := s.assignments.Get(ctx, itemID)
	if err != nil {
		return false, err
	}
	for _, r := range records {
		if r.ProgramMenuID == menuID && (menuType == "" || r.MenuType == menuType) {
			return true, nil
		}
	}
	return false, nil
}

func (s *queryService) Occurrences(ctx context.Context, q query.Query, allWeeks bool) ([]domain.Occurrence, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	conds := query.Conditions(q)
	if allWeeks {
		conds = query.AnyWeek(conds)
	}
	return s.scan.Occurrences(ctx, conds)
}

// MenuTotal sums the price of every occurrence on a menu. Monthly menus
// count every week. Items that no longer exist are ignored.
func (s *queryService) MenuTotal(ctx context.Context, menuID int64) (total *MenuTotal, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		observe(ctx, s.observer, "query.menu_total", startedAt, err, map[string]any{"program_menu": menuID})
	}()

	menu, err := s.terms.GetByID(ctx, menuID)
	if err != nil {
		return nil, err
	}
	if menu.Taxonomy != domain.TaxonomyProgramMenu {
		return nil, fmt.Errorf("term %d is a %s, not a program menu", menuID, menu.Taxonomy)
	}
	mt := menu.EffectiveMenuType()

	occ, err := s.Occurrences(ctx, query.Query{ProgramMenuID: menuID}, mt == domain.MenuMonthly)
	if err != nil {
		return nil, err
	}

	total = &MenuTotal{Menu: *menu, MenuType: mt}
	cache := make(map[int64]*domain.Item)
	for _, o := range occ {
		item, seen := cache[o.ItemID]
		if !seen {
			item, err = s.items.GetByID(ctx, o.ItemID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			cache[o.ItemID] = item
		}
		if item == nil {
			continue
		}
		total.Occurrences++
		total.Total += layoutPrice(item, o.Record.MenuType)
	}
	for _, item := range cache {
		if item != nil {
			total.Items++
		}
	}
	return total, nil
}
