package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/menuplan/internal/domain"
)

// Term options
type TermOption func(*domain.Term)

func WithMenuType(mt domain.MenuType) TermOption {
	return func(t *domain.Term) {
		t.MenuType = mt
	}
}

func NewTestTerm(name string, taxonomy domain.Taxonomy, opts ...TermOption) *domain.Term {
	t := &domain.Term{Name: name, Taxonomy: taxonomy}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Item options
type ItemOption func(*domain.Item)

func WithStatus(s domain.ItemStatus) ItemOption {
	return func(i *domain.Item) {
		i.Status = s
	}
}

func WithPrice(p float64) ItemOption {
	return func(i *domain.Item) {
		i.Price = p
	}
}

func WithLayoutPrices(weekly, monthly float64) ItemOption {
	return func(i *domain.Item) {
		i.WeeklyPrice = &weekly
		i.MonthlyPrice = &monthly
	}
}

func NewTestItem(title string, opts ...ItemOption) *domain.Item {
	i := &domain.Item{Title: title, Status: domain.ItemPublished}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Seed inserts terms and items with plain SQL and fails the test on error.
// It bypasses the repositories so repository tests can use it too.
type Seed struct {
	t  *testing.T
	db *sql.DB
}

func NewSeed(t *testing.T, database *sql.DB) *Seed {
	return &Seed{t: t, db: database}
}

func (s *Seed) Term(name string, taxonomy domain.Taxonomy, opts ...TermOption) *domain.Term {
	s.t.Helper()
	term := NewTestTerm(name, taxonomy, opts...)
	res, err := s.db.Exec(
		`INSERT INTO terms (name, taxonomy, menu_type, created_at) VALUES (?, ?, ?, '2025-01-01T00:00:00Z')`,
		term.Name, string(term.Taxonomy), string(term.MenuType))
	if err != nil {
		s.t.Fatalf("seeding term %q: %v", name, err)
	}
	term.ID, _ = res.LastInsertId()
	return term
}

func (s *Seed) Item(title string, opts ...ItemOption) *domain.Item {
	s.t.Helper()
	item := NewTestItem(title, opts...)
	res, err := s.db.Exec(
		`INSERT INTO items (title, status, price, weekly_price, monthly_price, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`,
		item.Title, string(item.Status), item.Price, floatOrNil(item.WeeklyPrice), floatOrNil(item.MonthlyPrice))
	if err != nil {
		s.t.Fatalf("seeding item %q: %v", title, err)
	}
	item.ID, _ = res.LastInsertId()
	return item
}

func floatOrNil(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

// Vocabulary is the standard set of terms used by import tests.
type Vocabulary struct {
	WeeklyMenu  *domain.Term
	MonthlyMenu *domain.Term
	Week2       *domain.Term
	Monday      *domain.Term
	Tuesday     *domain.Term
	Breakfast   *domain.Term
	Dinner      *domain.Term
}

// Vocabulary seeds one weekly and one monthly program, a week, two days,
// breakfast and the Greek-spelled dinner term.
func (s *Seed) Vocabulary() Vocabulary {
	s.t.Helper()
	return Vocabulary{
		WeeklyMenu:  s.Term("Menu A", domain.TaxonomyProgramMenu, WithMenuType(domain.MenuWeekly)),
		MonthlyMenu: s.Term("Menu B", domain.TaxonomyProgramMenu, WithMenuType(domain.MenuMonthly)),
		Week2:       s.Term("Week 2", domain.TaxonomyWeek),
		Monday:      s.Term("Monday", domain.TaxonomyWeekday),
		Tuesday:     s.Term("Tuesday", domain.TaxonomyWeekday),
		Breakfast:   s.Term("Breakfast", domain.TaxonomyMealtime),
		Dinner:      s.Term("Βραδινό", domain.TaxonomyMealtime),
	}
}
