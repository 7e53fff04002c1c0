package repository

import (
	"context"

	"github.com/alexanderramin/menuplan/internal/domain"
)

type TermRepo interface {
	Create(ctx context.Context, t *domain.Term) error
	GetByID(ctx context.Context, id int64) (*domain.Term, error)
	// List returns terms ordered by id. An empty taxonomy lists every term.
	List(ctx context.Context, taxonomy domain.Taxonomy) ([]domain.Term, error)
	SetMenuType(ctx context.Context, id int64, mt domain.MenuType) error
}

type ItemRepo interface {
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
	List(ctx context.Context, publishedOnly bool) ([]domain.Item, error)
	UpdatePrices(ctx context.Context, id int64, weekly, monthly *float64) error
}

// AssignmentRepo persists the canonical per-item sequence together with
// its derived mirror and lookup rows. Run Set inside a unit of work so the
// three stay consistent.
type AssignmentRepo interface {
	Get(ctx context.Context, itemID int64) ([]domain.AssignmentRecord, error)
	// Set replaces an item's sequence, mirror and lookup rows.
	Set(ctx context.Context, itemID int64, records []domain.AssignmentRecord) error
	ItemIDs(ctx context.Context) ([]int64, error)
	ListMirrors(ctx context.Context) ([]domain.ItemMirror, error)
	ListLookupRows(ctx context.Context, itemID int64) ([]domain.LookupRow, error)
	DeleteAll(ctx context.Context) (int, error)
	// IndexAvailable reports whether the lookup table exists and holds rows.
	IndexAvailable(ctx context.Context) (bool, error)
}
