package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/menuplan/internal/db"
	"github.com/alexanderramin/menuplan/internal/domain"
)

// SQLiteItemRepo implements ItemRepo using a SQLite database.
type SQLiteItemRepo struct {
	db db.DBTX
}

func NewSQLiteItemRepo(conn db.DBTX) *SQLiteItemRepo {
	return &SQLiteItemRepo{db: conn}
}

const itemColumns = `id, title, status, price, weekly_price, monthly_price, created_at, updated_at`

func (r *SQLiteItemRepo) Create(ctx context.Context, item *domain.Item) error {
	if item.Status == "" {
		item.Status = domain.ItemPublished
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO items (title, status, price, weekly_price, monthly_price, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.Title,
		string(item.Status),
		item.Price,
		nullableFloat(item.WeeklyPrice),
		nullableFloat(item.MonthlyPrice),
		item.CreatedAt.Format(time.RFC3339),
		item.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading item id: %w", err)
	}
	item.ID = id
	return nil
}

func (r *SQLiteItemRepo) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("item %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning item: %w", err)
	}
	return item, nil
}

func (r *SQLiteItemRepo) List(ctx context.Context, publishedOnly bool) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items`
	if publishedOnly {
		query += ` WHERE status = 'publish'`
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}
	return items, nil
}

// UpdatePrices overwrites the per-layout prices. A nil value leaves the
// stored price unchanged.
func (r *SQLiteItemRepo) UpdatePrices(ctx context.Context, id int64, weekly, monthly *float64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE items SET
			weekly_price = COALESCE(?, weekly_price),
			monthly_price = COALESCE(?, monthly_price),
			updated_at = ?
		WHERE id = ?`,
		nullableFloat(weekly), nullableFloat(monthly), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating item prices: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(s rowScanner) (*domain.Item, error) {
	var (
		item                 domain.Item
		status               string
		weekly, monthly      sql.NullFloat64
		createdAt, updatedAt string
	)
	if err := s.Scan(&item.ID, &item.Title, &status, &item.Price, &weekly, &monthly, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	item.Status = domain.ItemStatus(status)
	item.WeeklyPrice = floatFromNull(weekly)
	item.MonthlyPrice = floatFromNull(monthly)
	item.CreatedAt = parseTime(createdAt)
	item.UpdatedAt = parseTime(updatedAt)
	return &item, nil
}
