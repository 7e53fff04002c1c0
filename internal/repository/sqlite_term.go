package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/menuplan/internal/db"
	"github.com/alexanderramin/menuplan/internal/domain"
)

// SQLiteTermRepo implements TermRepo using a SQLite database.
type SQLiteTermRepo struct {
	db db.DBTX
}

func NewSQLiteTermRepo(conn db.DBTX) *SQLiteTermRepo {
	return &SQLiteTermRepo{db: conn}
}

func (r *SQLiteTermRepo) Create(ctx context.Context, t *domain.Term) error {
	if !domain.ValidTaxonomies[string(t.Taxonomy)] {
		return fmt.Errorf("creating term %q: unknown taxonomy %q", t.Name, t.Taxonomy)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO terms (name, taxonomy, menu_type, created_at) VALUES (?, ?, ?, ?)`,
		t.Name, string(t.Taxonomy), string(t.MenuType), nowUTC())
	if err != nil {
		return fmt.Errorf("inserting term: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading term id: %w", err)
	}
	t.ID = id
	return nil
}

func (r *SQLiteTermRepo) GetByID(ctx context.Context, id int64) (*domain.Term, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, taxonomy, menu_type FROM terms WHERE id = ?`, id)
	var t domain.Term
	var taxonomy, menuType string
	if err := row.Scan(&t.ID, &t.Name, &taxonomy, &menuType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("term %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning term: %w", err)
	}
	t.Taxonomy = domain.Taxonomy(taxonomy)
	t.MenuType = domain.MenuType(menuType)
	return &t, nil
}

func (r *SQLiteTermRepo) List(ctx context.Context, taxonomy domain.Taxonomy) ([]domain.Term, error) {
	query := `SELECT id, name, taxonomy, menu_type FROM terms`
	var args []any
	if taxonomy != "" {
		query += ` WHERE taxonomy = ?`
		args = append(args, string(taxonomy))
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing terms: %w", err)
	}
	defer rows.Close()

	var terms []domain.Term
	for rows.Next() {
		var t domain.Term
		var tax, menuType string
		if err := rows.Scan(&t.ID, &t.Name, &tax, &menuType); err != nil {
			return nil, fmt.Errorf("scanning term: %w", err)
		}
		t.Taxonomy = domain.Taxonomy(tax)
		t.MenuType = domain.MenuType(menuType)
		terms = append(terms, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating terms: %w", err)
	}
	return terms, nil
}

func (r *SQLiteTermRepo) SetMenuType(ctx context.Context, id int64, mt domain.MenuType) error {
	res, err := r.db.ExecContext(ctx, `UPDATE terms SET menu_type = ? WHERE id = ?`, string(mt), id)
	if err != nil {
		return fmt.Errorf("updating term menu type: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("term %d: %w", id, ErrNotFound)
	}
	return nil
}
