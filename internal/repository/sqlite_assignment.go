package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/menuplan/internal/db"
	"github.com/alexanderramin/menuplan/internal/domain"
)

// SQLiteAssignmentRepo stores each item's canonical sequence as a JSON
// array, a flat JSON mirror beside it, and one lookup row per indexed
// record.
type SQLiteAssignmentRepo struct {
	db db.DBTX
}

func NewSQLiteAssignmentRepo(conn db.DBTX) *SQLiteAssignmentRepo {
	return &SQLiteAssignmentRepo{db: conn}
}

// Get returns the canonical sequence. Items without data yield an empty
// slice, not an error.
func (r *SQLiteAssignmentRepo) Get(ctx context.Context, itemID int64) ([]domain.AssignmentRecord, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT records FROM item_assignments WHERE item_id = ?`, itemID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []domain.AssignmentRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading assignments for item %d: %w", itemID, err)
	}
	var records []domain.AssignmentRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("decoding assignments for item %d: %w", itemID, err)
	}
	if records == nil {
		records = []domain.AssignmentRecord{}
	}
	return records, nil
}

func (r *SQLiteAssignmentRepo) Set(ctx context.Context, itemID int64, records []domain.AssignmentRecord) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM menu_assignment_lookup WHERE item_id = ?`, itemID); err != nil {
		return fmt.Errorf("clearing lookup rows for item %d: %w", itemID, err)
	}

	if len(records) == 0 {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM item_assignments WHERE item_id = ?`, itemID); err != nil {
			return fmt.Errorf("clearing assignments for item %d: %w", itemID, err)
		}
		if _, err := r.db.ExecContext(ctx, `DELETE FROM item_assignment_mirror WHERE item_id = ?`, itemID); err != nil {
			return fmt.Errorf("clearing mirror for item %d: %w", itemID, err)
		}
		return nil
	}

	canonical, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding assignments: %w", err)
	}
	mirror, err := json.Marshal(domain.Mirror(records))
	if err != nil {
		return fmt.Errorf("encoding mirror: %w", err)
	}

	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO item_assignments (item_id, records, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(item_id) DO UPDATE SET records = excluded.records, updated_at = excluded.updated_at`,
		itemID, string(canonical), nowUTC()); err != nil {
		return fmt.Errorf("writing assignments for item %d: %w", itemID, err)
	}
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO item_assignment_mirror (item_id, entries) VALUES (?, ?)
		ON CONFLICT(item_id) DO UPDATE SET entries = excluded.entries`,
		itemID, string(mirror)); err != nil {
		return fmt.Errorf("writing mirror for item %d: %w", itemID, err)
	}

	for _, lr := range domain.LookupRows(itemID, records) {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO menu_assignment_lookup (item_id, program_menu_id, week_id, day_id, meal_id, ordinal)
			VALUES (?, ?, ?, ?, ?, ?)`,
			lr.ItemID,
			lr.Slot.ProgramMenuID,
			nullableID(lr.Slot.WeekID),
			nullableID(lr.Slot.DayID),
			nullableID(lr.Slot.MealID),
			lr.Ordinal,
		); err != nil {
			return fmt.Errorf("indexing item %d: %w", itemID, err)
		}
	}
	return nil
}

// ItemIDs lists every item that has assignment data, ascending.
func (r *SQLiteAssignmentRepo) ItemIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT item_id FROM item_assignments ORDER BY item_id`)
	if err != nil {
		return nil, fmt.Errorf("listing assigned items: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning item id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assigned items: %w", err)
	}
	return ids, nil
}

// ListMirrors decodes every stored mirror, ordered by item id. A mirror
// that fails to decode is treated as empty.
func (r *SQLiteAssignmentRepo) ListMirrors(ctx context.Context) ([]domain.ItemMirror, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT item_id, entries FROM item_assignment_mirror ORDER BY item_id`)
	if err != nil {
		return nil, fmt.Errorf("listing mirrors: %w", err)
	}
	defer rows.Close()

	var mirrors []domain.ItemMirror
	for rows.Next() {
		var (
			m   domain.ItemMirror
			raw string
		)
		if err := rows.Scan(&m.ItemID, &raw); err != nil {
			return nil, fmt.Errorf("scanning mirror: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &m.Entries); err != nil {
			m.Entries = nil
		}
		mirrors = append(mirrors, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating mirrors: %w", err)
	}
	return mirrors, nil
}

func (r *SQLiteAssignmentRepo) ListLookupRows(ctx context.Context, itemID int64) ([]domain.LookupRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT item_id, program_menu_id, week_id, day_id, meal_id, ordinal
		FROM menu_assignment_lookup WHERE item_id = ? ORDER BY ordinal`, itemID)
	if err != nil {
		return nil, fmt.Errorf("listing lookup rows: %w", err)
	}
	defer rows.Close()

	var out []domain.LookupRow
	for rows.Next() {
		var (
			lr              domain.LookupRow
			week, day, meal sql.NullInt64
		)
		if err := rows.Scan(&lr.ItemID, &lr.Slot.ProgramMenuID, &week, &day, &meal, &lr.Ordinal); err != nil {
			return nil, fmt.Errorf("scanning lookup row: %w", err)
		}
		lr.Slot.WeekID = idFromNull(week)
		lr.Slot.DayID = idFromNull(day)
		lr.Slot.MealID = idFromNull(meal)
		out = append(out, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lookup rows: %w", err)
	}
	return out, nil
}

// DeleteAll removes every item's assignment data and returns how many
// items had some.
func (r *SQLiteAssignmentRepo) DeleteAll(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM item_assignments`)
	if err != nil {
		return 0, fmt.Errorf("deleting assignments: %w", err)
	}
	n, _ := res.RowsAffected()
	if _, err := r.db.ExecContext(ctx, `DELETE FROM item_assignment_mirror`); err != nil {
		return 0, fmt.Errorf("deleting mirrors: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM menu_assignment_lookup`); err != nil {
		return 0, fmt.Errorf("deleting lookup rows: %w", err)
	}
	return int(n), nil
}

func (r *SQLiteAssignmentRepo) IndexAvailable(ctx context.Context) (bool, error) {
	var name string
	err := r.db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, db.LookupTable).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking lookup table: %w", err)
	}

	var populated int
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM menu_assignment_lookup)`).Scan(&populated); err != nil {
		return false, fmt.Errorf("checking lookup rows: %w", err)
	}
	return populated == 1, nil
}
