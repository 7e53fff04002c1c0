package domain

import (
	"errors"
	"fmt"
)

// AssignmentRecord places an item in one slot of a menu program. ID fields
// use 0 for "absent". An absent MealID applies to every meal of the day.
type AssignmentRecord struct {
	MenuType      MenuType `json:"menu_type"`
	ProgramMenuID int64    `json:"program_menu"`
	WeekID        int64    `json:"week,omitempty"`
	DayID         int64    `json:"day,omitempty"`
	MealID        int64    `json:"meal,omitempty"`
}

var ErrInvalidAssignment = errors.New("invalid assignment")

// Validate checks the structural invariants of a single record.
func (a AssignmentRecord) Validate() error {
	if a.MenuType != MenuWeekly && a.MenuType != MenuMonthly {
		return fmt.Errorf("%w: menu type %q", ErrInvalidAssignment, a.MenuType)
	}
	if a.ProgramMenuID <= 0 {
		return fmt.Errorf("%w: program menu is required", ErrInvalidAssignment)
	}
	if a.WeekID != 0 && a.MenuType != MenuMonthly {
		return fmt.Errorf("%w: week is only allowed on monthly assignments", ErrInvalidAssignment)
	}
	return nil
}

// Equal reports whether all five fields match.
func (a AssignmentRecord) Equal(b AssignmentRecord) bool {
	return a == b
}

// ContainsAssignment reports whether records holds an exact match for r.
func ContainsAssignment(records []AssignmentRecord, r AssignmentRecord) bool {
	for _, existing := range records {
		if existing.Equal(r) {
			return true
		}
	}
	return false
}

// MirrorEntry is the flat projection of an AssignmentRecord kept per item
// for external readers. Field names follow the mirror's on-disk format.
type MirrorEntry struct {
	MenuType MenuType `json:"menu_type"`
	Program  int64    `json:"program"`
	Week     int64    `json:"week"`
	Day      int64    `json:"day"`
	Meal     int64    `json:"meal"`
}

// Mirror projects a canonical sequence into its flat mirror.
func Mirror(records []AssignmentRecord) []MirrorEntry {
	out := make([]MirrorEntry, 0, len(records))
	for _, r := range records {
		out = append(out, MirrorEntry{
			MenuType: r.MenuType,
			Program:  r.ProgramMenuID,
			Week:     r.WeekID,
			Day:      r.DayID,
			Meal:     r.MealID,
		})
	}
	return out
}

// Slot is the matchable part of an assignment, shared by lookup rows and
// mirror entries.
type Slot struct {
	ProgramMenuID int64
	WeekID        int64
	DayID         int64
	MealID        int64
}

func (m MirrorEntry) Slot() Slot {
	return Slot{ProgramMenuID: m.Program, WeekID: m.Week, DayID: m.Day, MealID: m.Meal}
}

func (a AssignmentRecord) Slot() Slot {
	return Slot{ProgramMenuID: a.ProgramMenuID, WeekID: a.WeekID, DayID: a.DayID, MealID: a.MealID}
}

// LookupRow is one row of the denormalized lookup index.
type LookupRow struct {
	ItemID  int64
	Slot    Slot
	Ordinal int
}

// LookupRows returns the index image of an item's canonical sequence.
// Records without a program menu are not indexed.
func LookupRows(itemID int64, records []AssignmentRecord) []LookupRow {
	rows := make([]LookupRow, 0, len(records))
	for i, r := range records {
		if r.ProgramMenuID == 0 {
			continue
		}
		rows = append(rows, LookupRow{ItemID: itemID, Slot: r.Slot(), Ordinal: i})
	}
	return rows
}

// Dedupe drops exact duplicates, keeping first occurrences in order.
// It returns the deduplicated sequence and the number of records removed.
func Dedupe(records []AssignmentRecord) ([]AssignmentRecord, int) {
	seen := make(map[AssignmentRecord]bool, len(records))
	out := make([]AssignmentRecord, 0, len(records))
	for _, r := range records {
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out, len(records) - len(out)
}

// ItemMirror pairs an item with its decoded mirror, as read by full scans.
type ItemMirror struct {
	ItemID  int64
	Entries []MirrorEntry
}

// Occurrence is one matching record of one item.
type Occurrence struct {
	ItemID  int64
	Ordinal int
	Record  MirrorEntry
}
