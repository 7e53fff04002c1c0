// Package query answers "which items occupy this slot" from the lookup
// index or, when the index is unavailable, by scanning every item's mirror.
// Both paths share one predicate so they cannot disagree.
package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/menuplan/internal/domain"
)

var ErrMenuRequired = errors.New("program menu is required")

// Query selects a slot. Zero ids mean "not given".
type Query struct {
	ProgramMenuID int64 `json:"program_menu"`
	WeekID        int64 `json:"week,omitempty"`
	DayID         int64 `json:"day,omitempty"`
	MealID        int64 `json:"meal,omitempty"`
}

func (q Query) Validate() error {
	if q.ProgramMenuID <= 0 {
		return ErrMenuRequired
	}
	return nil
}

type Field string

const (
	FieldProgramMenu Field = "program_menu_id"
	FieldWeek        Field = "week_id"
	FieldDay         Field = "day_id"
	FieldMeal        Field = "meal_id"
)

type Op int

const (
	// OpEqual requires the stored id to equal Value.
	OpEqual Op = iota
	// OpIsNull requires the stored id to be absent.
	OpIsNull
	// OpNullOrEqual accepts an absent stored id or one equal to Value.
	OpNullOrEqual
)

type Condition struct {
	Field Field
	Op    Op
	Value int64
}

// Conditions is the matching rule for a query:
//
//   - program menu must be equal;
//   - week must be equal when given, and absent when not;
//   - day must be equal when given;
//   - meal must be equal or absent when given, since an assignment
//     without a meal covers every meal of its day.
func Conditions(q Query) []Condition {
	conds := []Condition{{Field: FieldProgramMenu, Op: OpEqual, Value: q.ProgramMenuID}}
	if q.WeekID != 0 {
		conds = append(conds, Condition{Field: FieldWeek, Op: OpEqual, Value: q.WeekID})
	} else {
		conds = append(conds, Condition{Field: FieldWeek, Op: OpIsNull})
	}
	if q.DayID != 0 {
		conds = append(conds, Condition{Field: FieldDay, Op: OpEqual, Value: q.DayID})
	}
	if q.MealID != 0 {
		conds = append(conds, Condition{Field: FieldMeal, Op: OpNullOrEqual, Value: q.MealID})
	}
	return conds
}

// AnyWeek drops the week condition, so records of every week match.
func AnyWeek(conds []Condition) []Condition {
	out := make([]Condition, 0, len(conds))
	for _, c := range conds {
		if c.Field != FieldWeek {
			out = append(out, c)
		}
	}
	return out
}

func (c Condition) field(s domain.Slot) int64 {
	switch c.Field {
	case FieldProgramMenu:
		return s.ProgramMenuID
	case FieldWeek:
		return s.WeekID
	case FieldDay:
		return s.DayID
	case FieldMeal:
		return s.MealID
	}
	return 0
}

// Matches evaluates the condition against a stored slot.
func (c Condition) Matches(s domain.Slot) bool {
	v := c.field(s)
	switch c.Op {
	case OpEqual:
		return v == c.Value
	case OpIsNull:
		return v == 0
	case OpNullOrEqual:
		return v == 0 || v == c.Value
	}
	return false
}

// SQL renders the condition as a WHERE fragment over the lookup table.
func (c Condition) SQL() (string, []any) {
	switch c.Op {
	case OpEqual:
		return fmt.Sprintf("%s = ?", c.Field), []any{c.Value}
	case OpIsNull:
		return fmt.Sprintf("%s IS NULL", c.Field), nil
	case OpNullOrEqual:
		return fmt.Sprintf("(%s IS NULL OR %s = ?)", c.Field, c.Field), []any{c.Value}
	}
	return "0", nil
}

// MatchAll reports whether s satisfies every condition.
func MatchAll(conds []Condition, s domain.Slot) bool {
	for _, c := range conds {
		if !c.Matches(s) {
			return false
		}
	}
	return true
}

// Where joins the conditions into one WHERE clause body.
func Where(conds []Condition) (string, []any) {
	if len(conds) == 0 {
		return "1", nil
	}
	parts := make([]string, 0, len(conds))
	var args []any
	for _, c := range conds {
		frag, a := c.SQL()
		parts = append(parts, frag)
		args = append(args, a...)
	}
	return strings.Join(parts, " AND "), args
}
