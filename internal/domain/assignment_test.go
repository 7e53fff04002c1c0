package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		record  AssignmentRecord
		wantErr bool
	}{
		{"weekly without week", AssignmentRecord{MenuType: MenuWeekly, ProgramMenuID: 1, DayID: 2}, false},
		{"monthly with week", AssignmentRecord{MenuType: MenuMonthly, ProgramMenuID: 1, WeekID: 3, DayID: 2}, false},
		{"weekly with week", AssignmentRecord{MenuType: MenuWeekly, ProgramMenuID: 1, WeekID: 3}, true},
		{"missing program", AssignmentRecord{MenuType: MenuWeekly}, true},
		{"unknown type", AssignmentRecord{MenuType: "daily", ProgramMenuID: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidAssignment)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestContainsAssignment_MissingFieldsCompareAsEmpty(t *testing.T) {
	existing := []AssignmentRecord{
		{MenuType: MenuMonthly, ProgramMenuID: 1, WeekID: 2, DayID: 3},
	}

	assert.True(t, ContainsAssignment(existing, AssignmentRecord{MenuType: MenuMonthly, ProgramMenuID: 1, WeekID: 2, DayID: 3}))
	// A record with a meal is not the same as one without.
	assert.False(t, ContainsAssignment(existing, AssignmentRecord{MenuType: MenuMonthly, ProgramMenuID: 1, WeekID: 2, DayID: 3, MealID: 4}))
	assert.False(t, ContainsAssignment(existing, AssignmentRecord{MenuType: MenuWeekly, ProgramMenuID: 1, DayID: 3}))
}

func TestMirror_RenamesFields(t *testing.T) {
	mirror := Mirror([]AssignmentRecord{
		{MenuType: MenuMonthly, ProgramMenuID: 10, WeekID: 20, DayID: 30, MealID: 40},
		{MenuType: MenuWeekly, ProgramMenuID: 11, DayID: 31},
	})

	require.Len(t, mirror, 2)
	assert.Equal(t, MirrorEntry{MenuType: MenuMonthly, Program: 10, Week: 20, Day: 30, Meal: 40}, mirror[0])
	assert.Equal(t, MirrorEntry{MenuType: MenuWeekly, Program: 11, Day: 31}, mirror[1])
}

func TestLookupRows_OrdinalsFollowSequence(t *testing.T) {
	rows := LookupRows(7, []AssignmentRecord{
		{MenuType: MenuWeekly, ProgramMenuID: 1, DayID: 2},
		{MenuType: MenuWeekly, ProgramMenuID: 1, DayID: 3, MealID: 4},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, LookupRow{ItemID: 7, Slot: Slot{ProgramMenuID: 1, DayID: 2}, Ordinal: 0}, rows[0])
	assert.Equal(t, LookupRow{ItemID: 7, Slot: Slot{ProgramMenuID: 1, DayID: 3, MealID: 4}, Ordinal: 1}, rows[1])
}

func TestDedupe_KeepsFirstOccurrence(t *testing.T) {
	a := AssignmentRecord{MenuType: MenuWeekly, ProgramMenuID: 1, DayID: 2}
	b := AssignmentRecord{MenuType: MenuWeekly, ProgramMenuID: 1, DayID: 3}

	out, removed := Dedupe([]AssignmentRecord{a, b, a, a})

	assert.Equal(t, []AssignmentRecord{a, b}, out)
	assert.Equal(t, 2, removed)
}
