package formatter

import (
	"testing"

	"github.com/alexanderramin/menuplan/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFormatAssignments(t *testing.T) {
	names := NewTermNames([]domain.Term{
		{ID: 1, Name: "Menu B"},
		{ID: 2, Name: "Week 2"},
		{ID: 3, Name: "Monday"},
	})
	item := &domain.Item{ID: 9, Title: "Oats"}
	out := FormatAssignments(item, []domain.AssignmentRecord{
		{MenuType: domain.MenuMonthly, ProgramMenuID: 1, WeekID: 2, DayID: 3},
	}, names)

	assert.Contains(t, out, "Oats")
	assert.Contains(t, out, "#9")
	assert.Contains(t, out, "Menu B")
	assert.Contains(t, out, "Week 2")
	assert.Contains(t, out, "Monday")
	assert.Contains(t, out, "any")

	assert.Contains(t, FormatAssignments(item, nil, names), "No menu assignments")
}

func TestFormatMenuStats(t *testing.T) {
	out := FormatMenuStats([]MenuStatRow{{ID: 1, Name: "Menu A", MenuType: domain.MenuWeekly, Items: 3, Assignments: 5}})
	assert.Contains(t, out, "Menu A")
	assert.Contains(t, out, "weekly")
	assert.Contains(t, out, "5")
}
