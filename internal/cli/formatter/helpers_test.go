package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/menuplan/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestHumanTimestamp(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"just now", now.Add(-10 * time.Second), "Just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-48 * time.Hour), "Feb 5, 2026"},
		{"future", now.Add(2 * time.Hour), "Feb 7, 2026 14:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HumanTimestamp(tt.input, now))
		})
	}
}

func TestTermNames(t *testing.T) {
	names := NewTermNames([]domain.Term{{ID: 1, Name: "Menu A"}, {ID: 2, Name: "Monday"}})

	assert.Equal(t, "Menu A", names.Name(1))
	assert.Contains(t, names.Name(0), "--")
	assert.Contains(t, names.Name(9), "#9")
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "4.50 €", FormatPrice(4.5))
	p := 12.0
	assert.Equal(t, "12.00 €", FormatOptionalPrice(&p))
	assert.Contains(t, FormatOptionalPrice(nil), "--")
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable([]string{"ID", "Name"}, [][]string{{"1", "Oats"}, {"22", "Chicken Soup"}})
	assert.Contains(t, out, "Chicken Soup")
	assert.Contains(t, out, "1   Oats")
	assert.Contains(t, out, "22  Chicken Soup")
	assert.Equal(t, "", RenderTable(nil, nil))
}
