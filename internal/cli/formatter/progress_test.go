package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name       string
		done       int
		total      int
		wantFilled int
		wantSuffix string
	}{
		{"empty", 0, 10, 0, "0/10"},
		{"half", 5, 10, 5, "5/10"},
		{"complete", 10, 10, 10, "10/10"},
		{"overshoot clamps", 12, 10, 10, "12/10"},
		{"no rows", 0, 0, 0, "0/0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderProgress(tt.done, tt.total, 10)
			assert.Equal(t, tt.wantFilled, strings.Count(out, filledBlock))
			assert.Equal(t, 10-tt.wantFilled, strings.Count(out, emptyBlock))
			assert.True(t, strings.HasSuffix(out, tt.wantSuffix), out)
		})
	}
}
