package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress draws done out of total as a bar like [████░░░░] 4/8.
// The bar turns green once the run is complete.
func RenderProgress(done, total, width int) string {
	width = max(width, 2)
	filled := 0
	if total > 0 {
		filled = min(done*width/total, width)
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleYellow
	if total > 0 && done >= total {
		style = StyleGreen
	}
	return fmt.Sprintf("[%s] %d/%d", style.Render(bar), done, total)
}
