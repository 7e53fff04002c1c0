package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/menuplan/internal/domain"
	"github.com/alexanderramin/menuplan/internal/importer"
)

// FormatValidationReport renders a pre-flight report with its verdict.
func FormatValidationReport(r *importer.ValidationReport) string {
	var b strings.Builder
	b.WriteString(Header("Validation"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Rows:      %d (%d valid)\n", r.TotalRows, r.ValidRows)
	fmt.Fprintf(&b, "Products:  %d found, %d missing\n", r.ProductsFound, r.ProductsMissing)

	if len(r.MissingProducts) > 0 {
		b.WriteString("\n" + Bold("Missing products") + "\n")
		for _, name := range r.MissingProducts {
			b.WriteString("  " + StyleRed.Render("✖ ") + name + "\n")
		}
	}

	if r.MissingTermCount() > 0 {
		b.WriteString("\n" + Bold("Missing terms") + "\n")
		taxonomies := make([]string, 0, len(r.MissingTerms))
		for tax := range r.MissingTerms {
			taxonomies = append(taxonomies, string(tax))
		}
		sort.Strings(taxonomies)
		for _, tax := range taxonomies {
			names := r.MissingTerms[domain.Taxonomy(tax)]
			if len(names) == 0 {
				continue
			}
			fmt.Fprintf(&b, "  %s %s\n", Dim(tax+":"), strings.Join(names, ", "))
		}
	}

	if len(r.DataIssues) > 0 {
		b.WriteString("\n" + Bold("Data issues") + "\n")
		for _, issue := range r.DataIssues {
			b.WriteString("  " + StyleYellow.Render("! ") + issue + "\n")
		}
	}

	b.WriteString("\n")
	if r.ReadyToImport {
		b.WriteString(StyleGreen.Render("✔ Ready to import"))
	} else {
		b.WriteString(StyleRed.Render("✖ Not ready to import"))
	}
	b.WriteString("\n")
	return b.String()
}

// FormatStats renders import counters as a two-column table.
func FormatStats(s domain.ImportStats) string {
	rows := [][]string{
		{"Products found", fmt.Sprint(s.ItemsFound)},
		{"Products not found", fmt.Sprint(s.ItemsNotFound)},
		{"Assignments created", fmt.Sprint(s.AssignmentsCreated)},
		{"Already existing", fmt.Sprint(s.AssignmentsExisting)},
		{"Rows skipped", fmt.Sprint(s.RowsSkipped)},
		{"Errors", errorCount(s.Errors)},
	}
	return RenderTable([]string{"Outcome", "Count"}, rows)
}

func errorCount(n int) string {
	if n > 0 {
		return StyleRed.Render(fmt.Sprint(n))
	}
	return fmt.Sprint(n)
}

// FormatBatch renders progress, the batch counters and the session totals.
func FormatBatch(processed, total int, hasMore bool, batch, cumulative domain.ImportStats) string {
	var b strings.Builder
	b.WriteString(RenderProgress(processed, total, 30))
	b.WriteString("\n\n")
	b.WriteString(Bold("This batch") + "\n")
	b.WriteString(FormatStats(batch))
	b.WriteString("\n" + Bold("Session total") + "\n")
	b.WriteString(FormatStats(cumulative))
	if hasMore {
		b.WriteString("\n" + Dim("More rows remain. Run 'menuplan import batch' to continue.") + "\n")
	} else {
		b.WriteString("\n" + StyleGreen.Render("✔ Import complete") + "\n")
	}
	return b.String()
}

func FormatSession(s *domain.ImportSession, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session:  %s\n", s.ID)
	fmt.Fprintf(&b, "File:     %s\n", s.FileName)
	fmt.Fprintf(&b, "Status:   %s\n", SessionStatusPill(s.Status))
	fmt.Fprintf(&b, "Progress: %s\n", RenderProgress(s.Cursor, s.TotalRows, 30))
	fmt.Fprintf(&b, "Options:  %s\n", formatOptions(s.Options))
	fmt.Fprintf(&b, "Updated:  %s\n", HumanTimestamp(s.UpdatedAt, now))
	b.WriteString("\n")
	b.WriteString(FormatStats(s.Stats))
	return RenderBox("Import", strings.TrimRight(b.String(), "\n"))
}

func formatOptions(o domain.ImportOptions) string {
	var parts []string
	if o.SkipExisting {
		parts = append(parts, "skip existing")
	}
	if o.ClearExisting {
		parts = append(parts, "clear existing")
	}
	if o.UpdatePrices {
		parts = append(parts, "update prices")
	}
	parts = append(parts, fmt.Sprintf("batch %d", o.BatchSize))
	return strings.Join(parts, ", ")
}

// FormatLog renders session log entries one per line.
func FormatLog(entries []domain.LogEntry) string {
	if len(entries) == 0 {
		return Dim("No log entries.") + "\n"
	}
	var b strings.Builder
	for _, e := range entries {
		row := "      "
		if e.Row > 0 {
			row = fmt.Sprintf("r%-5d", e.Row)
		}
		fmt.Fprintf(&b, "%s %s %s %s\n",
			Dim(e.Time.Format("15:04:05")),
			Dim(row),
			CategoryStyle(e.Category).Render(fmt.Sprintf("%-6s", e.Category)),
			e.Message,
		)
	}
	return b.String()
}
