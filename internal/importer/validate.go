package importer

import (
	"fmt"

	"github.com/alexanderramin/menuplan/internal/domain"
)

// TermLookup reports whether text resolves within a taxonomy.
type TermLookup interface {
	Lookup(text string, taxonomy domain.Taxonomy) bool
}

// ItemLookup reports whether an item name resolves.
type ItemLookup interface {
	Lookup(name string) bool
}

type ValidationReport struct {
	TotalRows       int                          `json:"total_rows"`
	ValidRows       int                          `json:"valid_rows"`
	ProductsFound   int                          `json:"products_found"`
	ProductsMissing int                          `json:"products_missing"`
	MissingProducts []string                     `json:"missing_products"`
	MissingTerms    map[domain.Taxonomy][]string `json:"missing_terms"`
	DataIssues      []string                     `json:"data_issues"`
	ReadyToImport   bool                         `json:"ready_to_import"`
}

// MissingTermCount is the number of distinct unresolved terms.
func (r *ValidationReport) MissingTermCount() int {
	n := 0
	for _, names := range r.MissingTerms {
		n += len(names)
	}
	return n
}

// NewFailedReport is the report for a file that could not be used at all.
func NewFailedReport(issue string) *ValidationReport {
	return &ValidationReport{
		MissingProducts: []string{},
		MissingTerms:    map[domain.Taxonomy][]string{},
		DataIssues:      []string{issue},
	}
}

// Validate checks rows against the vocabulary and catalog without touching
// any store. Each distinct item name and term text is checked once and
// reported in first-seen order.
func Validate(rows []Row, terms TermLookup, items ItemLookup) *ValidationReport {
	report := &ValidationReport{
		TotalRows:       len(rows),
		MissingProducts: []string{},
		MissingTerms:    map[domain.Taxonomy][]string{},
		DataIssues:      []string{},
	}

	seenItems := make(map[string]bool)
	seenTerms := make(map[domain.Taxonomy]map[string]bool)
	checkTerm := func(text string, taxonomy domain.Taxonomy) {
		if text == "" {
			return
		}
		if seenTerms[taxonomy] == nil {
			seenTerms[taxonomy] = make(map[string]bool)
		}
		if seenTerms[taxonomy][text] {
			return
		}
		seenTerms[taxonomy][text] = true
		if !terms.Lookup(text, taxonomy) {
			report.MissingTerms[taxonomy] = append(report.MissingTerms[taxonomy], text)
		}
	}

	for _, row := range rows {
		if row.Empty() {
			continue
		}
		if row.Item == "" {
			report.DataIssues = append(report.DataIssues,
				fmt.Sprintf("Row %d: Menu assignment without product name", row.Number))
			continue
		}
		if row.MenuTitle == "" {
			report.DataIssues = append(report.DataIssues,
				fmt.Sprintf("Row %d: Product '%s' has no menu assignment", row.Number, row.Item))
			continue
		}
		if !row.TypeRecognized {
			report.DataIssues = append(report.DataIssues,
				fmt.Sprintf("Row %d: Unrecognised type '%s', read as monthly", row.Number, row.Type))
		}
		report.ValidRows++

		if !seenItems[row.Item] {
			seenItems[row.Item] = true
			if items.Lookup(row.Item) {
				report.ProductsFound++
			} else {
				report.ProductsMissing++
				report.MissingProducts = append(report.MissingProducts, row.Item)
			}
		}

		checkTerm(row.MenuTitle, domain.TaxonomyProgramMenu)
		if row.MenuType == domain.MenuMonthly {
			checkTerm(row.Week, domain.TaxonomyWeek)
		}
		checkTerm(row.Day, domain.TaxonomyWeekday)
		checkTerm(row.Meal, domain.TaxonomyMealtime)
	}

	report.ReadyToImport = report.ValidRows > 0 &&
		len(report.MissingProducts) == 0 &&
		report.MissingTermCount() == 0
	return report
}
