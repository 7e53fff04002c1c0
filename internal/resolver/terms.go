// Package resolver maps free text from spreadsheets onto vocabulary terms
// and catalog items.
package resolver

import (
	"strings"

	"github.com/alexanderramin/menuplan/internal/domain"
)

type termEntry struct {
	key      string
	stripped string
	term     domain.Term
}

type termIndex struct {
	byKey      map[string]domain.Term
	byStripped map[string]domain.Term
	entries    []termEntry
}

// TermResolver answers term lookups from an in-memory copy of the
// vocabulary. Build one per import or validation run.
type TermResolver struct {
	indexes map[domain.Taxonomy]*termIndex
}

// NewTermResolver indexes terms in the order given. When two terms share a
// key the first one wins.
func NewTermResolver(terms []domain.Term) *TermResolver {
	r := &TermResolver{indexes: make(map[domain.Taxonomy]*termIndex)}
	for _, t := range terms {
		idx := r.indexes[t.Taxonomy]
		if idx == nil {
			idx = &termIndex{
				byKey:      make(map[string]domain.Term),
				byStripped: make(map[string]domain.Term),
			}
			r.indexes[t.Taxonomy] = idx
		}
		key := Key(t.Name)
		if key == "" {
			continue
		}
		stripped := StripAccents(key)
		if _, ok := idx.byKey[key]; !ok {
			idx.byKey[key] = t
		}
		if _, ok := idx.byStripped[stripped]; !ok {
			idx.byStripped[stripped] = t
		}
		idx.entries = append(idx.entries, termEntry{key: key, stripped: stripped, term: t})
	}
	return r
}

// Resolve finds the term for text within taxonomy. It tries an exact key
// match, then an accent-insensitive match, then containment in either
// direction against each term in load order.
func (r *TermResolver) Resolve(text string, taxonomy domain.Taxonomy) (domain.Term, bool) {
	key := Key(text)
	if key == "" {
		return domain.Term{}, false
	}
	idx := r.indexes[taxonomy]
	if idx == nil {
		return domain.Term{}, false
	}

	if t, ok := idx.byKey[key]; ok {
		return t, true
	}
	stripped := StripAccents(key)
	if t, ok := idx.byStripped[stripped]; ok {
		return t, true
	}

	for _, e := range idx.entries {
		if strings.Contains(e.key, key) || strings.Contains(key, e.key) {
			return e.term, true
		}
	}
	for _, e := range idx.entries {
		if strings.Contains(e.stripped, stripped) || strings.Contains(stripped, e.stripped) {
			return e.term, true
		}
	}
	return domain.Term{}, false
}

// Lookup adapts Resolve to the validator's boolean check.
func (r *TermResolver) Lookup(text string, taxonomy domain.Taxonomy) bool {
	_, ok := r.Resolve(text, taxonomy)
	return ok
}
