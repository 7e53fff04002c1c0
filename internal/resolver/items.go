package resolver

import (
	"strings"

	"github.com/alexanderramin/menuplan/internal/domain"
)

// Match says how an item was found.
type Match string

const (
	MatchExact    Match = "exact"
	MatchContains Match = "contains"
)

// similarPrefixRunes is how much of a missing name is used to look for
// near matches.
const similarPrefixRunes = 20

type itemEntry struct {
	key  string
	item domain.Item
}

// ItemResolver matches cleaned item names against published catalog titles.
type ItemResolver struct {
	byKey   map[string]domain.Item
	entries []itemEntry
}

// NewItemResolver indexes the published items among catalog, in order.
func NewItemResolver(catalog []domain.Item) *ItemResolver {
	r := &ItemResolver{byKey: make(map[string]domain.Item)}
	for _, item := range catalog {
		if !item.IsPublished() {
			continue
		}
		key := strings.ToLower(CleanName(item.Title))
		if key == "" {
			continue
		}
		if _, ok := r.byKey[key]; !ok {
			r.byKey[key] = item
		}
		r.entries = append(r.entries, itemEntry{key: key, item: item})
	}
	return r
}

// Resolve returns the item whose title equals name, or failing that the
// first item whose title contains it.
func (r *ItemResolver) Resolve(name string) (domain.Item, Match, bool) {
	key := strings.ToLower(CleanName(name))
	if key == "" {
		return domain.Item{}, "", false
	}
	if item, ok := r.byKey[key]; ok {
		return item, MatchExact, true
	}
	for _, e := range r.entries {
		if strings.Contains(e.key, key) {
			return e.item, MatchContains, true
		}
	}
	return domain.Item{}, "", false
}

// Similar lists up to limit items whose title contains the first 20
// characters of name. Results are for diagnostics and are never selected
// automatically.
func (r *ItemResolver) Similar(name string, limit int) []domain.Item {
	prefix := []rune(strings.ToLower(CleanName(name)))
	if len(prefix) > similarPrefixRunes {
		prefix = prefix[:similarPrefixRunes]
	}
	if len(prefix) == 0 || limit <= 0 {
		return nil
	}
	needle := string(prefix)

	var out []domain.Item
	for _, e := range r.entries {
		if strings.Contains(e.key, needle) {
			out = append(out, e.item)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// Lookup adapts Resolve to the validator's boolean check.
func (r *ItemResolver) Lookup(name string) bool {
	_, _, ok := r.Resolve(name)
	return ok
}
