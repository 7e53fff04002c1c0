package resolver

import (
	"html"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// synonyms folds known spelling variants onto one canonical spelling.
// Keys and values are already lower-cased and script-folded.
var synonyms = map[string]string{
	"βραδινο": "βραδινό",
}

// Key is the canonical lookup form of a vocabulary name: trimmed,
// whitespace-collapsed, lower-cased, script-folded and synonym-folded.
func Key(s string) string {
	k := foldLatinB(strings.ToLower(strings.Join(strings.Fields(s), " ")))
	if canonical, ok := synonyms[k]; ok {
		return canonical
	}
	return k
}

// foldLatinB replaces a Latin "b" that starts a word and is followed by a
// Greek letter with "β", as typed on mixed keyboards ("Bραδινό γεύμα").
func foldLatinB(s string) string {
	if !strings.ContainsRune(s, 'b') {
		return s
	}
	rs := []rune(s)
	for i, r := range rs {
		if r != 'b' || i+1 >= len(rs) || !unicode.Is(unicode.Greek, rs[i+1]) {
			continue
		}
		if i > 0 && unicode.IsLetter(rs[i-1]) {
			continue
		}
		rs[i] = 'β'
	}
	return string(rs)
}

// StripAccents removes combining marks, so "Δευτέρα" becomes "Δευτερα".
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// CleanName prepares an item title for matching: HTML entities are
// decoded and runs of whitespace collapse to one space. Punctuation such
// as "&" is kept.
func CleanName(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(s)), " ")
}
