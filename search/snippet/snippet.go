package snippet

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
)

// Separator is placed between the excerpts of different terms.
const Separator = " ... "

// Characters of context kept on each side of a match before growing to
// word boundaries.
const window = 12

// Extractor builds excerpts for a fixed list of terms. Build one per search
// and reuse it for every note.
type Extractor struct {
	patterns []*regexp.Regexp
}

// New prepares an Extractor for terms. Empty terms are ignored and the
// rest are matched literally, ignoring case.
func New(terms []string) *Extractor {
	terms = lo.Filter(terms, func(term string, _ int) bool {
		return term != ""
	})

	return &Extractor{
		patterns: lo.Map(terms, func(term string, _ int) *regexp.Regexp {
			return regexp.MustCompile("(?i)" + regexp.QuoteMeta(term))
		}),
	}
}

// Extract builds a display excerpt from body for the given terms.
func Extract(terms []string, body string) string {
	return New(terms).Extract(body)
}

// Extract returns the context around the first occurrence of each term,
// widened so no word is cut. Excerpts are joined in term order. Returns an
// empty string when nothing matches.
func (e *Extractor) Extract(body string) string {
	var b strings.Builder
	for _, re := range e.patterns {
		excerpt, ok := excerptFor(re, body)
		if !ok {
			continue
		}
		b.WriteString(excerpt)
		b.WriteString(Separator)
	}

	return strings.TrimSuffix(b.String(), Separator)
}

func excerptFor(re *regexp.Regexp, body string) (string, bool) {
	loc := re.FindStringIndex(body)
	if loc == nil {
		return "", false
	}

	runes := []rune(body)
	matchStart := utf8.RuneCountInString(body[:loc[0]])
	matchEnd := matchStart + utf8.RuneCountInString(body[loc[0]:loc[1]])

	start := max(matchStart-window, 0)
	end := min(matchEnd+window, len(runes))

	// Both edges stop at the text bounds, so a match touching the start or
	// end of the body is never widened past it.
	for start > 0 && isWordChar(runes[start]) {
		start--
	}
	for end < len(runes) && isWordChar(runes[end-1]) {
		end++
	}

	return strings.TrimSpace(string(runes[start:end])), true
}

func isWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
