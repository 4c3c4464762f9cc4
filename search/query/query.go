package query

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// Connectors that group terms in a query.
const (
	And = "AND"
	Or  = "OR"
)

// Queries shorter than this (in characters) return no results.
const MinQueryLength = 3

// Columns of the notes table the predicates are built for.
const (
	TitleField = "ZTITLE"
	TextField  = "ZTEXT"
)

var connectors = []string{And, Or}

// Predicate is a compiled query.
type Predicate struct {
	Title string   // where clause over note titles
	Text  string   // where clause over note bodies
	Terms []string // plain search terms, in query order
}

// Empty reports whether the query produced no search terms.
func (p Predicate) Empty() bool {
	return len(p.Terms) == 0
}

// a run of terms sharing one connector. Terms before the first connector
// are not grouped and each gets its own parentheses.
type group struct {
	connector string
	grouped   bool
	terms     []string
}

func isConnector(token string) bool {
	return lo.Contains(connectors, token)
}

// Tokenize prepares a raw query for Compile.
//
// Returns nil when the trimmed query is shorter than MinQueryLength. Bare
// connectors at the end of the query are dropped.
func Tokenize(raw string) []string {
	raw = strings.TrimSpace(raw)
	if utf8.RuneCountInString(raw) < MinQueryLength {
		return nil
	}

	tokens := strings.Fields(raw)
	for len(tokens) > 0 && isConnector(tokens[len(tokens)-1]) {
		tokens = tokens[:len(tokens)-1]
	}

	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

// Compile turns query tokens into title and text predicates.
//
// A leading connector sets how ungrouped terms are joined (OR by default).
// Any later connector opens a group: the terms up to the next connector are
// joined with it, and the group is joined to what precedes it with it too.
func Compile(tokens []string) Predicate {
	filter := Or
	if len(tokens) > 0 && isConnector(tokens[0]) {
		filter = tokens[0]
		tokens = tokens[1:]
	}

	groups := []group{{connector: filter}}
	terms := make([]string, 0, len(tokens))

	for _, token := range tokens {
		if token == "" {
			continue
		}

		if isConnector(token) {
			groups = append(groups, group{connector: token, grouped: true})
			continue
		}

		terms = append(terms, token)
		current := &groups[len(groups)-1]
		current.terms = append(current.terms, token)
	}

	return Predicate{
		Title: render(groups, TitleField),
		Text:  render(groups, TextField),
		Terms: terms,
	}
}

func render(groups []group, field string) string {
	var b strings.Builder

	for _, g := range groups {
		if len(g.terms) == 0 {
			continue
		}

		clauses := lo.Map(g.terms, func(term string, _ int) string {
			return like(field, term)
		})

		if b.Len() > 0 {
			b.WriteString(" " + g.connector + " ")
		}

		if g.grouped {
			b.WriteString("(" + strings.Join(clauses, " "+g.connector+" ") + ")")
			continue
		}

		for i, clause := range clauses {
			if i > 0 {
				b.WriteString(" " + g.connector + " ")
			}
			b.WriteString("(" + clause + ")")
		}
	}

	return strings.TrimSpace(b.String())
}

// Wildcards in the term are kept; quotes are doubled to stay inside the
// string literal.
func like(field, term string) string {
	return fmt.Sprintf("%s like '%%%s%%'", field, strings.ReplaceAll(term, "'", "''"))
}
