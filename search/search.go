package search

import "context"

// DocumentMatch is a note that matched a query.
type DocumentMatch struct {
	ID      string // Bear unique identifier
	Title   string
	Body    string // empty unless snippets are enabled
	Snippet string // context around the matched terms
}

type SearchResult struct {
	Err  error
	Hits []DocumentMatch
}

// The searcher that looks up notes for a free text query.
type NotesSearcher interface {
	Search(ctx context.Context, query string) SearchResult // Search the notes for the given query.
}
