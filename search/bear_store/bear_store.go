package bear_store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/noelzubin/bear_search/search"
	"github.com/noelzubin/bear_search/search/query"
	"github.com/noelzubin/bear_search/search/snippet"
	"github.com/noelzubin/bear_search/utils"
	"github.com/samber/lo"

	_ "modernc.org/sqlite"
)

// ErrDatabaseMissing is returned when the database file does not exist.
var ErrDatabaseMissing = errors.New("bear_store: database not found")

// Notes that are trashed, archived or encrypted never show up.
const baseQuery = "SELECT COALESCE(ZTITLE, ''), COALESCE(ZUNIQUEIDENTIFIER, '')%s FROM ZSFNOTE " +
	"WHERE ZTRASHED = 0 AND ZARCHIVED = 0 AND ZENCRYPTED = 0"

// BearStore is the implementation of the NotesSearcher interface which
// reads the Bear sqlite database.
type BearStore struct {
	dbPath   string
	snippets bool
	logger   *slog.Logger
}

type Option func(*BearStore)

// WithLogger sets the logger. A nil logger keeps the default one.
func WithLogger(logger *slog.Logger) Option {
	return func(s *BearStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewBearStore returns a new BearStore for the configured database.
// The database is not touched until the first search.
func NewBearStore(config *utils.Config, opts ...Option) (*BearStore, error) {
	if config == nil || config.DatabasePath == "" {
		return nil, errors.New("bear_store: database path is required")
	}

	s := &BearStore{
		dbPath:   config.DatabasePath,
		snippets: config.Snippets,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Search looks up the notes matching the given query.
//
// Queries shorter than query.MinQueryLength, or without any search term,
// return no hits without opening the database.
func (s *BearStore) Search(ctx context.Context, qry string) search.SearchResult {
	tokens := query.Tokenize(qry)
	if len(tokens) == 0 {
		return search.SearchResult{Hits: []search.DocumentMatch{}}
	}

	predicate := query.Compile(tokens)
	if predicate.Empty() {
		return search.SearchResult{Hits: []search.DocumentMatch{}}
	}

	notes, err := s.lookup(ctx, BuildSQL(predicate, s.snippets))
	if err != nil {
		return search.SearchResult{Err: err}
	}

	extractor := snippet.New(predicate.Terms)
	hits := lo.Map(notes, func(n note, _ int) search.DocumentMatch {
		match := search.DocumentMatch{ID: n.id, Title: n.title, Body: n.body}
		if s.snippets {
			match.Snippet = extractor.Extract(n.body)
		}
		return match
	})

	s.logger.Debug("search finished", "query", qry, "terms", predicate.Terms, "hits", len(hits))
	return search.SearchResult{Hits: hits}
}

// BuildSQL embeds a compiled predicate into the notes query. The body
// column is selected only when withBody is set.
func BuildSQL(p query.Predicate, withBody bool) string {
	columns := ""
	if withBody {
		columns = ", COALESCE(ZTEXT, '')"
	}
	return fmt.Sprintf(baseQuery, columns) + " AND ((" + p.Title + ") OR (" + p.Text + "))"
}

// A row read from ZSFNOTE.
type note struct {
	title string
	id    string
	body  string
}

// lookup opens the database read-only, runs stmt and closes it again.
func (s *BearStore) lookup(ctx context.Context, stmt string) (notes []note, err error) {
	if _, err := os.Stat(s.dbPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrDatabaseMissing, s.dbPath, err)
		}
		return nil, fmt.Errorf("bear_store: stat %s: %w", s.dbPath, err)
	}

	db, err := sql.Open("sqlite", dsn(s.dbPath))
	if err != nil {
		return nil, fmt.Errorf("bear_store: open %s: %w", s.dbPath, err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("bear_store: close: %w", cerr)
		}
	}()

	s.logger.Debug("running query", "db", s.dbPath, "sql", stmt)

	rows, err := db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("bear_store: query: %w", err)
	}
	defer rows.Close()

	notes = make([]note, 0)
	for rows.Next() {
		var n note
		dest := []any{&n.title, &n.id}
		if s.snippets {
			dest = append(dest, &n.body)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("bear_store: scan: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bear_store: rows: %w", err)
	}

	return notes, nil
}

// Data source name opening the database read-only.
func dsn(path string) string {
	return "file:" + path + "?mode=ro"
}
