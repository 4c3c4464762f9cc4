package output

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/acarl005/stripansi"
	"github.com/noelzubin/bear_search/search"
	"github.com/noelzubin/bear_search/utils"
	"github.com/samber/lo"
)

var whitespace = regexp.MustCompile(`\s+`)

// Item is one entry of the result list handed to the launcher.
type Item struct {
	Icon                string `json:"icon"`
	Title               string `json:"title"`
	Subtitle            string `json:"subtitle,omitempty"`
	AlwaysShowsSubtitle bool   `json:"alwaysShowsSubtitle,omitempty"`
	URL                 string `json:"url"`
}

// NoteURL returns the deep link that opens the note in a new window.
func NoteURL(scheme, id string) string {
	return fmt.Sprintf("%s://x-callback-url/open-note?new_window=yes&id=%s", scheme, url.QueryEscape(id))
}

// FormatSnippet flattens a snippet onto a single line.
func FormatSnippet(content string) string {
	s := stripansi.Strip(content)
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// FromHits maps search hits to result items, keeping their order.
func FromHits(config *utils.Config, hits []search.DocumentMatch) []Item {
	return lo.Map(hits, func(hit search.DocumentMatch, _ int) Item {
		item := Item{
			Icon:  config.Icon,
			Title: hit.Title,
			URL:   NoteURL(config.URLScheme, hit.ID),
		}
		if subtitle := FormatSnippet(hit.Snippet); subtitle != "" {
			item.Subtitle = subtitle
			item.AlwaysShowsSubtitle = true
		}
		return item
	})
}

// Write emits items as a single JSON array. No items is written as [].
func Write(w io.Writer, items []Item) error {
	if items == nil {
		items = []Item{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("output: encode: %w", err)
	}
	return nil
}
