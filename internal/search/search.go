// Package search looks titles up in an external catalog and drives the
// debounced suggestion list of the add form.
package search

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/idilsaglam/tierlist/internal/model"
)

// MinQueryLength is the shortest query that reaches a provider.
const MinQueryLength = 2

// Candidate is one external search match.
type Candidate struct {
	ID        int
	Title     string
	CoverURL  string
	Year      *int
	Episodes  *int
	Genres    []string
	AltTitles []string
	Color     string
}

// ApplyTo copies the fields a suggestion fills in into the pending draft.
func (c Candidate) ApplyTo(d *model.Draft) {
	d.Title = c.Title
	d.CoverURL = c.CoverURL
}

// Provider returns candidates for a query. Failures yield an empty result,
// never an error.
type Provider interface {
	Search(ctx context.Context, query string) []Candidate
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, query string) []Candidate

func (f ProviderFunc) Search(ctx context.Context, query string) []Candidate { return f(ctx, query) }

// Guard short-circuits queries shorter than minLen runes after trimming.
func Guard(p Provider, minLen int) Provider {
	return ProviderFunc(func(ctx context.Context, query string) []Candidate {
		if !longEnough(query, minLen) {
			return []Candidate{}
		}
		return p.Search(ctx, query)
	})
}

func longEnough(query string, minLen int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(query)) >= minLen
}
