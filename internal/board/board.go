// Package board groups the collection into tier rows for display.
package board

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/idilsaglam/tierlist/internal/model"
)

// Filter narrows the visible items. The zero value matches everything.
type Filter struct {
	Query  string
	Status model.Status
}

// Active reports whether the filter hides anything.
func (f Filter) Active() bool {
	return strings.TrimSpace(f.Query) != "" || f.Status != ""
}

// Matches applies the case-insensitive title query and the exact status.
func (f Filter) Matches(it model.Item) bool {
	if q := strings.TrimSpace(f.Query); q != "" {
		fold := cases.Fold()
		if !strings.Contains(fold.String(it.Title), fold.String(q)) {
			return false
		}
	}
	return f.Status == "" || it.Status == f.Status
}

// Layout is the display order of rows.
type Layout struct {
	Ranks        model.Ranks
	UnratedFirst bool
}

// Tiers returns every row label in display order.
func (l Layout) Tiers() []model.Tier {
	ranks := l.Ranks
	if len(ranks) == 0 {
		ranks = model.DefaultRanks
	}
	out := make([]model.Tier, 0, len(ranks)+1)
	if l.UnratedFirst {
		out = append(out, model.TierUnrated)
	}
	out = append(out, ranks...)
	if !l.UnratedFirst {
		out = append(out, model.TierUnrated)
	}
	return out
}

// Row is one tier with its items in collection order.
type Row struct {
	Tier  model.Tier
	Items []model.Item
}

// Board is a projection of the collection.
type Board struct {
	Rows []Row
}

// Project partitions the items that pass f into rows. Every row exists even
// when empty, and an item whose tier is not a rank lands in Unrated.
func Project(items []model.Item, f Filter, l Layout) Board {
	tiers := l.Tiers()
	ranks := l.Ranks
	if len(ranks) == 0 {
		ranks = model.DefaultRanks
	}
	index := make(map[model.Tier]int, len(tiers))
	rows := make([]Row, len(tiers))
	for i, t := range tiers {
		index[t] = i
		rows[i] = Row{Tier: t, Items: []model.Item{}}
	}
	for _, it := range items {
		if !f.Matches(it) {
			continue
		}
		i := index[model.ParseTier(string(it.Tier), ranks)]
		rows[i].Items = append(rows[i].Items, it)
	}
	return Board{Rows: rows}
}

// Row returns the row for t, or an empty row when the board has none.
func (b Board) Row(t model.Tier) Row {
	for _, r := range b.Rows {
		if r.Tier == t {
			return r
		}
	}
	return Row{Tier: t}
}

// Len is the number of visible items.
func (b Board) Len() int {
	n := 0
	for _, r := range b.Rows {
		n += len(r.Items)
	}
	return n
}

// Counts are per-status totals for the header line.
type Counts struct {
	Total    int
	ByStatus map[model.Status]int
	Rated    int
}

// Tally counts items by status. Unknown statuses are counted under their
// raw value.
func Tally(items []model.Item) Counts {
	c := Counts{Total: len(items), ByStatus: make(map[model.Status]int)}
	for _, it := range items {
		c.ByStatus[it.Status]++
		if it.Rating != nil {
			c.Rated++
		}
	}
	return c
}
