package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/idilsaglam/tierlist/internal/board"
	"github.com/idilsaglam/tierlist/internal/model"
	"github.com/idilsaglam/tierlist/internal/ui"
)

const (
	minIDPrefix = 8
	maxTitle    = 48
)

// shortIDs maps every id to its shortest unique prefix, never shorter than
// minIDPrefix.
func shortIDs(items []model.Item) map[string]string {
	out := make(map[string]string, len(items))
	for _, it := range items {
		n := min(minIDPrefix, len(it.ID))
		for ; n < len(it.ID); n++ {
			if unique(items, it.ID, it.ID[:n]) {
				break
			}
		}
		out[it.ID] = it.ID[:n]
	}
	return out
}

func unique(items []model.Item, id, prefix string) bool {
	for _, other := range items {
		if other.ID != id && strings.HasPrefix(other.ID, prefix) {
			return false
		}
	}
	return true
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func statusText(s model.Status) string {
	if l := s.Label(); l != "" {
		return l
	}
	return string(s)
}

func summaryLines(items []model.Item, shown int) []string {
	t := ui.Current()
	c := board.Tally(items)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(t.Title, "Tier list"),
		ui.C(t.Success, "completed"), c.ByStatus[model.StatusCompleted],
		ui.C(t.Accent, "watching"), c.ByStatus[model.StatusWatching],
		ui.C(t.Muted, "total"), c.Total,
	)
	lines := []string{header}
	lines = append(lines, ui.C(t.Muted, ui.ProgressBar(c.Rated, c.Total, 28)+" rated"))
	if shown != c.Total {
		lines = append(lines, ui.C(t.Muted, fmt.Sprintf("(%d/%d shown)", shown, c.Total)))
	}
	return lines
}

func itemRows(items []model.Item, ids map[string]string, now time.Time, withTier bool) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		row := []string{ids[it.ID], truncate(it.Title, maxTitle), statusText(it.Status)}
		if withTier {
			row = append(row, ui.TierLabel(it.Tier))
		}
		row = append(row, ui.Rating(it.Rating), ui.Ago(it.UpdatedAt, now))
		rows = append(rows, row)
	}
	return rows
}

// renderBoard prints the summary panel followed by one table per non-empty
// tier, or a single table when flat is set.
func renderBoard(all []model.Item, b board.Board, flat bool, now time.Time) {
	t := ui.Current()
	ui.Panel(summaryLines(all, b.Len()))
	if b.Len() == 0 {
		ui.Info(ui.C(t.Muted, "no items"))
		return
	}
	ids := shortIDs(all)

	if flat {
		var items []model.Item
		for _, row := range b.Rows {
			items = append(items, row.Items...)
		}
		ui.Info(ui.Table(
			[]string{"ID", "Title", "Status", "Tier", "Rating", "Updated"},
			itemRows(items, ids, now, true),
			[]ui.Align{ui.AlignLeft, ui.AlignLeft, ui.AlignLeft, ui.AlignLeft, ui.AlignRight, ui.AlignLeft},
		))
		return
	}
	for _, row := range b.Rows {
		if len(row.Items) == 0 {
			continue
		}
		ui.Info(fmt.Sprintf("%s %s", ui.TierLabel(row.Tier), ui.C(t.Muted, fmt.Sprintf("(%d)", len(row.Items)))))
		ui.Info(ui.Table(
			[]string{"ID", "Title", "Status", "Rating", "Updated"},
			itemRows(row.Items, ids, now, false),
			[]ui.Align{ui.AlignLeft, ui.AlignLeft, ui.AlignLeft, ui.AlignRight, ui.AlignLeft},
		))
	}
}

func describe(it model.Item, ids map[string]string) string {
	id := it.ID
	if s, ok := ids[it.ID]; ok {
		id = s
	}
	return fmt.Sprintf("%s %q [%s]", id, it.Title, it.Tier)
}
