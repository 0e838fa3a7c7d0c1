package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cands(titles ...string) []Candidate {
	out := make([]Candidate, 0, len(titles))
	for i, t := range titles {
		out = append(out, Candidate{ID: i + 1, Title: t})
	}
	return out
}

func TestSessionDebounceSendsOnlyLastQuery(t *testing.T) {
	var queries []string
	p := ProviderFunc(func(ctx context.Context, q string) []Candidate {
		queries = append(queries, q)
		return cands("Abc")
	})
	s := NewSession(0, 0)

	ticks := []Tick{s.Input("a"), s.Input("ab"), s.Input("abc")}
	for _, tk := range ticks {
		assert.Equal(t, DefaultDebounce, tk.Delay)
		if q, ok := s.Fire(tk.Seq); ok {
			s.Deliver(tk.Seq, p.Search(context.Background(), q))
		}
	}

	assert.Equal(t, []string{"abc"}, queries)
	assert.Equal(t, Shown, s.State())
	assert.True(t, s.Open())
}

func TestSessionShortQueryClosesWithoutSearching(t *testing.T) {
	s := NewSession(2, 10*time.Millisecond)
	tk := s.Input("ab")
	_, ok := s.Fire(tk.Seq)
	require.True(t, ok)
	s.Deliver(tk.Seq, cands("Abe"))
	require.True(t, s.Open())

	tk = s.Input(" a ")
	q, ok := s.Fire(tk.Seq)
	assert.False(t, ok)
	assert.Empty(t, q)
	assert.False(t, s.Open())
	assert.Empty(t, s.Results())
	assert.Equal(t, Idle, s.State())
}

func TestSessionDiscardsStaleResults(t *testing.T) {
	s := NewSession(2, 0)
	first := s.Input("nar")
	_, ok := s.Fire(first.Seq)
	require.True(t, ok)
	assert.True(t, s.Loading())

	second := s.Input("naruto")
	assert.False(t, s.Deliver(first.Seq, cands("Stale")))
	assert.Empty(t, s.Results())
	assert.Equal(t, Pending, s.State())

	q, ok := s.Fire(second.Seq)
	require.True(t, ok)
	assert.Equal(t, "naruto", q)
	assert.True(t, s.Deliver(second.Seq, cands("Naruto", "Naruto Shippuden")))
	assert.Len(t, s.Results(), 2)
}

func TestSessionEmptyResultsReturnToIdle(t *testing.T) {
	s := NewSession(2, 0)
	tk := s.Input("zzzz")
	s.Fire(tk.Seq)
	assert.True(t, s.Deliver(tk.Seq, []Candidate{}))
	assert.False(t, s.Open())
	assert.Equal(t, Idle, s.State())
}

func open(t *testing.T, titles ...string) *Session {
	t.Helper()
	s := NewSession(2, 0)
	tk := s.Input("query")
	_, ok := s.Fire(tk.Seq)
	require.True(t, ok)
	require.True(t, s.Deliver(tk.Seq, cands(titles...)))
	return s
}

func TestSessionNavigationClamps(t *testing.T) {
	s := open(t, "A", "B", "C")
	assert.Equal(t, -1, s.Selected())

	s.Down()
	assert.Equal(t, 0, s.Selected())
	s.Down()
	s.Down()
	s.Down()
	assert.Equal(t, 2, s.Selected(), "never wraps past the end")

	s.Up()
	s.Up()
	s.Up()
	assert.Equal(t, 0, s.Selected(), "never wraps past the start")
}

func TestSessionUpFromNothingSelectsFirst(t *testing.T) {
	s := open(t, "A", "B")
	s.Up()
	assert.Equal(t, 0, s.Selected())
}

func TestSessionCommit(t *testing.T) {
	s := open(t, "A", "B")

	_, ok := s.Commit()
	assert.False(t, ok, "nothing highlighted")
	assert.True(t, s.Open())

	s.Down()
	s.Down()
	c, ok := s.Commit()
	require.True(t, ok)
	assert.Equal(t, "B", c.Title)
	assert.False(t, s.Open())

	_, ok = s.Commit()
	assert.False(t, ok)
}

func TestSessionPick(t *testing.T) {
	s := open(t, "A", "B", "C")
	_, ok := s.Pick(7)
	assert.False(t, ok)

	c, ok := s.Pick(2)
	require.True(t, ok)
	assert.Equal(t, "C", c.Title)
	assert.False(t, s.Open())
}

func TestSessionEscapeCancelsInFlight(t *testing.T) {
	s := open(t, "A")
	s.Escape()
	assert.False(t, s.Open())

	tk := s.Input("abc")
	_, ok := s.Fire(tk.Seq)
	require.True(t, ok)
	s.Escape()
	assert.False(t, s.Deliver(tk.Seq, cands("Late")))
	assert.False(t, s.Open())
}

func TestSessionInputClearsSelection(t *testing.T) {
	s := open(t, "A", "B")
	s.Down()
	s.Input("other")
	assert.Equal(t, -1, s.Selected())
	_, ok := s.Commit()
	assert.False(t, ok)
}

func TestSessionClosedIgnoresNavigation(t *testing.T) {
	s := NewSession(2, 0)
	s.Down()
	s.Up()
	assert.Equal(t, -1, s.Selected())
	_, ok := s.Pick(0)
	assert.False(t, ok)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "searching", Searching.String())
	assert.Equal(t, "shown", Shown.String())
}
