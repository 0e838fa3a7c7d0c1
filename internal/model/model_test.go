package model

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTier(t *testing.T) {
	cases := []struct {
		in    string
		ranks Ranks
		want  Tier
	}{
		{"S", DefaultRanks, TierS},
		{" a ", DefaultRanks, TierA},
		{"d", DefaultRanks, TierD},
		{"Z", DefaultRanks, TierUnrated},
		{"", DefaultRanks, TierUnrated},
		{"Unrated", DefaultRanks, TierUnrated},
		{"GOD", DefaultRanks, TierUnrated},
		{"god", ExtendedRanks, TierGod},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseTier(tc.in, tc.ranks), "ParseTier(%q)", tc.in)
	}
}

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in   string
		want Status
		ok   bool
	}{
		{"PLANNED", StatusPlanned, true},
		{"watching", StatusWatching, true},
		{" Completed ", StatusCompleted, true},
		{"DROPPED", StatusDropped, true},
		{"PAUSED", Status("PAUSED"), false},
		{"", Status(""), false},
	}
	for _, tc := range cases {
		got, ok := ParseStatus(tc.in)
		assert.Equal(t, tc.want, got, "ParseStatus(%q)", tc.in)
		assert.Equal(t, tc.ok, ok, "ParseStatus(%q) ok", tc.in)
	}
	assert.Empty(t, Status("PAUSED").Label())
	assert.Equal(t, "watching", StatusWatching.Label())
}

func TestClampRating(t *testing.T) {
	assert.Nil(t, ClampRating(math.NaN()))
	assert.Equal(t, 0.0, *ClampRating(-3))
	assert.Equal(t, 10.0, *ClampRating(12.5))
	assert.Equal(t, 7.5, *ClampRating(7.46))
	assert.Equal(t, 8.0, *ClampRating(8))
}

func TestPatchEmpty(t *testing.T) {
	assert.True(t, Patch{}.Empty())
	assert.False(t, Patch{ClearRating: true}.Empty())
	assert.False(t, Patch{Tier: Ptr("S")}.Empty())
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	items := []Item{
		{ID: "b", Title: "One Piece", Status: StatusWatching, Tier: TierS, Rating: Ptr(9.5), CoverURL: "https://img/op.jpg", AddedAt: at, UpdatedAt: at.Add(time.Hour)},
		{ID: "a", Title: "Naruto", Status: StatusCompleted, Tier: TierUnrated, AddedAt: at, UpdatedAt: at},
	}
	doc, err := MarshalItems(items)
	require.NoError(t, err)

	got, err := UnmarshalItems(doc)
	require.NoError(t, err)
	assert.Equal(t, items, got)
}

func TestMarshalNilIsEmptyArray(t *testing.T) {
	doc, err := MarshalItems(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(doc))
}

func TestUnmarshalItemsRejectsNonSequence(t *testing.T) {
	for _, doc := range []string{`{"id":"x"}`, `"hello"`, `42`, `null`, `true`} {
		_, err := UnmarshalItems([]byte(doc))
		assert.ErrorIs(t, err, ErrNotSequence, "doc %s", doc)
	}
}

func TestUnmarshalItemsRejectsMalformed(t *testing.T) {
	for _, doc := range []string{``, `[{"id":`, `not json`, `[1,2]`, `[{"id":"a","ratingNumeric":"high"}]`} {
		_, err := UnmarshalItems([]byte(doc))
		require.Error(t, err, "doc %q", doc)
		assert.True(t, errors.Is(err, ErrMalformed), "doc %q: %v", doc, err)
	}
}

func TestUnmarshalItemsToleratesOlderShapes(t *testing.T) {
	doc := `[
		{"id":"1","title":"Bleach","tier":"Z","ratingNumeric":"7.5"},
		{"id":"2","title":"Mushishi","status":"paused","tier":"s","ratingNumeric":""},
		{"id":"3","title":"Monster","status":"planned","addedAt":"yesterday"}
	]`
	items, err := UnmarshalItems([]byte(doc))
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, TierUnrated, items[0].Tier)
	assert.Equal(t, DefaultStatus, items[0].Status)
	require.NotNil(t, items[0].Rating)
	assert.Equal(t, 7.5, *items[0].Rating)

	assert.Equal(t, TierS, items[1].Tier)
	assert.Equal(t, Status("paused"), items[1].Status)
	assert.Nil(t, items[1].Rating)

	assert.Equal(t, StatusPlanned, items[2].Status)
	assert.True(t, items[2].AddedAt.IsZero())
}

func TestUnmarshalItemsAcceptsCommaDecimal(t *testing.T) {
	items, err := UnmarshalItems([]byte(`[{"id":"b","title":"Bleach","ratingNumeric":"8,5"}]`))
	require.NoError(t, err)
	require.NotNil(t, items[0].Rating)
	assert.Equal(t, 8.5, *items[0].Rating)
}

func TestUnmarshalItemsLenient(t *testing.T) {
	doc := `[
		{"id":"a","title":"Naruto","tier":"A"},
		{"id":"b","title":"Bleach","ratingNumeric":"great"},
		{"id":"c","title":86,"status":["x"],"tier":"b","ratingNumeric":{"v":1}},
		7,
		"loose",
		{"id":"d","title":"Monster","ratingNumeric":9}
	]`
	items, skipped, err := UnmarshalItemsLenient([]byte(doc))
	require.NoError(t, err)
	require.Len(t, items, 4)
	require.Len(t, skipped, 2)
	for _, e := range skipped {
		assert.ErrorIs(t, e, ErrMalformed)
	}

	assert.Equal(t, []string{"a", "b", "c", "d"}, []string{items[0].ID, items[1].ID, items[2].ID, items[3].ID})
	assert.Nil(t, items[1].Rating)
	assert.Equal(t, "86", items[2].Title)
	assert.Equal(t, DefaultStatus, items[2].Status)
	assert.Equal(t, TierB, items[2].Tier)
	assert.Nil(t, items[2].Rating)
	require.NotNil(t, items[3].Rating)
	assert.Equal(t, 9.0, *items[3].Rating)

	_, err = UnmarshalItems([]byte(doc))
	assert.ErrorIs(t, err, ErrMalformed, "import stays strict")
}

func TestUnmarshalItemsLenientDocumentErrors(t *testing.T) {
	_, _, err := UnmarshalItemsLenient([]byte(`{"id":"x"}`))
	assert.ErrorIs(t, err, ErrNotSequence)
	_, _, err = UnmarshalItemsLenient([]byte(`not json`))
	assert.ErrorIs(t, err, ErrMalformed)
}
