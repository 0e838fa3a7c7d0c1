package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tierlist/internal/model"
)

const narutoPayload = `{"data":{"Page":{"media":[
  {"id":20,"title":{"romaji":"NARUTO","english":"Naruto","native":"ナルト"},"seasonYear":2002,"episodes":220,
   "genres":["Action","Adventure"],"coverImage":{"large":"https://img/20.jpg","color":"#e4a15d"}},
  {"id":21,"title":{"romaji":"ONE PIECE","english":null,"native":"ワンピース"},"seasonYear":null,"episodes":null,
   "genres":null,"coverImage":{"large":"","color":null}},
  {"id":22,"title":{"romaji":null,"english":null,"native":null},"coverImage":null}
]}}}`

func TestAniListSearchSuccess(t *testing.T) {
	var got gqlRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(narutoPayload))
	}))
	t.Cleanup(server.Close)

	c := NewAniList(WithEndpoint(server.URL))
	res := c.Search(context.Background(), "  naruto ")

	assert.Equal(t, "naruto", got.Variables["q"])
	assert.EqualValues(t, 8, got.Variables["perPage"])
	assert.Contains(t, got.Query, "type: ANIME")

	require.Len(t, res, 3)
	n := res[0]
	assert.Equal(t, 20, n.ID)
	assert.Equal(t, "Naruto", n.Title)
	assert.Equal(t, "https://img/20.jpg", n.CoverURL)
	require.NotNil(t, n.Year)
	assert.Equal(t, 2002, *n.Year)
	require.NotNil(t, n.Episodes)
	assert.Equal(t, 220, *n.Episodes)
	assert.Equal(t, []string{"Action", "Adventure"}, n.Genres)
	assert.Equal(t, []string{"NARUTO", "ナルト", "Naruto"}, n.AltTitles)
	assert.Equal(t, "#e4a15d", n.Color)

	op := res[1]
	assert.Equal(t, "ONE PIECE", op.Title, "romaji when english is missing")
	assert.Nil(t, op.Year)
	assert.Nil(t, op.Episodes)
	assert.Empty(t, op.Genres)
	assert.NotNil(t, op.Genres)

	assert.Equal(t, "Unknown", res[2].Title)
}

func TestAniListOptions(t *testing.T) {
	var got gqlRequest
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"data":{"Page":{"media":[]}}}`))
	}))
	t.Cleanup(server.Close)

	c := NewAniList(WithEndpoint(server.URL), WithToken(" secret "), WithPerPage(3),
		WithHTTPClient(server.Client()))
	res := c.Search(context.Background(), "bleach")

	assert.Empty(t, res)
	assert.NotNil(t, res)
	assert.Equal(t, "Bearer secret", auth)
	assert.EqualValues(t, 3, got.Variables["perPage"])
}

func TestAniListFailuresYieldEmpty(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"rate limited": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		},
		"malformed json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":`))
		},
		"graphql errors": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"bad query"}]}`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(h)
			t.Cleanup(server.Close)

			logger, hook := logtest.NewNullLogger()
			logger.SetLevel(logrus.DebugLevel)
			c := NewAniList(WithEndpoint(server.URL), WithLogger(logger))

			res := c.Search(context.Background(), "naruto")
			assert.Empty(t, res)
			require.NotNil(t, hook.LastEntry())
			assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)

			_, err := c.Query(context.Background(), "naruto")
			assert.Error(t, err)
		})
	}
}

func TestAniListTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := NewAniList(WithEndpoint(url), WithTimeout(time.Second))
	assert.Empty(t, c.Search(context.Background(), "naruto"))
}

func TestAniListEmptyQuerySkipsRequest(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	t.Cleanup(server.Close)

	c := NewAniList(WithEndpoint(server.URL))
	assert.Empty(t, c.Search(context.Background(), "   "))
	assert.Zero(t, calls.Load())
}

func TestGuard(t *testing.T) {
	var queries []string
	inner := ProviderFunc(func(ctx context.Context, q string) []Candidate {
		queries = append(queries, q)
		return []Candidate{{Title: q}}
	})
	p := Guard(inner, MinQueryLength)

	assert.Empty(t, p.Search(context.Background(), ""))
	assert.Empty(t, p.Search(context.Background(), " a "))
	assert.Empty(t, queries)

	assert.Len(t, p.Search(context.Background(), "ab"), 1)
	assert.Len(t, p.Search(context.Background(), "ナル"), 1, "length counts runes")
	assert.Equal(t, []string{"ab", "ナル"}, queries)
}

func TestCandidateApplyTo(t *testing.T) {
	d := model.Draft{Title: "naru", Status: "WATCHING", Tier: "S", Rating: model.Ptr(9.0)}
	Candidate{Title: "Naruto", CoverURL: "https://img/20.jpg", Genres: []string{"Action"}}.ApplyTo(&d)

	assert.Equal(t, "Naruto", d.Title)
	assert.Equal(t, "https://img/20.jpg", d.CoverURL)
	assert.Equal(t, "WATCHING", d.Status)
	assert.Equal(t, "S", d.Tier)
	assert.Equal(t, 9.0, *d.Rating)
}
