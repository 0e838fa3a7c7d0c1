package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/idilsaglam/tierlist/internal/logging"
)

// DefaultEndpoint is the public AniList GraphQL API.
const DefaultEndpoint = "https://graphql.anilist.co"

const (
	defaultPerPage = 8
	unknownTitle   = "Unknown"
)

const mediaQuery = `query ($q: String, $perPage: Int) {
  Page(perPage: $perPage) {
    media(search: $q, type: ANIME) {
      id
      title { romaji english native }
      seasonYear
      episodes
      genres
      coverImage { large color }
    }
  }
}`

// AniList searches anime on AniList.
type AniList struct {
	endpoint   string
	token      string
	perPage    int
	httpClient *http.Client
	log        log.FieldLogger
}

var _ Provider = (*AniList)(nil)

// Option configures an AniList client.
type Option func(*AniList)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(a *AniList) {
		if client != nil {
			a.httpClient = client
		}
	}
}

// WithEndpoint points the client at another GraphQL endpoint.
func WithEndpoint(endpoint string) Option {
	return func(a *AniList) {
		if e := strings.TrimSpace(endpoint); e != "" {
			a.endpoint = e
		}
	}
}

// WithToken sends a bearer token with every request.
func WithToken(token string) Option {
	return func(a *AniList) { a.token = strings.TrimSpace(token) }
}

// WithPerPage caps the number of candidates per query.
func WithPerPage(n int) Option {
	return func(a *AniList) {
		if n > 0 {
			a.perPage = n
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(a *AniList) {
		if d > 0 {
			a.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithLogger routes request failures to logger.
func WithLogger(logger log.FieldLogger) Option {
	return func(a *AniList) {
		if logger != nil {
			a.log = logger
		}
	}
}

// NewAniList creates a client with defaults suited to interactive use.
func NewAniList(opts ...Option) *AniList {
	a := &AniList{
		endpoint:   DefaultEndpoint,
		perPage:    defaultPerPage,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logging.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Search implements Provider.
func (a *AniList) Search(ctx context.Context, query string) []Candidate {
	out, err := a.Query(ctx, query)
	if err != nil {
		a.log.WithError(err).WithField("query", query).Debug("anilist search failed")
		return []Candidate{}
	}
	return out
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type gqlMedia struct {
	ID    int `json:"id"`
	Title struct {
		Romaji  string `json:"romaji"`
		English string `json:"english"`
		Native  string `json:"native"`
	} `json:"title"`
	SeasonYear int      `json:"seasonYear"`
	Episodes   int      `json:"episodes"`
	Genres     []string `json:"genres"`
	CoverImage struct {
		Large string `json:"large"`
		Color string `json:"color"`
	} `json:"coverImage"`
}

type gqlResponse struct {
	Data struct {
		Page struct {
			Media []gqlMedia `json:"media"`
		} `json:"Page"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Query is Search with the failure reported.
func (a *AniList) Query(ctx context.Context, query string) ([]Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Candidate{}, nil
	}
	body, err := json.Marshal(gqlRequest{
		Query:     mediaQuery,
		Variables: map[string]any{"q": query, "perPage": a.perPage},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	start := time.Now()
	resp, err := a.httpClient.Do(req)
	latency := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("anilist returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload gqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode anilist response: %w", err)
	}
	if len(payload.Errors) > 0 && len(payload.Data.Page.Media) == 0 {
		return nil, fmt.Errorf("anilist: %s", payload.Errors[0].Message)
	}
	a.log.WithFields(log.Fields{"query": query, "results": len(payload.Data.Page.Media), "latency": latency}).Debug("anilist search")

	out := make([]Candidate, 0, len(payload.Data.Page.Media))
	for _, m := range payload.Data.Page.Media {
		out = append(out, m.candidate())
	}
	return out, nil
}

func (m gqlMedia) candidate() Candidate {
	c := Candidate{
		ID:       m.ID,
		Title:    firstNonEmpty(m.Title.English, m.Title.Romaji, m.Title.Native),
		CoverURL: m.CoverImage.Large,
		Genres:   m.Genres,
		Color:    m.CoverImage.Color,
	}
	if c.Title == "" {
		c.Title = unknownTitle
	}
	if c.Genres == nil {
		c.Genres = []string{}
	}
	if m.SeasonYear > 0 {
		y := m.SeasonYear
		c.Year = &y
	}
	if m.Episodes > 0 {
		e := m.Episodes
		c.Episodes = &e
	}
	for _, t := range []string{m.Title.Romaji, m.Title.Native, m.Title.English} {
		if strings.TrimSpace(t) != "" {
			c.AltTitles = append(c.AltTitles, t)
		}
	}
	return c
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
