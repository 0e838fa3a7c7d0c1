package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tierlist/internal/model"
	"github.com/idilsaglam/tierlist/internal/transfer"
)

type env struct {
	dir     string
	dataDir string
	config  string
}

func newEnv(t *testing.T, extra string) *env {
	t.Helper()
	dir := t.TempDir()
	e := &env{
		dir:     dir,
		dataDir: filepath.Join(dir, "data"),
		config:  filepath.Join(dir, "config.toml"),
	}
	t.Setenv("HOME", dir)
	t.Setenv("TIERLIST_CONFIG", e.config)
	t.Setenv("TIERLIST_STORAGE_DIR", e.dataDir)
	t.Setenv("TIERLIST_ANILIST_TOKEN", "")
	e.write(t, extra)
	return e
}

func (e *env) write(t *testing.T, extra string) {
	t.Helper()
	cfg := fmt.Sprintf(`
[logging]
level = "debug"
file = %q

[ui]
theme = "mono"
%s
`, filepath.Join(e.dir, "tierlist.log"), extra)
	require.NoError(t, os.WriteFile(e.config, []byte(cfg), 0o644))
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	return runCLIWithInput(t, "", args...)
}

func runCLIWithInput(t *testing.T, in string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(append([]string{"--color", "never"}, args...), strings.NewReader(in), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func exportItems(t *testing.T) []model.Item {
	t.Helper()
	code, out, errOut := runCLI(t, "export", "-")
	require.Equal(t, 0, code, errOut)
	items, err := model.UnmarshalItems([]byte(out))
	require.NoError(t, err)
	return items
}

func TestAddThenList(t *testing.T) {
	newEnv(t, "")

	code, out, errOut := runCLI(t, "add", "Frieren", "--tier", "s", "--rating", "9.5")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, `"Frieren" [S]`)

	code, _, errOut = runCLI(t, "add", "Made", "in", "Abyss", "--status", "watching")
	require.Equal(t, 0, code, errOut)

	code, out, errOut = runCLI(t, "ls")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Frieren")
	assert.Contains(t, out, "Made in Abyss")
	assert.Contains(t, out, "9.5")
	assert.Contains(t, out, "watching")
	assert.Less(t, strings.Index(out, "Frieren"), strings.Index(out, "Made in Abyss"), "S row renders before Unrated")

	items := exportItems(t)
	require.Len(t, items, 2)
	assert.Equal(t, "Made in Abyss", items[0].Title, "newest first")
	assert.Equal(t, model.TierUnrated, items[0].Tier)
	assert.Equal(t, model.StatusCompleted, items[1].Status)
}

func TestListFilters(t *testing.T) {
	newEnv(t, "")
	runCLI(t, "add", "Frieren")
	runCLI(t, "add", "Mushishi", "--status", "planned")

	code, out, _ := runCLI(t, "ls", "--query", "FRIE")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Frieren")
	assert.NotContains(t, out, "Mushishi")
	assert.Contains(t, out, "(1/2 shown)")

	code, out, _ = runCLI(t, "ls", "--status", "planned", "--flat")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Mushishi")
	assert.NotContains(t, out, "Frieren")

	code, _, errOut := runCLI(t, "ls", "--status", "binged")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "unknown status")
}

func TestEmptyBoard(t *testing.T) {
	newEnv(t, "")
	code, out, _ := runCLI(t, "ls")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "no items")
}

func TestEditMoveRemove(t *testing.T) {
	newEnv(t, "")
	runCLI(t, "add", "Frieren", "--rating", "8")
	id := exportItems(t)[0].ID

	code, _, errOut := runCLI(t, "edit", id[:8], "--title", "Sousou no Frieren", "--clear-rating")
	require.Equal(t, 0, code, errOut)
	it := exportItems(t)[0]
	assert.Equal(t, "Sousou no Frieren", it.Title)
	assert.Nil(t, it.Rating)

	code, _, errOut = runCLI(t, "move", id, "a")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, model.TierA, exportItems(t)[0].Tier)

	code, _, errOut = runCLI(t, "rm", id)
	require.Equal(t, 0, code, errOut)
	assert.Empty(t, exportItems(t))
}

func TestUsageErrors(t *testing.T) {
	newEnv(t, "")
	runCLI(t, "add", "Frieren")
	id := exportItems(t)[0].ID

	cases := []struct {
		name string
		args []string
	}{
		{"unknown command", []string{"frobnicate"}},
		{"add without title", []string{"add", "  "}},
		{"bad tier", []string{"move", id, "Z"}},
		{"god tier disabled", []string{"move", id, "GOD"}},
		{"rating out of range", []string{"add", "Mob", "--rating", "11"}},
		{"edit nothing", []string{"edit", id}},
		{"rating and clear", []string{"edit", id, "--rating", "5", "--clear-rating"}},
		{"unknown flag", []string{"ls", "--nope"}},
		{"bad color", []string{"ls", "--color", "sometimes"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, errOut := runCLI(t, tc.args...)
			assert.Equal(t, 2, code)
			assert.NotEmpty(t, errOut)
		})
	}
	assert.Len(t, exportItems(t), 1)
}

func TestUnknownID(t *testing.T) {
	newEnv(t, "")
	code, _, errOut := runCLI(t, "rm", "does-not-exist")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "not found")
}

func TestGodTierFromConfig(t *testing.T) {
	newEnv(t, "[board]\ngod_tier = true\nunrated_position = \"first\"\n")
	code, _, errOut := runCLI(t, "add", "Gurren Lagann", "--tier", "god")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, model.TierGod, exportItems(t)[0].Tier)
}

func TestExportImportFiles(t *testing.T) {
	e := newEnv(t, "")
	runCLI(t, "add", "Frieren", "--tier", "S")
	runCLI(t, "add", "Mushishi", "--tier", "A")

	path := filepath.Join(e.dir, "out", transfer.BackupFileName)
	code, out, errOut := runCLI(t, "export", path)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "exported 2 entries")
	before := exportItems(t)

	runCLI(t, "rm", before[0].ID)
	require.Len(t, exportItems(t), 1)

	code, out, errOut = runCLI(t, "import", path)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "imported 2 entries")
	assert.Equal(t, before, exportItems(t))
}

func TestImportRejectsInvalid(t *testing.T) {
	e := newEnv(t, "")
	runCLI(t, "add", "Frieren")

	bad := filepath.Join(e.dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"title":"not a list"}`), 0o644))
	code, _, errOut := runCLI(t, "import", bad)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid import")
	assert.Len(t, exportItems(t), 1, "collection untouched")

	code, _, _ = runCLIWithInput(t, `[{"id":"x1","title":"Mob Psycho","tier":"B"}]`, "import", "-")
	require.Equal(t, 0, code)
	items := exportItems(t)
	require.Len(t, items, 1)
	assert.Equal(t, "Mob Psycho", items[0].Title)
}

func anilistServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Variables map[string]any `json:"variables"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, "frieren", req.Variables["q"])
		_, _ = w.Write([]byte(`{"data":{"Page":{"media":[
			{"id":1,"title":{"romaji":"Sousou no Frieren","english":"Frieren: Beyond Journey's End"},
			 "coverImage":{"large":"https://img/frieren.jpg"},"seasonYear":2023,"episodes":28,"genres":["Adventure","Drama","Fantasy","Extra"]},
			{"id":2,"title":{"romaji":"Frieren Minis"}}
		]}}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSearch(t *testing.T) {
	srv := anilistServer(t)
	newEnv(t, fmt.Sprintf("[search]\nendpoint = %q\n", srv.URL))

	code, out, errOut := runCLI(t, "search", "frieren")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Frieren: Beyond Journey's End")
	assert.Contains(t, out, "2023")
	assert.Contains(t, out, "Adventure, Drama, Fantasy")
	assert.NotContains(t, out, "Extra")
	assert.Contains(t, out, "Frieren Minis")

	code, _, errOut = runCLI(t, "search", "frieren", "--add", "1")
	require.Equal(t, 0, code, errOut)
	it := exportItems(t)[0]
	assert.Equal(t, "Frieren: Beyond Journey's End", it.Title)
	assert.Equal(t, "https://img/frieren.jpg", it.CoverURL)
	assert.Equal(t, model.TierUnrated, it.Tier)

	code, _, _ = runCLI(t, "search", "frieren", "--add", "9")
	assert.Equal(t, 2, code)
}

func TestSearchShortAndDisabled(t *testing.T) {
	e := newEnv(t, "")
	code, _, errOut := runCLI(t, "search", "f")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "at least 2")

	e.write(t, "[search]\nenabled = false\n")
	code, _, errOut = runCLI(t, "search", "frieren")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "disabled")
}

func TestSearchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)
	newEnv(t, fmt.Sprintf("[search]\nendpoint = %q\n", srv.URL))

	code, _, errOut := runCLI(t, "search", "frieren")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "429")
}

func TestConfigCommands(t *testing.T) {
	e := newEnv(t, "")

	code, out, _ := runCLI(t, "config", "path")
	require.Equal(t, 0, code)
	assert.Equal(t, e.config, strings.TrimSpace(out))

	code, out, _ = runCLI(t, "config", "show")
	require.Equal(t, 0, code)
	assert.Contains(t, out, e.dataDir)
	assert.Contains(t, out, "[ui]")
	assert.Contains(t, out, "mono")

	code, _, errOut := runCLI(t, "config", "init")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "already exists")

	require.NoError(t, os.WriteFile(e.config, []byte("not = [valid"), 0o644))
	code, _, errOut = runCLI(t, "config", "init", "--force")
	require.Equal(t, 0, code, errOut)
	raw, err := os.ReadFile(e.config)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[storage]")
}

func TestAuthCommands(t *testing.T) {
	e := newEnv(t, "")

	code, out, _ := runCLI(t, "auth", "status")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "not logged in")

	code, _, errOut := runCLIWithInput(t, "Bearer abc123\n", "auth", "login", "--expires-in", "24h")
	require.Equal(t, 0, code, errOut)
	info, err := os.Stat(filepath.Join(e.dir, ".tierlist", "credentials.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	code, out, _ = runCLI(t, "auth", "status")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "logged in via file")
	assert.Contains(t, out, "expires")

	code, _, _ = runCLI(t, "auth", "logout")
	require.Equal(t, 0, code)
	code, out, _ = runCLI(t, "auth", "status")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "not logged in")

	code, _, _ = runCLIWithInput(t, "\n", "auth", "login")
	assert.Equal(t, 1, code)
}

func TestSQLiteBackend(t *testing.T) {
	newEnv(t, "[storage]\nbackend = \"sqlite\"\n")
	code, _, errOut := runCLI(t, "add", "Frieren", "--tier", "S")
	require.Equal(t, 0, code, errOut)
	items := exportItems(t)
	require.Len(t, items, 1)
	assert.Equal(t, model.TierS, items[0].Tier)
}

func TestShortIDs(t *testing.T) {
	items := []model.Item{
		{ID: "0190aaaa-1111"},
		{ID: "0190aaaa-2222"},
		{ID: "0190bbbb-3333"},
		{ID: "abc"},
	}
	ids := shortIDs(items)
	assert.Equal(t, "0190aaaa-1", ids["0190aaaa-1111"])
	assert.Equal(t, "0190aaaa-2", ids["0190aaaa-2222"])
	assert.Equal(t, "0190bbbb", ids["0190bbbb-3333"])
	assert.Equal(t, "abc", ids["abc"])
}
