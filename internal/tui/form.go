package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tierlist/internal/model"
	"github.com/idilsaglam/tierlist/internal/search"
	"github.com/idilsaglam/tierlist/internal/ui"
)

type formField int

const (
	fieldTitle formField = iota
	fieldStatus
	fieldTier
	fieldRating
	fieldCover
	fieldCount
)

var fieldNames = [fieldCount]string{"Title", "Status", "Tier", "Rating", "Cover"}

type formAction int

const (
	formNone formAction = iota
	formSubmit
	formCancel
)

var errRating = errors.New("rating must be a number between 0 and 10")

// debounceMsg fires when typing paused long enough to query.
type debounceMsg struct{ seq uint64 }

// resultsMsg carries provider results for the query sent with seq.
type resultsMsg struct {
	seq     uint64
	results []search.Candidate
}

// form is the add/edit dialog. editID is empty when adding.
type form struct {
	editID string
	focus  formField

	title, rating, cover textinput.Model

	statuses []model.Status
	status   int
	tiers    []model.Tier
	tier     int
	// tier selector position when the form opened
	origTier int

	session *search.Session
	err     string
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	return ti
}

func newForm(tiers []model.Tier, status model.Status, session *search.Session) form {
	f := form{
		title:    newInput("Anime title (searches AniList)", 200),
		rating:   newInput("0-10", 4),
		cover:    newInput("https://...", 500),
		statuses: slices.Clone(model.Statuses),
		tiers:    tiers,
		session:  session,
	}
	f.status = max(slices.Index(f.statuses, status), 0)
	f.tier = max(slices.Index(f.tiers, model.TierUnrated), 0)
	f.focusField(fieldTitle)
	return f
}

func editForm(it model.Item, tiers []model.Tier, session *search.Session) form {
	f := newForm(tiers, it.Status, session)
	f.editID = it.ID
	if !it.Status.Known() {
		f.statuses = append(f.statuses, it.Status)
		f.status = len(f.statuses) - 1
	}
	if i := slices.Index(f.tiers, it.Tier); i >= 0 {
		f.tier = i
	}
	f.origTier = f.tier
	f.title.SetValue(it.Title)
	f.title.CursorEnd()
	if it.Rating != nil {
		f.rating.SetValue(ui.Rating(it.Rating))
	}
	f.cover.SetValue(it.CoverURL)
	return f
}

func (f *form) focusField(field formField) {
	f.focus = field
	for i, in := range []*textinput.Model{&f.title, nil, nil, &f.rating, &f.cover} {
		if in == nil {
			continue
		}
		if formField(i) == field {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (f form) suggestionsOpen() bool { return f.session != nil && f.session.Open() }

func (f form) update(msg tea.KeyMsg) (form, formAction, tea.Cmd) {
	f.err = ""
	k := msg.String()
	switch k {
	case "esc":
		if f.suggestionsOpen() {
			f.session.Escape()
			return f, formNone, nil
		}
		return f, formCancel, nil
	case "enter":
		if f.focus == fieldTitle && f.suggestionsOpen() {
			if c, ok := f.session.Commit(); ok {
				f.apply(c)
				return f, formNone, nil
			}
		}
		return f, formSubmit, nil
	case "up", "down":
		if f.focus == fieldTitle && f.suggestionsOpen() {
			if k == "up" {
				f.session.Up()
			} else {
				f.session.Down()
			}
			return f, formNone, nil
		}
		return f.move(k == "down"), formNone, nil
	case "tab":
		return f.move(true), formNone, nil
	case "shift+tab":
		return f.move(false), formNone, nil
	case "left", "right":
		step := 1
		if k == "left" {
			step = -1
		}
		switch f.focus {
		case fieldStatus:
			f.status = cycle(f.status, step, len(f.statuses))
			return f, formNone, nil
		case fieldTier:
			f.tier = cycle(f.tier, step, len(f.tiers))
			return f, formNone, nil
		}
	}
	if strings.HasPrefix(k, "alt+") && f.suggestionsOpen() {
		if n, err := strconv.Atoi(strings.TrimPrefix(k, "alt+")); err == nil {
			if c, ok := f.session.Pick(n - 1); ok {
				f.apply(c)
			}
			return f, formNone, nil
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		before := f.title.Value()
		f.title, cmd = f.title.Update(msg)
		if f.session != nil && f.title.Value() != before {
			return f, formNone, tea.Batch(cmd, debounce(f.session.Input(f.title.Value())))
		}
	case fieldRating:
		f.rating, cmd = f.rating.Update(msg)
	case fieldCover:
		f.cover, cmd = f.cover.Update(msg)
	}
	return f, formNone, cmd
}

// updateInputs forwards non-key messages such as cursor blinks.
func (f form) updateInputs(msg tea.Msg) (form, tea.Cmd) {
	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldRating:
		f.rating, cmd = f.rating.Update(msg)
	case fieldCover:
		f.cover, cmd = f.cover.Update(msg)
	}
	return f, cmd
}

func (f form) move(forward bool) form {
	if f.suggestionsOpen() {
		f.session.Escape()
	}
	step := 1
	if !forward {
		step = -1
	}
	f.focusField(formField(cycle(int(f.focus), step, int(fieldCount))))
	return f
}

func cycle(i, step, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i+step)%n + n) % n
}

// apply fills the form from a chosen suggestion without re-querying.
func (f *form) apply(c search.Candidate) {
	d := model.Draft{Title: f.title.Value(), CoverURL: f.cover.Value()}
	c.ApplyTo(&d)
	f.title.SetValue(d.Title)
	f.title.CursorEnd()
	f.cover.SetValue(d.CoverURL)
}

func (f form) parseRating() (*float64, error) {
	raw := strings.TrimSpace(f.rating.Value())
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || v < 0 || v > 10 {
		return nil, errRating
	}
	return &v, nil
}

func (f form) draft() (model.Draft, error) {
	rating, err := f.parseRating()
	if err != nil {
		return model.Draft{}, err
	}
	return model.Draft{
		Title:    f.title.Value(),
		Status:   string(f.statuses[f.status]),
		Tier:     string(f.tiers[f.tier]),
		Rating:   rating,
		CoverURL: f.cover.Value(),
	}, nil
}

func (f form) patch() (model.Patch, error) {
	d, err := f.draft()
	if err != nil {
		return model.Patch{}, err
	}
	p := model.Patch{
		Title:    &d.Title,
		Status:   &d.Status,
		CoverURL: &d.CoverURL,
	}
	// A tier missing from the selector (GOD while disabled) is kept
	// unless the user picks another one.
	if f.tier != f.origTier {
		p.Tier = &d.Tier
	}
	if d.Rating == nil {
		p.ClearRating = true
	} else {
		p.Rating = d.Rating
	}
	return p, nil
}

func (f form) view(width int) string {
	heading := "Add entry"
	if f.editID != "" {
		heading = "Edit entry"
	}
	lines := []string{titleStyle.Render(heading)}

	label := func(field formField) string {
		s := lipgloss.NewStyle().Width(8)
		if f.focus == field {
			s = s.Bold(true).Foreground(lipgloss.Color("12"))
		}
		return s.Render(fieldNames[field])
	}
	selector := func(field formField, v string) string {
		if f.focus == field {
			return accentStyle.Render("‹ " + v + " ›")
		}
		return "  " + v
	}

	lines = append(lines, label(fieldTitle)+f.title.View())
	lines = append(lines, f.suggestionLines()...)
	status := f.statuses[f.status]
	statusText := status.Label()
	if statusText == "" {
		statusText = string(status)
	}
	lines = append(lines,
		label(fieldStatus)+selector(fieldStatus, statusText),
		label(fieldTier)+selector(fieldTier, string(f.tiers[f.tier])),
		label(fieldRating)+f.rating.View(),
		label(fieldCover)+f.cover.View(),
	)
	if f.err != "" {
		lines = append(lines, errorStyle.Render(f.err))
	}
	lines = append(lines, helpStyle.Render("enter save · tab next field · ←/→ change · esc cancel"))

	box := frameStyle
	if width > 4 {
		box = box.Width(width - 4)
	}
	return box.Render(strings.Join(lines, "\n"))
}

func (f form) suggestionLines() []string {
	if f.session == nil {
		return nil
	}
	if f.session.Loading() {
		return []string{mutedStyle.Render("        searching...")}
	}
	if !f.session.Open() {
		return nil
	}
	out := make([]string, 0, len(f.session.Results()))
	for i, c := range f.session.Results() {
		meta := fmt.Sprintf("%s · %s eps", ui.Optional(c.Year), ui.Optional(c.Episodes))
		if len(c.Genres) > 0 {
			meta += " · " + strings.Join(c.Genres[:min(2, len(c.Genres))], ", ")
		}
		line := fmt.Sprintf("%d %s  %s", i+1, c.Title, mutedStyle.Render(meta))
		if i == f.session.Selected() {
			line = selectedStyle.Render(fmt.Sprintf("%d %s", i+1, c.Title)) + "  " + mutedStyle.Render(meta)
		}
		out = append(out, "        "+line)
	}
	return out
}

func debounce(t search.Tick) tea.Cmd {
	return tea.Tick(t.Delay, func(time.Time) tea.Msg { return debounceMsg{seq: t.Seq} })
}

func searchCmd(p search.Provider, seq uint64, query string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return resultsMsg{seq: seq, results: p.Search(ctx, query)}
	}
}
