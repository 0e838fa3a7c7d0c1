// Package tui is the interactive tier board.
package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	"github.com/idilsaglam/tierlist/internal/board"
	"github.com/idilsaglam/tierlist/internal/collection"
	"github.com/idilsaglam/tierlist/internal/logging"
	"github.com/idilsaglam/tierlist/internal/model"
	"github.com/idilsaglam/tierlist/internal/search"
	"github.com/idilsaglam/tierlist/internal/transfer"
	"github.com/idilsaglam/tierlist/internal/ui"
)

// Options wire the board to its collaborators.
type Options struct {
	Repo          *collection.Repository
	Layout        board.Layout
	DefaultStatus model.Status
	// Provider is nil when online search is disabled.
	Provider       search.Provider
	MinQueryLength int
	Debounce       time.Duration
	SearchTimeout  time.Duration
	// TransferDir is where x writes and i reads the backup file.
	TransferDir string
	Logger      log.FieldLogger
}

// deleted remembers the last removed item and where it sat.
type deleted struct {
	item  model.Item
	index int
}

type mode int

const (
	modeBrowse mode = iota
	modeQuery
	modeForm
)

// Model implements tea.Model.
type Model struct {
	opts  Options
	keys  keyMap
	help  help.Model
	tiers []model.Tier

	items  []model.Item
	filter board.Filter
	board  board.Board

	row, col int
	grabbed  string
	undo     *deleted

	mode  mode
	query textinput.Model
	form  form

	flash    string
	flashErr bool

	width, height int
}

// New builds the board model from the current collection.
func New(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.SearchTimeout <= 0 {
		opts.SearchTimeout = 10 * time.Second
	}
	if opts.TransferDir == "" {
		opts.TransferDir = "."
	}
	q := textinput.New()
	q.Prompt = "/ "
	q.Placeholder = "filter by title"
	q.CharLimit = 100

	m := Model{
		opts:   opts,
		keys:   newKeyMap(),
		help:   help.New(),
		tiers:  opts.Layout.Tiers(),
		query:  q,
		width:  80,
		height: 24,
	}
	m.help.Styles.ShortKey = helpStyle
	m.help.Styles.ShortDesc = helpStyle
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// refresh re-reads the collection and re-projects, keeping the cursor in range.
func (m *Model) refresh() {
	m.items = m.opts.Repo.Snapshot()
	m.board = board.Project(m.items, m.filter, m.opts.Layout)
	m.row = clamp(m.row, 0, len(m.board.Rows)-1)
	m.col = clamp(m.col, 0, len(m.board.Rows[m.row].Items)-1)
	if m.grabbed != "" {
		if _, ok := m.opts.Repo.Get(m.grabbed); !ok {
			m.grabbed = ""
		}
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}

// current is the item under the cursor.
func (m Model) current() (model.Item, bool) {
	items := m.board.Rows[m.row].Items
	if m.col < 0 || m.col >= len(items) {
		return model.Item{}, false
	}
	return items[m.col], true
}

func (m *Model) say(format string, args ...any) {
	m.flash = fmt.Sprintf(format, args...)
	m.flashErr = false
}

func (m *Model) fail(err error) {
	m.flash = err.Error()
	m.flashErr = true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case debounceMsg:
		if m.mode != modeForm || m.form.session == nil || m.opts.Provider == nil {
			return m, nil
		}
		q, ok := m.form.session.Fire(msg.seq)
		if !ok {
			return m, nil
		}
		return m, searchCmd(m.opts.Provider, msg.seq, q, m.opts.SearchTimeout)
	case resultsMsg:
		if m.mode == modeForm && m.form.session != nil {
			m.form.session.Deliver(msg.seq, msg.results)
		}
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeQuery:
			return m.updateQuery(msg)
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	switch m.mode {
	case modeForm:
		m.form, cmd = m.form.updateInputs(msg)
	case modeQuery:
		m.query, cmd = m.query.Update(msg)
	}
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.flash = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case msg.String() == "esc":
		if m.grabbed != "" {
			m.grabbed = ""
			m.say("drop cancelled")
			return m, nil
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.row = clamp(m.row-1, 0, len(m.board.Rows)-1)
		m.col = clamp(m.col, 0, len(m.board.Rows[m.row].Items)-1)
	case key.Matches(msg, m.keys.Down):
		m.row = clamp(m.row+1, 0, len(m.board.Rows)-1)
		m.col = clamp(m.col, 0, len(m.board.Rows[m.row].Items)-1)
	case key.Matches(msg, m.keys.Left):
		m.col = clamp(m.col-1, 0, len(m.board.Rows[m.row].Items)-1)
	case key.Matches(msg, m.keys.Right):
		m.col = clamp(m.col+1, 0, len(m.board.Rows[m.row].Items)-1)
	case key.Matches(msg, m.keys.Grab), key.Matches(msg, m.keys.Drop):
		m.grabOrDrop()
	case key.Matches(msg, m.keys.Add):
		m.form = newForm(m.tiers, m.opts.DefaultStatus, m.newSession())
		m.mode = modeForm
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Edit):
		if it, ok := m.current(); ok {
			m.form = editForm(it, m.tiers, m.newSession())
			m.mode = modeForm
			return m, textinput.Blink
		}
	case key.Matches(msg, m.keys.Delete):
		if it, ok := m.current(); ok {
			at := slices.IndexFunc(m.items, func(x model.Item) bool { return x.ID == it.ID })
			m.undo = &deleted{item: it, index: at}
			m.opts.Repo.Delete(it.ID)
			m.refresh()
			m.say("deleted %q (u to undo)", it.Title)
		}
	case key.Matches(msg, m.keys.Undo):
		if d := m.undo; d != nil {
			m.undo = nil
			if m.opts.Repo.Restore(d.item, d.index) {
				m.say("restored %q", d.item.Title)
			}
			m.refresh()
			m.focusItem(d.item.ID)
		}
	case key.Matches(msg, m.keys.Query):
		m.mode = modeQuery
		m.query.SetValue(m.filter.Query)
		m.query.CursorEnd()
		m.query.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Status):
		m.filter.Status = nextStatus(m.filter.Status)
		m.refresh()
	case key.Matches(msg, m.keys.Clear):
		m.filter = board.Filter{}
		m.refresh()
	case key.Matches(msg, m.keys.Export):
		m.export()
	case key.Matches(msg, m.keys.Import):
		m.importBackup()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	default:
		m.moveByDigit(msg.String())
	}
	return m, nil
}

// grabOrDrop picks up the current item, or drops the held one on the
// current row. The held payload is only the item id.
func (m *Model) grabOrDrop() {
	if m.grabbed == "" {
		if it, ok := m.current(); ok {
			m.grabbed = it.ID
			m.say("moving %q: pick a row and press space", it.Title)
		}
		return
	}
	id := m.grabbed
	m.grabbed = ""
	tier := m.board.Rows[m.row].Tier
	if !m.opts.Repo.MoveToTier(id, string(tier)) {
		m.fail(errors.New("item no longer exists"))
		m.refresh()
		return
	}
	m.refresh()
	m.focusItem(id)
	m.say("moved to %s", tier)
}

func (m *Model) moveByDigit(k string) {
	if len(k) != 1 || k[0] < '1' || k[0] > '9' {
		return
	}
	n := int(k[0] - '1')
	if n >= len(m.tiers) {
		return
	}
	it, ok := m.current()
	if !ok {
		return
	}
	m.opts.Repo.MoveToTier(it.ID, string(m.tiers[n]))
	m.refresh()
	m.focusItem(it.ID)
	m.say("moved %q to %s", it.Title, m.tiers[n])
}

// focusItem puts the cursor on id when it is visible.
func (m *Model) focusItem(id string) {
	for r, row := range m.board.Rows {
		for c, it := range row.Items {
			if it.ID == id {
				m.row, m.col = r, c
				return
			}
		}
	}
}

func nextStatus(s model.Status) model.Status {
	if s == "" {
		return model.Statuses[0]
	}
	for i, st := range model.Statuses {
		if st == s && i+1 < len(model.Statuses) {
			return model.Statuses[i+1]
		}
	}
	return ""
}

func (m *Model) newSession() *search.Session {
	if m.opts.Provider == nil {
		return nil
	}
	return search.NewSession(m.opts.MinQueryLength, m.opts.Debounce)
}

func (m *Model) backupPath() string {
	return filepath.Join(m.opts.TransferDir, transfer.BackupFileName)
}

func (m *Model) export() {
	path := m.backupPath()
	if err := transfer.ExportFile(path, m.items); err != nil {
		m.opts.Logger.WithError(err).Error("export")
		m.fail(err)
		return
	}
	m.say("exported %d items to %s", len(m.items), path)
}

func (m *Model) importBackup() {
	res, err := transfer.ImportFile(m.backupPath(), m.opts.Repo)
	if err != nil {
		m.opts.Logger.WithError(err).Warn("import rejected")
		m.fail(err)
		return
	}
	m.undo = nil
	m.grabbed = ""
	m.refresh()
	m.say("imported %d items", res.Imported)
}

func (m Model) updateQuery(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeBrowse
		m.query.Blur()
		return m, nil
	case "esc":
		m.mode = modeBrowse
		m.query.Blur()
		m.query.SetValue("")
		m.filter.Query = ""
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	m.filter.Query = m.query.Value()
	m.refresh()
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	f, action, cmd := m.form.update(msg)
	m.form = f
	switch action {
	case formCancel:
		m.mode = modeBrowse
	case formSubmit:
		m.submitForm()
	}
	return m, cmd
}

func (m *Model) submitForm() {
	if strings.TrimSpace(m.form.title.Value()) == "" {
		m.form.err = "Title cannot be empty"
		return
	}
	if m.form.editID == "" {
		d, err := m.form.draft()
		if err != nil {
			m.form.err = err.Error()
			return
		}
		it, _ := m.opts.Repo.Add(d)
		m.refresh()
		m.focusItem(it.ID)
		m.say("added %q", it.Title)
	} else {
		p, err := m.form.patch()
		if err != nil {
			m.form.err = err.Error()
			return
		}
		m.opts.Repo.Update(m.form.editID, p)
		m.refresh()
		m.focusItem(m.form.editID)
		m.say("saved")
	}
	if m.form.session != nil {
		m.form.session.Escape()
	}
	m.mode = modeBrowse
}

func (m Model) View() string {
	w := m.width - 4
	sections := []string{m.header()}

	for i, row := range m.board.Rows {
		sections = append(sections, m.rowView(i, row, w))
	}
	if len(m.items) == 0 {
		sections = append(sections, mutedStyle.Render("No entries yet. Press a to add one."))
	} else if m.board.Len() == 0 {
		sections = append(sections, mutedStyle.Render("Nothing matches the current filter. Press c to clear it."))
	}

	switch m.mode {
	case modeQuery:
		sections = append(sections, m.query.View())
	case modeForm:
		sections = append(sections, m.form.view(m.width-4))
	}
	if m.flash != "" {
		style := successStyle
		if m.flashErr {
			style = errorStyle
		}
		sections = append(sections, style.Render(m.flash))
	}
	sections = append(sections, m.help.View(m.keys))
	return frameStyle.Render(strings.Join(sections, "\n"))
}

func (m Model) header() string {
	c := board.Tally(m.items)
	parts := []string{titleStyle.Render("Anime Tier List")}
	for _, s := range model.Statuses {
		parts = append(parts, fmt.Sprintf("%s %d", statusBadge(s), c.ByStatus[s]))
	}
	parts = append(parts,
		accentStyle.Render("Total")+fmt.Sprintf(" %d", c.Total),
		pendingStyle.Render("Rated")+fmt.Sprintf(" %d", c.Rated),
	)
	line := strings.Join(parts, "   ")

	var filters []string
	if q := strings.TrimSpace(m.filter.Query); q != "" {
		filters = append(filters, fmt.Sprintf("title ~ %q", q))
	}
	if m.filter.Status != "" {
		filters = append(filters, "status = "+m.filter.Status.Label())
	}
	if m.filter.Active() {
		line += "\n" + mutedStyle.Render(fmt.Sprintf("filter: %s  (%d/%d shown)",
			strings.Join(filters, ", "), m.board.Len(), len(m.items)))
	}
	return line
}

func (m Model) rowView(i int, row board.Row, width int) string {
	active := i == m.row
	label := tierLabelStyle(row.Tier, active).Render(string(row.Tier))

	cards := make([]string, 0, len(row.Items))
	for j, it := range row.Items {
		cards = append(cards, m.card(it, active && j == m.col))
	}
	if len(cards) == 0 {
		cards = append(cards, mutedStyle.Render("·"))
	}

	avail := width - labelWidth - 1
	if avail < 20 {
		avail = 20
	}
	var lines []string
	cur := ""
	for _, c := range cards {
		switch {
		case cur == "":
			cur = c
		case lipgloss.Width(cur)+1+lipgloss.Width(c) > avail:
			lines = append(lines, cur)
			cur = c
		default:
			cur += " " + c
		}
	}
	lines = append(lines, cur)
	return lipgloss.JoinHorizontal(lipgloss.Top, label, " ", strings.Join(lines, "\n"))
}

func (m Model) card(it model.Item, selected bool) string {
	parts := []string{it.Title, statusBadge(it.Status)}
	if it.HasCover() {
		parts[0] = coverMark + it.Title
	}
	if it.Rating != nil {
		parts = append(parts, pendingStyle.Render("★ "+ui.Rating(it.Rating)))
	}
	text := strings.Join(parts, " · ")
	switch {
	case it.ID == m.grabbed:
		return grabbedStyle.Render("[" + it.Title + "]")
	case selected:
		return selectedStyle.Render(" " + it.Title + " ")
	}
	return cardStyle.Render(text)
}
