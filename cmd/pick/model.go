package pick

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/tablediff/catalog"
	"github.com/cockroachdb/tablediff/dbconn"
)

type level int

const (
	levelDatabase level = iota
	levelSchema
	levelTable
	levelKey
)

func (l level) String() string {
	switch l {
	case levelDatabase:
		return "database"
	case levelSchema:
		return "schema"
	case levelTable:
		return "table"
	case levelKey:
		return "key columns"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

func (l level) plural() string {
	switch l {
	case levelDatabase:
		return "databases"
	case levelSchema:
		return "schemas with tables"
	case levelTable:
		return "tables"
	}
	return l.String()
}

const (
	sideSource = iota
	sideDestination
)

var sideTitles = [2]string{"Source", "Destination"}

// defaultDatabaseIndex is the database highlighted when a side is entered.
var defaultDatabaseIndex = [2]int{0, 3}

// maxVisible bounds the number of list entries drawn at once.
const maxVisible = 15

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFAA00"))
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#04B575"))
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7C3AED"))
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)
)

// lister is the part of the catalog the picker browses.
type lister interface {
	ListDatabases(ctx context.Context) ([]string, error)
	ListSchemas(ctx context.Context, database string) ([]string, error)
	ListTables(ctx context.Context, database, schema string) ([]string, error)
}

// connLister browses the catalog of a single connection.
type connLister struct {
	conn   dbconn.Conn
	filter catalog.FilterConfig
}

func (l connLister) ListDatabases(ctx context.Context) ([]string, error) {
	return catalog.ListDatabases(ctx, l.conn)
}

func (l connLister) ListSchemas(ctx context.Context, database string) ([]string, error) {
	names, err := catalog.ListSchemas(ctx, l.conn, database)
	if err != nil {
		return nil, err
	}
	return l.filter.FilterSchemas(names)
}

func (l connLister) ListTables(ctx context.Context, database, schema string) ([]string, error) {
	names, err := catalog.ListTables(ctx, l.conn, database, schema)
	if err != nil {
		return nil, err
	}
	return l.filter.FilterTables(names)
}

type namesMsg struct {
	side  int
	level level
	names []string
	err   error
}

type sideState struct {
	sel     catalog.Selection
	lists   [levelKey][]string
	cursors [levelKey]int
}

// breadcrumb renders the levels chosen so far.
func (s sideState) breadcrumb() string {
	var parts []string
	for _, p := range []string{s.sel.Database, s.sel.Schema, s.sel.Table} {
		if p == "" {
			break
		}
		parts = append(parts, p)
	}
	ret := strings.Join(parts, ".")
	if len(s.sel.KeyColumns) > 0 {
		ret += " (" + strings.Join(s.sel.KeyColumns, ", ") + ")"
	}
	return ret
}

// model walks database, schema, table and key for the source and then the
// destination side. Levels are only entered once their listing is non-empty.
type model struct {
	ctx    context.Context //nolint:containedctx
	lister lister

	side     int
	level    level
	sides    [2]sideState
	keyInput textinput.Model

	loading bool
	message string
	err     error

	done      bool
	cancelled bool
}

func newModel(ctx context.Context, l lister, profile string) model {
	ti := textinput.New()
	ti.Placeholder = "id or id,created_at"
	ti.CharLimit = 256
	m := model{
		ctx:      ctx,
		lister:   l,
		keyInput: ti,
		loading:  true,
	}
	for i := range m.sides {
		m.sides[i].sel = catalog.NewSelection(profile)
	}
	return m
}

// selections returns both sides once the user has confirmed them.
func (m model) selections() (catalog.Selection, catalog.Selection, bool) {
	if !m.done {
		return catalog.Selection{}, catalog.Selection{}, false
	}
	return m.sides[sideSource].sel, m.sides[sideDestination].sel, true
}

func (m model) Init() tea.Cmd {
	return m.load(levelDatabase)
}

func (m model) load(lvl level) tea.Cmd {
	ctx, l, side, sel := m.ctx, m.lister, m.side, m.sides[m.side].sel
	return func() tea.Msg {
		msg := namesMsg{side: side, level: lvl}
		switch lvl {
		case levelDatabase:
			msg.names, msg.err = l.ListDatabases(ctx)
		case levelSchema:
			msg.names, msg.err = l.ListSchemas(ctx, sel.Database)
		case levelTable:
			msg.names, msg.err = l.ListTables(ctx, sel.Database, sel.Schema)
		}
		return msg
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case namesMsg:
		return m.handleNames(msg)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancelled = true
			return m, tea.Quit
		}
		if m.loading {
			return m, nil
		}
		if m.level == levelKey {
			return m.updateKey(msg)
		}
		return m.updateList(msg)
	}
	if m.level == levelKey {
		var cmd tea.Cmd
		m.keyInput, cmd = m.keyInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleNames(msg namesMsg) (tea.Model, tea.Cmd) {
	if msg.side != m.side {
		return m, nil
	}
	m.loading = false
	if msg.err != nil {
		m.err = msg.err
		return m, nil
	}
	if len(msg.names) == 0 {
		m.message = fmt.Sprintf("no %s found", msg.level.plural())
		if crumb := m.sides[m.side].breadcrumb(); crumb != "" && msg.level != levelDatabase {
			m.message += " in " + crumb
		}
		return m, nil
	}
	s := &m.sides[m.side]
	s.lists[msg.level] = msg.names
	s.cursors[msg.level] = 0
	if msg.level == levelDatabase {
		s.cursors[msg.level] = defaultCursor(m.side, len(msg.names))
	}
	m.level = msg.level
	m.message = ""
	return m, nil
}

func defaultCursor(side int, n int) int {
	if idx := defaultDatabaseIndex[side]; idx < n {
		return idx
	}
	return 0
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.sides[m.side]
	names := s.lists[m.level]
	switch msg.String() {
	case "q":
		m.cancelled = true
		return m, tea.Quit
	case "up", "k":
		if s.cursors[m.level] > 0 {
			s.cursors[m.level]--
		}
	case "down", "j":
		if s.cursors[m.level] < len(names)-1 {
			s.cursors[m.level]++
		}
	case "esc":
		return m.back()
	case "enter":
		if len(names) == 0 {
			return m, nil
		}
		m.err = nil
		m.message = ""
		name := names[s.cursors[m.level]]
		switch m.level {
		case levelDatabase:
			s.sel = s.sel.WithDatabase(name)
		case levelSchema:
			s.sel = s.sel.WithSchema(name)
		case levelTable:
			s.sel = s.sel.WithTable(name)
			return m.enterKey()
		}
		m.loading = true
		return m, m.load(m.level + 1)
	}
	return m, nil
}

func (m model) enterKey() (tea.Model, tea.Cmd) {
	m.level = levelKey
	cols := m.sides[m.side].sel.KeyColumns
	if len(cols) == 0 && m.side == sideDestination {
		cols = m.sides[sideSource].sel.KeyColumns
	}
	m.keyInput.SetValue(strings.Join(cols, ","))
	cmd := m.keyInput.Focus()
	return m, cmd
}

func (m model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.keyInput.Blur()
		m.level = levelTable
		m.message = ""
		return m, nil
	case "enter":
		cols := splitKeyColumns(m.keyInput.Value())
		if len(cols) == 0 {
			m.message = "at least one key column is required"
			return m, nil
		}
		m.sides[m.side].sel = m.sides[m.side].sel.WithKeyColumns(cols...)
		m.keyInput.Blur()
		m.message = ""
		if m.side == sideDestination {
			m.done = true
			return m, tea.Quit
		}
		// Both sides browse the same profile, so the database listing is
		// shared.
		dbs := m.sides[sideSource].lists[levelDatabase]
		m.side = sideDestination
		m.level = levelDatabase
		m.sides[sideDestination].lists[levelDatabase] = dbs
		m.sides[sideDestination].cursors[levelDatabase] = defaultCursor(sideDestination, len(dbs))
		return m, nil
	}
	var cmd tea.Cmd
	m.keyInput, cmd = m.keyInput.Update(msg)
	return m, cmd
}

func (m model) back() (tea.Model, tea.Cmd) {
	m.message = ""
	m.err = nil
	switch m.level {
	case levelDatabase:
		if m.side == sideDestination {
			m.side = sideSource
			return m.enterKey()
		}
	case levelSchema, levelTable:
		m.level--
	}
	return m, nil
}

func splitKeyColumns(s string) []string {
	var ret []string
	for _, col := range strings.Split(s, ",") {
		if col = strings.TrimSpace(col); col != "" {
			ret = append(ret, col)
		}
	}
	return ret
}

func (m model) View() string {
	if m.done || m.cancelled {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("tablediff") + "\n")
	for i, s := range m.sides {
		crumb := s.breadcrumb()
		if crumb == "" {
			crumb = "-"
		}
		b.WriteString(dimStyle.Render(fmt.Sprintf("%-12s %s", sideTitles[i]+":", crumb)) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s %s", sideTitles[m.side], m.level)) + "\n")

	s := m.sides[m.side]
	switch {
	case m.loading:
		b.WriteString(dimStyle.Render("loading...") + "\n")
	case m.level == levelKey:
		b.WriteString(m.keyInput.View() + "\n")
	default:
		names := s.lists[m.level]
		cursor := s.cursors[m.level]
		start, end := visibleRange(len(names), cursor, maxVisible)
		for i := start; i < end; i++ {
			if i == cursor {
				b.WriteString(selectedStyle.Render("> "+names[i]) + "\n")
			} else {
				b.WriteString("  " + names[i] + "\n")
			}
		}
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("error: "+m.err.Error()) + "\n")
	}
	if m.message != "" {
		b.WriteString(dimStyle.Render(m.message) + "\n")
	}
	help := "↑/↓ move • enter select • esc back • q quit"
	if m.level == levelKey {
		help = "comma separated key columns • enter confirm • esc back • ctrl+c quit"
	}
	b.WriteString("\n" + dimStyle.Render(help) + "\n")
	return b.String()
}

// visibleRange returns the window of n entries to draw around cursor.
func visibleRange(n, cursor, height int) (int, int) {
	if n <= height {
		return 0, n
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > n {
		start = n - height
	}
	return start, start + height
}
