package pick

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	databases []string
	schemas   map[string][]string
	// tables is keyed by database.schema.
	tables map[string][]string
	err    error
}

func (f fakeLister) ListDatabases(ctx context.Context) ([]string, error) {
	return f.databases, f.err
}

func (f fakeLister) ListSchemas(ctx context.Context, database string) ([]string, error) {
	return f.schemas[database], f.err
}

func (f fakeLister) ListTables(ctx context.Context, database, schema string) ([]string, error) {
	return f.tables[database+"."+schema], f.err
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// step applies msg and runs the returned command if it loads a listing.
func step(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(model)
	if m.loading && cmd != nil {
		next, _ = m.Update(cmd())
		m = next.(model)
	}
	return m
}

func start(t *testing.T, l lister) model {
	t.Helper()
	m := newModel(context.Background(), l, "prod")
	next, _ := m.Update(m.Init()())
	return next.(model)
}

func warehouse() fakeLister {
	return fakeLister{
		databases: []string{"ANALYTICS", "EMPTY", "RAW", "STAGING", "TMP"},
		schemas: map[string][]string{
			"ANALYTICS": {"PUBLIC"},
			"STAGING":   {"LANDING"},
		},
		tables: map[string][]string{
			"ANALYTICS.PUBLIC": {"CUSTOMERS", "ORDERS"},
			"STAGING.LANDING":  {"ORDERS_COPY"},
		},
	}
}

func TestPickBothSides(t *testing.T) {
	m := start(t, warehouse())
	require.Equal(t, levelDatabase, m.level)
	require.Equal(t, 0, m.sides[sideSource].cursors[levelDatabase])

	m = step(t, m, enter)
	require.Equal(t, levelSchema, m.level)
	m = step(t, m, enter)
	require.Equal(t, levelTable, m.level)
	m = step(t, m, down)
	m = step(t, m, enter)
	require.Equal(t, levelKey, m.level)
	m = step(t, m, enter)
	require.Equal(t, "at least one key column is required", m.message)
	m = step(t, m, typed("id"))
	m = step(t, m, enter)

	require.Equal(t, sideDestination, m.side)
	require.Equal(t, levelDatabase, m.level)
	require.Equal(t, 3, m.sides[sideDestination].cursors[levelDatabase])
	require.Contains(t, m.View(), "ANALYTICS.PUBLIC.ORDERS (id)")

	m = step(t, m, enter)
	require.Equal(t, levelSchema, m.level)
	m = step(t, m, enter)
	m = step(t, m, enter)
	require.Equal(t, levelKey, m.level)
	require.Equal(t, "id", m.keyInput.Value())
	m = step(t, m, enter)

	src, dst, ok := m.selections()
	require.True(t, ok)
	require.Equal(t, "prod:ANALYTICS.PUBLIC.ORDERS", src.String())
	require.Equal(t, []string{"id"}, src.KeyColumns)
	require.Equal(t, "prod:STAGING.LANDING.ORDERS_COPY", dst.String())
	require.Equal(t, []string{"id"}, dst.KeyColumns)
	require.True(t, src.Complete())
	require.True(t, dst.Complete())
}

func TestPickEmptyLevelDoesNotAdvance(t *testing.T) {
	m := start(t, warehouse())
	m = step(t, m, down)
	m = step(t, m, enter)
	require.Equal(t, levelDatabase, m.level)
	require.Equal(t, "no schemas with tables found in EMPTY", m.message)
	require.Contains(t, m.View(), "no schemas with tables found in EMPTY")

	m = step(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = step(t, m, enter)
	require.Equal(t, levelSchema, m.level)
	require.Empty(t, m.message)
}

func TestPickNoDatabases(t *testing.T) {
	m := start(t, fakeLister{})
	require.Equal(t, levelDatabase, m.level)
	require.Equal(t, "no databases found", m.message)
	m = step(t, m, enter)
	require.Equal(t, levelDatabase, m.level)
	require.False(t, m.loading)
}

func TestPickListingError(t *testing.T) {
	m := start(t, fakeLister{err: errors.New("warehouse unavailable")})
	require.EqualError(t, m.err, "warehouse unavailable")
	require.Contains(t, m.View(), "error: warehouse unavailable")
}

func TestPickDestinationDefaultsToFirstDatabase(t *testing.T) {
	l := warehouse()
	l.databases = []string{"ANALYTICS", "STAGING"}
	m := start(t, l)
	for _, msg := range []tea.Msg{enter, enter, enter, typed("id"), enter} {
		m = step(t, m, msg)
	}
	require.Equal(t, sideDestination, m.side)
	require.Equal(t, 0, m.sides[sideDestination].cursors[levelDatabase])
}

func TestPickBack(t *testing.T) {
	m := start(t, warehouse())
	for _, msg := range []tea.Msg{enter, enter, enter, typed("id"), enter} {
		m = step(t, m, msg)
	}
	require.Equal(t, sideDestination, m.side)

	m = step(t, m, esc)
	require.Equal(t, sideSource, m.side)
	require.Equal(t, levelKey, m.level)
	require.Equal(t, "id", m.keyInput.Value())

	m = step(t, m, esc)
	require.Equal(t, levelTable, m.level)
	m = step(t, m, esc)
	require.Equal(t, levelSchema, m.level)
	m = step(t, m, esc)
	require.Equal(t, levelDatabase, m.level)
	m = step(t, m, esc)
	require.Equal(t, levelDatabase, m.level)
	require.Equal(t, sideSource, m.side)
}

func TestPickQuit(t *testing.T) {
	m := start(t, warehouse())
	m = step(t, m, typed("q"))
	require.True(t, m.cancelled)
	_, _, ok := m.selections()
	require.False(t, ok)
	require.Empty(t, m.View())
}

func TestSplitKeyColumns(t *testing.T) {
	require.Equal(t, []string{"id", "created_at"}, splitKeyColumns(" id, created_at ,"))
	require.Nil(t, splitKeyColumns(" , "))
}

func TestVisibleRange(t *testing.T) {
	for _, tc := range []struct {
		n, cursor, height int
		start, end        int
	}{
		{n: 3, cursor: 2, height: 5, start: 0, end: 3},
		{n: 20, cursor: 0, height: 5, start: 0, end: 5},
		{n: 20, cursor: 10, height: 5, start: 8, end: 13},
		{n: 20, cursor: 19, height: 5, start: 15, end: 20},
	} {
		start, end := visibleRange(tc.n, tc.cursor, tc.height)
		require.Equal(t, tc.start, start)
		require.Equal(t, tc.end, end)
	}
}
