package testutils

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/tablediff/dbconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// NewMockConn returns a connection backed by go-sqlmock. Queries are matched
// verbatim after the dialect rebinds placeholders. Unmet expectations fail
// the test on cleanup.
func NewMockConn(t *testing.T, id dbconn.ID, dialect dbconn.Dialect) (*dbconn.SQLConn, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	conn := dbconn.NewSQLConn(id, sqlx.NewDb(mockDB, "sqlmock"), dialect)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = mockDB.Close()
	})
	return conn, mock
}

// NewDuckDBConn returns a connection to a fresh in-memory DuckDB database.
// Its catalog is named "memory".
func NewDuckDBConn(t *testing.T, id dbconn.ID) *dbconn.SQLConn {
	d := dbconn.DuckDBDialect{}
	db, err := sqlx.Open(d.DriverName(), "")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return dbconn.NewSQLConn(id, db, d)
}

// ExecConnCommand runs the statements of a datadriven command against conn,
// reporting rows affected.
func ExecConnCommand(t *testing.T, d *datadriven.TestData, conn *dbconn.SQLConn) string {
	ctx := context.Background()
	var sb strings.Builder
	for _, stmt := range strings.Split(d.Input, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		tag, err := conn.ExecContext(ctx, stmt)
		if err != nil {
			sb.WriteString(fmt.Sprintf("[%s] error: %s\n", conn.ID(), err.Error()))
			continue
		}
		r, err := tag.RowsAffected()
		if err != nil {
			sb.WriteString(fmt.Sprintf("[%s] error getting rows affected: %s\n", conn.ID(), err.Error()))
			continue
		}
		sb.WriteString(fmt.Sprintf("[%s] %d rows affected\n", conn.ID(), r))
	}
	return sb.String()
}

// NewRows returns mock rows that carry column definitions, so that scanning
// code can ask for column types.
func NewRows(mock sqlmock.Sqlmock, columns ...string) *sqlmock.Rows {
	defs := make([]*sqlmock.Column, len(columns))
	for i, c := range columns {
		defs[i] = sqlmock.NewColumn(c)
	}
	return mock.NewRowsWithColumnDefinition(defs...)
}
