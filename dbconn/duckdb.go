package dbconn

import (
	"strings"

	"github.com/cockroachdb/tablediff/profile"
	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/jmoiron/sqlx"
)

// DuckDBDialect targets a local DuckDB file. It is mostly useful for
// comparing extracts and for tests.
type DuckDBDialect struct{}

var _ Dialect = DuckDBDialect{}

func (DuckDBDialect) Name() string {
	return "DuckDB"
}

func (DuckDBDialect) DriverName() string {
	return "duckdb"
}

func (DuckDBDialect) InProcess() bool {
	return true
}

func (DuckDBDialect) DSN(p profile.Profile) (string, error) {
	return p.Path, nil
}

func (DuckDBDialect) Rebind(query string) string {
	return rebind(sqlx.QUESTION, query)
}

func (DuckDBDialect) QuoteIdent(s string) string {
	return quoteIdent(s, `"`)
}

func (d DuckDBDialect) QualifiedName(database, schema, table string) string {
	return d.QuoteIdent(database) + "." + d.QuoteIdent(schema) + "." + d.QuoteIdent(table)
}

func (DuckDBDialect) DatabasesQuery() string {
	return `SELECT database_name FROM duckdb_databases() WHERE NOT internal ORDER BY database_name`
}

func (DuckDBDialect) DatabaseNameColumn() string {
	return ""
}

func (DuckDBDialect) SchemasQuery(database string) (string, []any) {
	return `SELECT DISTINCT table_schema FROM information_schema.tables
WHERE table_catalog = ? AND table_type = 'BASE TABLE'`, []any{database}
}

func (DuckDBDialect) TablesQuery(database, schema string) (string, []any) {
	return `SELECT table_name FROM information_schema.tables
WHERE table_catalog = ? AND table_schema = ? AND table_type = 'BASE TABLE'
ORDER BY table_name`, []any{database, schema}
}

func (DuckDBDialect) IsMissingColumn(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Referenced column") && strings.Contains(msg, "not found")
}
