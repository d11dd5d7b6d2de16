package dbconn

import (
	"net/url"
	"strconv"

	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/sem/tree"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tablediff/profile"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

const pgUndefinedColumn = "42703"

// PGDialect targets PostgreSQL and CockroachDB. A connection only sees the
// database it was opened against, so table references omit the catalog.
type PGDialect struct{}

var _ Dialect = PGDialect{}

func (PGDialect) Name() string {
	return "PostgreSQL"
}

func (PGDialect) DriverName() string {
	return "pgx"
}

func (PGDialect) DSN(p profile.Profile) (string, error) {
	host := p.Host
	if p.Port != 0 {
		host += ":" + strconv.Itoa(p.Port)
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   host,
		Path:   "/" + p.Database,
	}
	if p.Password != "" {
		u.User = url.UserPassword(p.User, p.Password)
	} else {
		u.User = url.User(p.User)
	}
	if p.Schema != "" {
		q := u.Query()
		q.Set("search_path", p.Schema)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (PGDialect) Rebind(query string) string {
	return rebind(sqlx.DOLLAR, query)
}

func (PGDialect) QuoteIdent(s string) string {
	return tree.NameString(s)
}

func (PGDialect) QualifiedName(database, schema, table string) string {
	tn := tree.MakeTableNameFromPrefix(tree.ObjectNamePrefix{
		SchemaName:     tree.Name(schema),
		ExplicitSchema: true,
	}, tree.Name(table))
	return tree.AsString(&tn)
}

func (PGDialect) DatabasesQuery() string {
	return "SELECT current_database()"
}

func (PGDialect) DatabaseNameColumn() string {
	return ""
}

func (PGDialect) SchemasQuery(database string) (string, []any) {
	return `SELECT DISTINCT table_schema FROM information_schema.tables
WHERE table_catalog = ? AND table_type = 'BASE TABLE'
AND table_schema NOT IN ('information_schema', 'pg_catalog', 'crdb_internal', 'pg_extension')`, []any{database}
}

func (PGDialect) TablesQuery(database, schema string) (string, []any) {
	return `SELECT table_name FROM information_schema.tables
WHERE table_catalog = ? AND table_schema = ? AND table_type = 'BASE TABLE'
ORDER BY table_name`, []any{database, schema}
}

func (PGDialect) IsMissingColumn(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUndefinedColumn
}
