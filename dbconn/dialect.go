package dbconn

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tablediff/profile"
	"github.com/jmoiron/sqlx"
)

// InformationSchema is excluded from every schema listing.
const InformationSchema = "information_schema"

// Dialect captures how a warehouse names objects and exposes its catalog.
type Dialect interface {
	Name() string
	DriverName() string
	DSN(p profile.Profile) (string, error)
	// Rebind rewrites `?` placeholders for the driver.
	Rebind(query string) string
	QuoteIdent(s string) string
	// QualifiedName renders a table reference usable in a FROM clause.
	QualifiedName(database, schema, table string) string

	// DatabasesQuery lists databases. If DatabaseNameColumn is empty the query
	// returns a single column, otherwise the named column is read.
	DatabasesQuery() string
	DatabaseNameColumn() string
	// SchemasQuery lists schemas of a database holding at least one base
	// table.
	SchemasQuery(database string) (string, []any)
	// TablesQuery lists the base tables of a schema.
	TablesQuery(database, schema string) (string, []any)

	// IsMissingColumn reports whether err is the warehouse complaining about
	// an unknown column.
	IsMissingColumn(err error) bool
}

// inProcessDialect is implemented by embedded databases whose files can only
// be opened once per process.
type inProcessDialect interface {
	InProcess() bool
}

func DialectForDriver(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case profile.DriverSnowflake:
		return SnowflakeDialect{}, nil
	case profile.DriverPostgres:
		return PGDialect{}, nil
	case profile.DriverMySQL:
		return MySQLDialect{}, nil
	case profile.DriverDuckDB:
		return DuckDBDialect{}, nil
	}
	return nil, errors.Newf("unsupported driver %q", driver)
}

// quoteIdent always quotes, so that case is preserved on warehouses which
// fold unquoted identifiers.
func quoteIdent(s string, quote string) string {
	return quote + strings.ReplaceAll(s, quote, quote+quote) + quote
}

func rebind(bindType int, query string) string {
	return sqlx.Rebind(bindType, query)
}
