package dbconn

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tablediff/profile"
	"github.com/jmoiron/sqlx"
	"github.com/snowflakedb/gosnowflake"
)

// snowflakeInvalidIdentifier is the error number for SQL compilation errors
// referencing an unknown column.
const snowflakeInvalidIdentifier = 904

func init() {
	gosnowflake.GetLogger().SetOutput(io.Discard)
}

type SnowflakeDialect struct{}

var _ Dialect = SnowflakeDialect{}

func (SnowflakeDialect) Name() string {
	return "Snowflake"
}

func (SnowflakeDialect) DriverName() string {
	return "snowflake"
}

func (SnowflakeDialect) DSN(p profile.Profile) (string, error) {
	return gosnowflake.DSN(&gosnowflake.Config{
		Account:   p.Account,
		User:      p.User,
		Password:  p.Password,
		Region:    p.Region,
		Role:      p.Role,
		Warehouse: p.Warehouse,
		Database:  p.Database,
		Schema:    p.Schema,
	})
}

func (SnowflakeDialect) Rebind(query string) string {
	return rebind(sqlx.QUESTION, query)
}

func (SnowflakeDialect) QuoteIdent(s string) string {
	return quoteIdent(s, `"`)
}

func (d SnowflakeDialect) QualifiedName(database, schema, table string) string {
	return d.QuoteIdent(database) + "." + d.QuoteIdent(schema) + "." + d.QuoteIdent(table)
}

func (SnowflakeDialect) DatabasesQuery() string {
	return "SHOW DATABASES"
}

func (SnowflakeDialect) DatabaseNameColumn() string {
	return "name"
}

func (d SnowflakeDialect) SchemasQuery(database string) (string, []any) {
	return `SELECT DISTINCT table_schema FROM ` + d.QuoteIdent(database) + `.information_schema.tables
WHERE table_schema <> 'INFORMATION_SCHEMA' AND table_type = 'BASE TABLE'`, nil
}

func (d SnowflakeDialect) TablesQuery(database, schema string) (string, []any) {
	return `SELECT table_name FROM ` + d.QuoteIdent(database) + `.information_schema.tables
WHERE table_schema = ? AND table_type = 'BASE TABLE'
ORDER BY table_name`, []any{schema}
}

func (SnowflakeDialect) IsMissingColumn(err error) bool {
	var sfErr *gosnowflake.SnowflakeError
	if errors.As(err, &sfErr) {
		return sfErr.Number == snowflakeInvalidIdentifier
	}
	return err != nil && strings.Contains(err.Error(), "invalid identifier")
}
