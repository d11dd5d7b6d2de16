package dbconn

import (
	"net"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tablediff/profile"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

const mysqlBadFieldError = 1054

// MySQLDialect treats each MySQL database as a catalog with a single schema
// of the same name.
type MySQLDialect struct{}

var _ Dialect = MySQLDialect{}

func (MySQLDialect) Name() string {
	return "MySQL"
}

func (MySQLDialect) DriverName() string {
	return "mysql"
}

func (MySQLDialect) DSN(p profile.Profile) (string, error) {
	cfg := mysql.NewConfig()
	cfg.User = p.User
	cfg.Passwd = p.Password
	cfg.Net = "tcp"
	port := p.Port
	if port == 0 {
		port = 3306
	}
	cfg.Addr = net.JoinHostPort(p.Host, strconv.Itoa(port))
	cfg.DBName = p.Database
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

func (MySQLDialect) Rebind(query string) string {
	return rebind(sqlx.QUESTION, query)
}

func (MySQLDialect) QuoteIdent(s string) string {
	return quoteIdent(s, "`")
}

func (d MySQLDialect) QualifiedName(database, schema, table string) string {
	return d.QuoteIdent(schema) + "." + d.QuoteIdent(table)
}

func (MySQLDialect) DatabasesQuery() string {
	return `SELECT schema_name FROM information_schema.schemata
WHERE schema_name NOT IN ('information_schema', 'mysql', 'performance_schema', 'sys')
ORDER BY schema_name`
}

func (MySQLDialect) DatabaseNameColumn() string {
	return ""
}

func (MySQLDialect) SchemasQuery(database string) (string, []any) {
	return `SELECT DISTINCT table_schema FROM information_schema.tables
WHERE table_schema = ? AND table_type = 'BASE TABLE'`, []any{database}
}

func (MySQLDialect) TablesQuery(database, schema string) (string, []any) {
	return `SELECT table_name FROM information_schema.tables
WHERE table_schema = ? AND table_type = 'BASE TABLE'
ORDER BY table_name`, []any{schema}
}

func (MySQLDialect) IsMissingColumn(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlBadFieldError
}
