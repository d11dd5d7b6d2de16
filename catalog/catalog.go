// Package catalog lists the databases, schemas and base tables visible to a
// connection, so a user can narrow down the tables to compare.
package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tablediff/datumconv"
	"github.com/cockroachdb/tablediff/dbconn"
	"github.com/jmoiron/sqlx"
)

// ListDatabases lists the databases visible to the connection's role.
func ListDatabases(ctx context.Context, conn dbconn.Conn) ([]string, error) {
	d := conn.Dialect()
	rows, err := conn.QueryxContext(ctx, d.DatabasesQuery())
	if err != nil {
		return nil, dbconn.WrapQueryError(conn, dbconn.StageListDatabases, err)
	}
	defer func() { _ = rows.Close() }()

	ret := []string{}
	for rows.Next() {
		var name string
		if col := d.DatabaseNameColumn(); col != "" {
			if name, err = scanColumn(rows, col); err != nil {
				return nil, err
			}
		} else if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "error decoding database name")
		}
		ret = append(ret, name)
	}
	if err := rows.Err(); err != nil {
		return nil, dbconn.WrapQueryError(conn, dbconn.StageListDatabases, err)
	}
	return ret, nil
}

// ListSchemas lists the schemas of a database holding at least one base
// table. The information schema is never included.
func ListSchemas(ctx context.Context, conn dbconn.Conn, database string) ([]string, error) {
	if database == "" {
		return nil, errors.New("database must not be empty")
	}
	q, args := conn.Dialect().SchemasQuery(database)
	names, err := queryNames(ctx, conn, dbconn.StageListSchemas, q, args...)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(names))
	ret := []string{}
	for _, n := range names {
		if strings.EqualFold(n, dbconn.InformationSchema) {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		ret = append(ret, n)
	}
	sort.Strings(ret)
	return ret, nil
}

// ListTables lists the base tables of a schema in ascending order. Views are
// excluded. A schema with no base tables yields an empty slice.
func ListTables(ctx context.Context, conn dbconn.Conn, database, schema string) ([]string, error) {
	if database == "" || schema == "" {
		return nil, errors.New("database and schema must not be empty")
	}
	q, args := conn.Dialect().TablesQuery(database, schema)
	ret, err := queryNames(ctx, conn, dbconn.StageListTables, q, args...)
	if err != nil {
		return nil, err
	}
	sort.Strings(ret)
	return ret, nil
}

func queryNames(
	ctx context.Context, conn dbconn.Conn, stage dbconn.Stage, q string, args ...any,
) ([]string, error) {
	rows, err := conn.QueryxContext(ctx, q, args...)
	if err != nil {
		return nil, dbconn.WrapQueryError(conn, stage, err)
	}
	defer func() { _ = rows.Close() }()

	ret := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrapf(err, "error decoding %s result", stage)
		}
		ret = append(ret, name)
	}
	if err := rows.Err(); err != nil {
		return nil, dbconn.WrapQueryError(conn, stage, err)
	}
	return ret, nil
}

// scanColumn reads a named column from a row with an unknown set of columns,
// as returned by SHOW commands.
func scanColumn(rows *sqlx.Rows, col string) (string, error) {
	m := map[string]interface{}{}
	if err := rows.MapScan(m); err != nil {
		return "", errors.Wrap(err, "error decoding row")
	}
	for k, v := range m {
		if strings.EqualFold(k, col) {
			return datumconv.Text(datumconv.FromValue(v)), nil
		}
	}
	return "", errors.Newf("column %q not found in result", col)
}
