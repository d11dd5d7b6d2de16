package catalog

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tablediff/dbconn"
	"github.com/cockroachdb/tablediff/dbtable"
)

// Selection records the choices made while narrowing down one side of a
// comparison. It is a value: every With method returns a copy, clearing the
// levels below the one changed.
type Selection struct {
	Profile    string
	Database   string
	Schema     string
	Table      string
	KeyColumns []string
}

func NewSelection(profile string) Selection {
	return Selection{Profile: profile}
}

func (s Selection) WithDatabase(db string) Selection {
	return Selection{Profile: s.Profile, Database: db}
}

func (s Selection) WithSchema(schema string) Selection {
	return Selection{Profile: s.Profile, Database: s.Database, Schema: schema}
}

func (s Selection) WithTable(table string) Selection {
	return Selection{Profile: s.Profile, Database: s.Database, Schema: s.Schema, Table: table}
}

func (s Selection) WithKeyColumns(cols ...string) Selection {
	s.KeyColumns = append([]string(nil), cols...)
	return s
}

// Complete reports whether every level has been chosen.
func (s Selection) Complete() bool {
	return s.Database != "" && s.Schema != "" && s.Table != "" && len(s.KeyColumns) > 0
}

func (s Selection) String() string {
	return s.Profile + ":" + s.Database + "." + s.Schema + "." + s.Table
}

// Locate resolves the selection into a comparable table on conn.
func (s Selection) Locate(conn dbconn.Conn) (dbtable.ComparableTable, error) {
	t, err := dbtable.Resolve(conn, s.Database, s.Schema, s.Table, s.KeyColumns...)
	if err != nil {
		return dbtable.ComparableTable{}, errors.Wrapf(err, "invalid selection for profile %s", s.Profile)
	}
	return t, nil
}
