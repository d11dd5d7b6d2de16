package dbconn

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Stage names the step during which a warehouse could not be reached.
type Stage string

const (
	StageConnect       Stage = "connect"
	StageListDatabases Stage = "list-databases"
	StageListSchemas   Stage = "list-schemas"
	StageListTables    Stage = "list-tables"
	StageKeyScan       Stage = "key-scan"
	StageRefetch       Stage = "refetch"
)

// ConnectivityError is returned when a warehouse fails to answer. It is kept
// distinct from "no rows" so callers never mistake an outage for an empty
// result.
type ConnectivityError struct {
	Stage  Stage
	ConnID ID
	Err    error
	// KeyColumnMismatch is set when the warehouse rejected a key column name.
	KeyColumnMismatch bool
}

func NewConnectivityError(stage Stage, id ID, err error) *ConnectivityError {
	return &ConnectivityError{Stage: stage, ConnID: id, Err: err}
}

func (e *ConnectivityError) Error() string {
	if e.KeyColumnMismatch {
		return fmt.Sprintf("%s: %s failed: key column not found: %v", e.ConnID, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %s failed: %v", e.ConnID, e.Stage, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// WrapQueryError classifies a query failure against conn.
func WrapQueryError(conn Conn, stage Stage, err error) error {
	if err == nil {
		return nil
	}
	cErr := NewConnectivityError(stage, conn.ID(), err)
	cErr.KeyColumnMismatch = conn.Dialect().IsMissingColumn(err)
	return cErr
}

func IsConnectivityError(err error) bool {
	var cErr *ConnectivityError
	return errors.As(err, &cErr)
}

func IsKeyColumnMismatch(err error) bool {
	var cErr *ConnectivityError
	return errors.As(err, &cErr) && cErr.KeyColumnMismatch
}
