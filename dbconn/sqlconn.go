package dbconn

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tablediff/retry"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// SQLConn is a Conn backed by a database/sql driver.
type SQLConn struct {
	id ID
	*sqlx.DB
	dialect       Dialect
	dsn           string
	logger        zerolog.Logger
	retrySettings retry.Settings
	// shared is set on clones that borrow the handle of an in-process
	// database; closing them leaves the handle open.
	shared bool
}

var _ Conn = (*SQLConn)(nil)

// NewSQLConn wraps an existing handle. Clone is only supported on the result
// for in-process dialects.
func NewSQLConn(id ID, db *sqlx.DB, dialect Dialect) *SQLConn {
	return &SQLConn{id: id, DB: db, dialect: dialect, logger: zerolog.Nop()}
}

func (c *SQLConn) ID() ID {
	return c.id
}

func (c *SQLConn) Dialect() Dialect {
	return c.dialect
}

func (c *SQLConn) Close(ctx context.Context) error {
	if c.shared {
		return nil
	}
	return c.DB.Close()
}

// Clone opens a new handle from the same arguments. Databases that run
// in-process can only be opened once, so their clones share the handle.
func (c *SQLConn) Clone(ctx context.Context) (Conn, error) {
	if ip, ok := c.dialect.(inProcessDialect); ok && ip.InProcess() {
		ret := *c
		ret.shared = true
		return &ret, nil
	}
	if c.dsn == "" {
		return nil, errors.AssertionFailedf("connection %s cannot be cloned", c.id)
	}
	db, err := sqlx.Open(c.dialect.DriverName(), c.dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "error cloning connection %s", c.id)
	}
	if err := retry.Do(ctx, c.retrySettings, func(int) error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, NewConnectivityError(StageConnect, c.id, err)
	}
	return &SQLConn{
		id:            c.id,
		DB:            db,
		dialect:       c.dialect,
		dsn:           c.dsn,
		logger:        c.logger,
		retrySettings: c.retrySettings,
	}, nil
}

func (c *SQLConn) QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error) {
	q := c.dialect.Rebind(query)
	c.logger.Trace().Str("conn", string(c.id)).Str("query", q).Msgf("running query")
	return c.DB.QueryxContext(ctx, q, args...)
}
