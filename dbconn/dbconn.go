package dbconn

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tablediff/profile"
	"github.com/cockroachdb/tablediff/retry"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

type ID string

// Conn is a handle able to run read-only queries against a warehouse. A Conn
// has a single owner; concurrent scans each need their own Clone.
type Conn interface {
	ID() ID
	// Close closes the connection.
	Close(ctx context.Context) error
	// Clone creates a new Conn with the same underlying connections arguments.
	Clone(ctx context.Context) (Conn, error)
	Dialect() Dialect
	// QueryxContext runs a query. The query must use `?` placeholders, which
	// are rebound for the driver.
	QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error)
}

// Connect opens a connection for the given profile, pinging it until it
// responds or the retry settings are exhausted.
func Connect(
	ctx context.Context,
	logger zerolog.Logger,
	id ID,
	p profile.Profile,
	retrySettings retry.Settings,
) (Conn, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	d, err := DialectForDriver(p.Driver)
	if err != nil {
		return nil, err
	}
	dsn := p.DSN
	if dsn == "" {
		if dsn, err = d.DSN(p); err != nil {
			return nil, errors.Wrapf(err, "error building connection string for profile %s", p.Name)
		}
	} else if n, ok := d.(dsnNormalizer); ok {
		if dsn, err = n.NormalizeDSN(dsn); err != nil {
			return nil, errors.Wrapf(err, "invalid dsn for profile %s", p.Name)
		}
	}
	if id == "" {
		id = ID(p.Name)
	}

	db, err := sqlx.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening %s connection for profile %s", d.Name(), p.Name)
	}
	if err := retry.Do(ctx, retrySettings, func(attempt int) error {
		pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		err := db.PingContext(pingCtx)
		if err != nil {
			logger.Warn().Err(err).
				Str("profile", p.Name).
				Int("attempt", attempt).
				Msgf("could not reach warehouse")
		}
		return err
	}); err != nil {
		_ = db.Close()
		return nil, NewConnectivityError(StageConnect, id, err)
	}
	logger.Debug().Str("profile", p.Name).Str("dialect", d.Name()).Msgf("connected")
	return &SQLConn{
		id:            id,
		DB:            db,
		dialect:       d,
		dsn:           dsn,
		logger:        logger,
		retrySettings: retrySettings,
	}, nil
}
