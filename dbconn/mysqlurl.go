package dbconn

import (
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-sql-driver/mysql"
)

// dsnNormalizer is implemented by dialects accepting more than one
// connection string format in a profile's dsn.
type dsnNormalizer interface {
	NormalizeDSN(dsn string) (string, error)
}

// NormalizeDSN accepts either a go-sql-driver DSN or a mysql:// URL and
// returns a driver DSN with time parsing enabled.
func (MySQLDialect) NormalizeDSN(dsn string) (string, error) {
	cfg, err := parseMySQLConnStr(dsn)
	if err != nil {
		return "", err
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

func parseMySQLConnStr(connStr string) (*mysql.Config, error) {
	if !strings.HasPrefix(connStr, "mysql://") {
		cfg, err := mysql.ParseDSN(connStr)
		if err != nil {
			return nil, errors.Wrapf(err, "error parsing mysql dsn")
		}
		return cfg, nil
	}
	u, err := url.Parse(connStr)
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing mysql url")
	}
	if u.Host == "" {
		return nil, errors.Newf("mysql url must have a host")
	}
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if u.Port() == "" {
		cfg.Addr += ":3306"
	}
	cfg.User = u.User.Username()
	cfg.Passwd, _ = u.User.Password()
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	// The driver owns parameter parsing, so the query string is handed back
	// to it.
	dsn := cfg.FormatDSN()
	if q := u.Query(); len(q) > 0 {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + q.Encode()
	}
	ret, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing mysql url parameters")
	}
	return ret, nil
}
