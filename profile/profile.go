// Package profile loads named warehouse connection profiles.
package profile

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

const (
	DriverSnowflake = "snowflake"
	DriverPostgres  = "postgres"
	DriverMySQL     = "mysql"
	DriverDuckDB    = "duckdb"
)

// EnvPrefix prefixes environment overrides, e.g. TABLEDIFF_PROD_PASSWORD.
const EnvPrefix = "TABLEDIFF"

// Profile is a resolved set of connection parameters. It is passed around by
// value and never mutated once loaded.
type Profile struct {
	Name      string
	Driver    string
	Account   string
	Host      string
	Port      int
	User      string
	Password  string
	Role      string
	Warehouse string
	Database  string
	Schema    string
	Region    string
	// Path is the database file for duckdb.
	Path string
	// DSN overrides every other connection field when set.
	DSN string
}

// legacyKeys maps the sf-prefixed keys of older config.ini files onto profile
// fields.
var legacyKeys = map[string]string{
	"sfaccount":   "account",
	"sfuser":      "user",
	"sfpass":      "password",
	"sfrole":      "role",
	"sfdb":        "database",
	"sfschema":    "schema",
	"sfwarehouse": "warehouse",
	"sfregion":    "region",
}

var fieldKeys = []string{
	"driver", "account", "host", "port", "user", "password", "role",
	"warehouse", "database", "schema", "region", "path", "dsn",
}

func (p Profile) Validate() error {
	if p.DSN != "" {
		if p.Driver == "" {
			return errors.Newf("profile %s: driver is required with a dsn", p.Name)
		}
		return nil
	}
	var required []string
	switch p.Driver {
	case DriverSnowflake:
		required = []string{"account", "user"}
	case DriverPostgres, DriverMySQL:
		required = []string{"host", "user"}
	case DriverDuckDB:
		required = []string{"path"}
	case "":
		return errors.Newf("profile %s: driver is required", p.Name)
	default:
		return errors.Newf("profile %s: unsupported driver %q", p.Name, p.Driver)
	}
	for _, key := range required {
		if p.field(key) == "" {
			return errors.Newf("profile %s: %s is required for driver %s", p.Name, key, p.Driver)
		}
	}
	if p.Port < 0 || p.Port > 65535 {
		return errors.Newf("profile %s: port must be between 0 and 65535, got %d", p.Name, p.Port)
	}
	return nil
}

func (p Profile) field(key string) string {
	switch key {
	case "account":
		return p.Account
	case "host":
		return p.Host
	case "user":
		return p.User
	case "path":
		return p.Path
	}
	return ""
}

// Redacted returns a copy safe for logging.
func (p Profile) Redacted() Profile {
	if p.Password != "" {
		p.Password = "redacted"
	}
	if p.DSN != "" {
		p.DSN = "redacted"
	}
	return p
}

// Profiles holds every profile of a config file, keyed by name.
type Profiles map[string]Profile

func (ps Profiles) Names() []string {
	ret := make([]string, 0, len(ps))
	for name := range ps {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

func (ps Profiles) Get(name string) (Profile, error) {
	p, ok := ps[strings.ToLower(name)]
	if !ok {
		return Profile{}, errors.Newf("profile %q not found (available: %s)", name, strings.Join(ps.Names(), ", "))
	}
	return p, nil
}

// Load reads every profile of the given config file. The format follows the
// file extension and defaults to ini.
func Load(path string) (Profiles, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("ini")
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "error reading profiles from %s", path)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) (Profiles, error) {
	sections := map[string]struct{}{}
	for _, key := range v.AllKeys() {
		parts := strings.SplitN(key, ".", 2)
		if len(parts) != 2 {
			continue
		}
		// ini files without sections land in "default".
		sections[parts[0]] = struct{}{}
	}
	if len(sections) == 0 {
		return nil, errors.Newf("no profiles found in %s", v.ConfigFileUsed())
	}

	ret := make(Profiles, len(sections))
	for section := range sections {
		p := Profile{Name: section}
		for legacy, key := range legacyKeys {
			if v.IsSet(section + "." + legacy) {
				p.set(key, v, section+"."+legacy)
				if p.Driver == "" {
					p.Driver = DriverSnowflake
				}
			}
		}
		for _, key := range fieldKeys {
			if v.IsSet(section + "." + key) {
				p.set(key, v, section+"."+key)
			}
		}
		p.Driver = strings.ToLower(p.Driver)
		if err := p.Validate(); err != nil {
			return nil, err
		}
		ret[section] = p
	}
	return ret, nil
}

func (p *Profile) set(key string, v *viper.Viper, path string) {
	switch key {
	case "driver":
		p.Driver = v.GetString(path)
	case "account":
		p.Account = v.GetString(path)
	case "host":
		p.Host = v.GetString(path)
	case "port":
		p.Port = v.GetInt(path)
	case "user":
		p.User = v.GetString(path)
	case "password":
		p.Password = v.GetString(path)
	case "role":
		p.Role = v.GetString(path)
	case "warehouse":
		p.Warehouse = v.GetString(path)
	case "database":
		p.Database = v.GetString(path)
	case "schema":
		p.Schema = v.GetString(path)
	case "region":
		p.Region = v.GetString(path)
	case "path":
		p.Path = v.GetString(path)
	case "dsn":
		p.DSN = v.GetString(path)
	}
}
