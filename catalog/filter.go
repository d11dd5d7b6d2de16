package catalog

import (
	"regexp"

	"github.com/cockroachdb/errors"
)

const DefaultFilterString = ".*"

type FilterString = string

func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		SchemaFilter: DefaultFilterString,
		TableFilter:  DefaultFilterString,
	}
}

// FilterConfig narrows listings using POSIX regular expressions.
type FilterConfig struct {
	SchemaFilter FilterString
	TableFilter  FilterString
}

func (cfg FilterConfig) FilterSchemas(names []string) ([]string, error) {
	return filterNames(cfg.SchemaFilter, names)
}

func (cfg FilterConfig) FilterTables(names []string) ([]string, error) {
	return filterNames(cfg.TableFilter, names)
}

func filterNames(filter FilterString, names []string) ([]string, error) {
	if filter == DefaultFilterString || filter == "" {
		return names, nil
	}
	re, err := regexp.CompilePOSIX(filter)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid filter %q", filter)
	}
	ret := make([]string, 0, len(names))
	for _, n := range names {
		if re.MatchString(n) {
			ret = append(ret, n)
		}
	}
	return ret, nil
}
