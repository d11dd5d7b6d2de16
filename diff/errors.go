package diff

import "github.com/cockroachdb/errors"

// ErrMalformedDiffEntry is returned when an oracle emits an entry with an
// unknown sign or a key of the wrong arity.
var ErrMalformedDiffEntry = errors.New("malformed diff entry")

func malformedEntryf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrMalformedDiffEntry)
}
