// Package export writes comparison results to a local directory or an
// object store bucket.
package export

import (
	"context"
	"io"
)

type Store interface {
	// CreateFromReader stores the contents of r under the given relative key.
	CreateFromReader(ctx context.Context, r io.Reader, key string) (Resource, error)
}

type Resource interface {
	URL() string
	Reader(ctx context.Context) (io.ReadCloser, error)
}
