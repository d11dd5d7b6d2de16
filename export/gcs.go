package export

import (
	"context"
	"fmt"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog"
)

type gcsStore struct {
	logger zerolog.Logger
	bucket string
	prefix string
	client *storage.Client
}

func NewGCSStore(logger zerolog.Logger, client *storage.Client, bucket, prefix string) *gcsStore {
	return &gcsStore{
		bucket: bucket,
		prefix: prefix,
		client: client,
		logger: logger,
	}
}

func (s *gcsStore) CreateFromReader(ctx context.Context, r io.Reader, key string) (Resource, error) {
	key = path.Join(s.prefix, key)

	s.logger.Debug().Str("file", key).Msgf("creating new file")
	wc := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	wc.ContentType = "text/csv"
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return nil, err
	}
	if err := wc.Close(); err != nil {
		return nil, err
	}
	s.logger.Debug().Str("file", key).Msgf("gcs file creation complete")
	return &gcsResource{
		store: s,
		key:   key,
	}, nil
}

type gcsResource struct {
	store *gcsStore
	key   string
}

func (r *gcsResource) URL() string {
	return fmt.Sprintf("gs://%s/%s", r.store.bucket, r.key)
}

func (r *gcsResource) Reader(ctx context.Context) (io.ReadCloser, error) {
	return r.store.client.Bucket(r.store.bucket).Object(r.key).NewReader(ctx)
}
