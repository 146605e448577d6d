// Package gcsstore implements a Google Cloud Storage backend.
package gcsstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/tabcheck/tabcheck/internal/store"
)

// Scheme is the path scheme served by GCS stores.
const Scheme = "gs"

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is a Google Cloud Storage backend for one bucket.
type Store struct {
	client *storage.Client
	bucket *storage.BucketHandle
	name   string
	prefix string
}

type settings struct {
	prefix        string
	clientOptions []option.ClientOption
}

// Option configures a Store.
type Option func(*settings)

// WithPrefix sets a key prefix for all operations.
func WithPrefix(prefix string) Option {
	return func(s *settings) {
		s.prefix = strings.TrimSuffix(prefix, "/")
		if s.prefix != "" {
			s.prefix += "/"
		}
	}
}

// WithClientOptions passes options such as credentials or a custom
// endpoint to the storage client.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(s *settings) {
		s.clientOptions = append(s.clientOptions, opts...)
	}
}

// New creates a new GCS store.
// The bucket must already exist.
func New(ctx context.Context, bucketName string, opts ...Option) (*Store, error) {
	var cfg settings
	for _, opt := range opts {
		opt(&cfg)
	}

	client, err := storage.NewClient(ctx, cfg.clientOptions...)
	if err != nil {
		return nil, fmt.Errorf("creating GCS client: %w", err)
	}

	return &Store{
		client: client,
		bucket: client.Bucket(bucketName),
		name:   bucketName,
		prefix: cfg.prefix,
	}, nil
}

// Resolver returns a store.Resolver creating one Store per bucket.
func Resolver(opts ...Option) store.Resolver {
	return func(ctx context.Context, bucket string) (store.Store, error) {
		return New(ctx, bucket, opts...)
	}
}

// Open returns the content of an object.
func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return s.OpenRange(ctx, name, 0, -1)
}

// OpenRange returns n bytes of an object starting at off.
func (s *Store) OpenRange(ctx context.Context, name string, off, n int64) (io.ReadCloser, error) {
	// Check for cancellation before starting.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := s.bucket.Object(s.key(name)).NewRangeReader(ctx, off, n)
	if err != nil {
		return nil, s.mapErr(name, err)
	}
	return reader, nil
}

// Exists reports whether an object exists.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.Length(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Length returns the size of an object.
func (s *Store) Length(ctx context.Context, name string) (int64, error) {
	attrs, err := s.bucket.Object(s.key(name)).Attrs(ctx)
	if err != nil {
		return 0, s.mapErr(name, err)
	}
	return attrs.Size, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return s.client.Close()
}

// key returns the full object name for a name.
func (s *Store) key(name string) string {
	return s.prefix + strings.TrimPrefix(name, "/")
}

func (s *Store) mapErr(name string, err error) error {
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return fmt.Errorf("gs://%s/%s: %w: %w", s.name, s.key(name), store.ErrNotFound, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: gs://%s: %w", store.ErrBackendUnavailable, s.name, err)
	}
	return fmt.Errorf("reading gs://%s/%s: %w", s.name, s.key(name), err)
}
