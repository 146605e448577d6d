// Package s3store implements an AWS S3 storage backend.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/tabcheck/tabcheck/internal/store"
)

// Scheme is the path scheme served by S3 stores.
const Scheme = "s3"

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// API is the subset of the S3 client used by Store.
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// Store is an AWS S3 storage backend for one bucket.
type Store struct {
	client API
	bucket string
	prefix string
}

type settings struct {
	prefix   string
	region   string
	endpoint string
	client   API
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

// WithRegion sets the AWS region.
func WithRegion(region string) Option {
	return func(s *settings) {
		s.region = region
	}
}

// WithEndpoint sets a custom endpoint (for S3-compatible services like MinIO).
// Path-style addressing is used with a custom endpoint.
func WithEndpoint(endpoint string) Option {
	return func(s *settings) {
		s.endpoint = endpoint
	}
}

// WithClient uses the given client instead of one built from the default
// AWS configuration.
func WithClient(client API) Option {
	return func(s *settings) {
		s.client = client
	}
}

// New creates a new S3 store.
// The bucket must already exist.
func New(ctx context.Context, bucketName string, opts ...Option) (*Store, error) {
	var cfg settings
	for _, opt := range opts {
		opt(&cfg)
	}

	client := cfg.client
	if client == nil {
		var loadOpts []func(*config.LoadOptions) error
		if cfg.region != "" {
			loadOpts = append(loadOpts, config.WithRegion(cfg.region))
		}
		awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.endpoint)
				o.UsePathStyle = true
			}
		})
	}

	return &Store{
		client: client,
		bucket: bucketName,
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

// OpenRange returns n bytes of an object starting at off, using an HTTP
// Range request.
func (s *Store) OpenRange(ctx context.Context, name string, off, n int64) (io.ReadCloser, error) {
	// Check for cancellation before starting.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n == 0 {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}

	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	}
	if r := byteRange(off, n); r != "" {
		input.Range = aws.String(r)
	}

	result, err := s.client.GetObject(ctx, input)
	if err != nil {
		return nil, s.mapErr(name, err)
	}
	return result.Body, nil
}

// Exists reports whether an object exists.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.head(ctx, name)
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
	out, err := s.head(ctx, name)
	if err != nil {
		return 0, err
	}
	return aws.ToInt64(out.ContentLength), nil
}

// Close releases resources.
func (s *Store) Close() error {
	// S3 client doesn't need explicit closing.
	return nil
}

func (s *Store) head(ctx context.Context, name string) (*s3.HeadObjectOutput, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		return nil, s.mapErr(name, err)
	}
	return out, nil
}

// key returns the full object key for a name.
func (s *Store) key(name string) string {
	return s.prefix + strings.TrimPrefix(name, "/")
}

// mapErr translates S3 errors into store errors. Errors without an HTTP
// response mean the service could not be reached.
func (s *Store) mapErr(name string, err error) error {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	if errors.As(err, &nsk) || errors.As(err, &nf) {
		return fmt.Errorf("s3://%s/%s: %w", s.bucket, s.key(name), store.ErrNotFound)
	}

	var re *awshttp.ResponseError
	if errors.As(err, &re) {
		if re.HTTPStatusCode() == http.StatusNotFound {
			return fmt.Errorf("s3://%s/%s: %w", s.bucket, s.key(name), store.ErrNotFound)
		}
		return fmt.Errorf("reading s3://%s/%s: %w", s.bucket, s.key(name), err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: s3://%s: %w", store.ErrBackendUnavailable, s.bucket, err)
}

// byteRange returns the HTTP Range header value for off and n, or "" for
// the whole object.
func byteRange(off, n int64) string {
	switch {
	case off <= 0 && n < 0:
		return ""
	case n < 0:
		return fmt.Sprintf("bytes=%d-", off)
	default:
		return fmt.Sprintf("bytes=%d-%d", off, off+n-1)
	}
}
