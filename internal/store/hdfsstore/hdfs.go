// Package hdfsstore implements an HDFS storage backend.
package hdfsstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	osuser "os/user"
	"path"

	"github.com/colinmarc/hdfs/v2"

	"github.com/tabcheck/tabcheck/internal/store"
)

// Scheme is the path scheme served by HDFS stores.
const Scheme = "hdfs"

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Client is the subset of the HDFS client used by Store.
type Client interface {
	Open(name string) (io.ReadSeekCloser, error)
	Stat(name string) (fs.FileInfo, error)
	Close() error
}

// Store is an HDFS storage backend for one namenode.
type Store struct {
	client  Client
	address string
}

type settings struct {
	user   string
	client Client
}

// Option configures a Store.
type Option func(*settings)

// WithUser sets the user to act as. Defaults to the HADOOP_USER_NAME
// environment variable, then the current OS user.
func WithUser(user string) Option {
	return func(s *settings) {
		s.user = user
	}
}

// WithClient uses the given client instead of connecting to a namenode.
func WithClient(client Client) Option {
	return func(s *settings) {
		s.client = client
	}
}

// New connects to the namenode at address ("host:port").
func New(address string, opts ...Option) (*Store, error) {
	var cfg settings
	for _, opt := range opts {
		opt(&cfg)
	}

	client := cfg.client
	if client == nil {
		user := cfg.user
		if user == "" {
			user = defaultUser()
		}
		c, err := hdfs.NewClient(hdfs.ClientOptions{
			Addresses: []string{address},
			User:      user,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: connecting to namenode %s: %w", store.ErrBackendUnavailable, address, err)
		}
		client = &hdfsClient{c}
	}

	return &Store{client: client, address: address}, nil
}

// Resolver returns a store.Resolver creating one Store per namenode.
func Resolver(opts ...Option) store.Resolver {
	return func(ctx context.Context, address string) (store.Store, error) {
		return New(address, opts...)
	}
}

// Open opens a file for reading.
func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return s.OpenRange(ctx, name, 0, -1)
}

// OpenRange opens a file positioned at off, limited to n bytes.
func (s *Store) OpenRange(ctx context.Context, name string, off, n int64) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.client.Open(s.path(name))
	if err != nil {
		return nil, s.mapErr(name, err)
	}
	if off > 0 {
		if _, err := f.Seek(off, io.SeekStart); err != nil {
			f.Close()
			return nil, fmt.Errorf("seeking %s to %d: %w", s.path(name), off, err)
		}
	}
	return store.LimitReadCloser(f, n), nil
}

// Exists reports whether a regular file exists at name.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	info, err := s.client.Stat(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, s.mapErr(name, err)
	}
	return !info.IsDir(), nil
}

// Length returns the size of a file.
func (s *Store) Length(ctx context.Context, name string) (int64, error) {
	info, err := s.client.Stat(s.path(name))
	if err != nil {
		return 0, s.mapErr(name, err)
	}
	return info.Size(), nil
}

// Close closes the namenode connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// path returns the absolute HDFS path for a name.
func (s *Store) path(name string) string {
	return path.Join("/", name)
}

func (s *Store) mapErr(name string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("hdfs://%s%s: %w", s.address, s.path(name), store.ErrNotFound)
	}
	return fmt.Errorf("reading hdfs://%s%s: %w", s.address, s.path(name), err)
}

// hdfsClient adapts *hdfs.Client to Client.
type hdfsClient struct {
	c *hdfs.Client
}

func (h *hdfsClient) Open(name string) (io.ReadSeekCloser, error) {
	return h.c.Open(name)
}

func (h *hdfsClient) Stat(name string) (fs.FileInfo, error) {
	return h.c.Stat(name)
}

func (h *hdfsClient) Close() error {
	return h.c.Close()
}

func defaultUser() string {
	if u := os.Getenv("HADOOP_USER_NAME"); u != "" {
		return u
	}
	if u, err := osuser.Current(); err == nil {
		return u.Username
	}
	return ""
}
