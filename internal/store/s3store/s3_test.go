package s3store

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/tabcheck/tabcheck/internal/store"
)

// fakeAPI serves objects from a map and records the last GetObject input.
type fakeAPI struct {
	objects map[string]string
	err     error
	lastGet *s3.GetObjectInput
}

func (f *fakeAPI) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.lastGet = in
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(data))}, nil
}

func (f *fakeAPI) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(data)))}, nil
}

func newTestStore(t *testing.T, api *fakeAPI, opts ...Option) *Store {
	t.Helper()
	s, err := New(context.Background(), "bucket", append(opts, WithClient(api))...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func TestWithPrefix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"prefix", "prefix/"},
		{"prefix/", "prefix/"},
		{"a/b/c", "a/b/c/"},
		{"a/b/c/", "a/b/c/"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var s settings
			WithPrefix(tt.input)(&s)
			if s.prefix != tt.want {
				t.Errorf("prefix = %q, want %q", s.prefix, tt.want)
			}
		})
	}
}

func TestStore_Open(t *testing.T) {
	api := &fakeAPI{objects: map[string]string{"jobs/out/part-r-00000": "1\n2\n"}}
	s := newTestStore(t, api, WithPrefix("jobs"))

	rc, err := s.Open(context.Background(), "out/part-r-00000")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "1\n2\n" {
		t.Errorf("Open() = %q, want %q", data, "1\n2\n")
	}
	if api.lastGet.Range != nil {
		t.Errorf("Open() Range = %q, want none", aws.ToString(api.lastGet.Range))
	}
}

func TestStore_OpenRange(t *testing.T) {
	tests := []struct {
		off, n int64
		want   string
	}{
		{0, -1, ""},
		{10, -1, "bytes=10-"},
		{0, 5, "bytes=0-4"},
		{100, 50, "bytes=100-149"},
	}

	for _, tt := range tests {
		api := &fakeAPI{objects: map[string]string{"f": "data"}}
		s := newTestStore(t, api)
		rc, err := s.OpenRange(context.Background(), "f", tt.off, tt.n)
		if err != nil {
			t.Fatalf("OpenRange() error = %v", err)
		}
		rc.Close()
		if got := aws.ToString(api.lastGet.Range); got != tt.want {
			t.Errorf("OpenRange(%d, %d) Range = %q, want %q", tt.off, tt.n, got, tt.want)
		}
	}
}

func TestStore_OpenRange_Empty(t *testing.T) {
	api := &fakeAPI{}
	s := newTestStore(t, api)

	rc, err := s.OpenRange(context.Background(), "f", 10, 0)
	if err != nil {
		t.Fatalf("OpenRange() error = %v", err)
	}
	if data, _ := io.ReadAll(rc); len(data) != 0 {
		t.Errorf("OpenRange() = %q, want empty", data)
	}
	if api.lastGet != nil {
		t.Error("OpenRange() with n = 0 should not call S3")
	}
}

func TestStore_ExistsAndLength(t *testing.T) {
	api := &fakeAPI{objects: map[string]string{"f": "12345"}}
	s := newTestStore(t, api)
	ctx := context.Background()

	if ok, err := s.Exists(ctx, "f"); !ok || err != nil {
		t.Errorf("Exists(f) = %v, %v, want true, nil", ok, err)
	}
	if ok, err := s.Exists(ctx, "missing"); ok || err != nil {
		t.Errorf("Exists(missing) = %v, %v, want false, nil", ok, err)
	}
	if n, err := s.Length(ctx, "f"); n != 5 || err != nil {
		t.Errorf("Length() = %d, %v, want 5, nil", n, err)
	}
}

func TestStore_ErrorMapping(t *testing.T) {
	notFound := &awshttp.ResponseError{
		ResponseError: &smithyhttp.ResponseError{
			Response: &smithyhttp.Response{Response: &http.Response{StatusCode: http.StatusNotFound}},
			Err:      errors.New("not found"),
		},
	}
	forbidden := &awshttp.ResponseError{
		ResponseError: &smithyhttp.ResponseError{
			Response: &smithyhttp.Response{Response: &http.Response{StatusCode: http.StatusForbidden}},
			Err:      errors.New("access denied"),
		},
	}

	tests := []struct {
		name            string
		err             error
		wantNotFound    bool
		wantUnavailable bool
	}{
		{"no such key", &types.NoSuchKey{}, true, false},
		{"http 404", notFound, true, false},
		{"http 403", forbidden, false, false},
		{"network", errors.New("dial tcp: connection refused"), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, &fakeAPI{err: tt.err})
			_, err := s.Open(context.Background(), "f")
			if err == nil {
				t.Fatal("Open() error = nil, want error")
			}
			if got := errors.Is(err, store.ErrNotFound); got != tt.wantNotFound {
				t.Errorf("errors.Is(ErrNotFound) = %v, want %v (err = %v)", got, tt.wantNotFound, err)
			}
			if got := errors.Is(err, store.ErrBackendUnavailable); got != tt.wantUnavailable {
				t.Errorf("errors.Is(ErrBackendUnavailable) = %v, want %v (err = %v)", got, tt.wantUnavailable, err)
			}
		})
	}
}

func TestStore_Close(t *testing.T) {
	s := &Store{}
	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
