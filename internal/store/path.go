package store

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// SchemeFile is the scheme of local filesystem paths, including bare paths.
const SchemeFile = "file"

// Path is a logical file location: a backend scheme, an optional host
// (bucket, namenode address), and a backend-relative name.
type Path struct {
	Scheme string
	Host   string
	Name   string
}

// ParsePath parses a logical path such as "s3://bucket/out/part-r-00000.gz"
// or "/tmp/out/part-r-00000". Bare paths use the file scheme.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return Path{}, fmt.Errorf("parsing path: empty path")
	}
	if !strings.Contains(s, "://") {
		abs, err := filepath.Abs(s)
		if err != nil {
			return Path{}, fmt.Errorf("parsing path %q: %w", s, err)
		}
		return Path{Scheme: SchemeFile, Name: filepath.ToSlash(abs)}, nil
	}

	// Object keys may hold '#', '?' and '%', so the path is split by hand
	// rather than parsed as a URL.
	i := strings.Index(s, "://")
	scheme := strings.ToLower(s[:i])
	if scheme == "" {
		return Path{}, fmt.Errorf("parsing path %q: missing scheme", s)
	}
	host, name, _ := strings.Cut(s[i+len("://"):], "/")
	p := Path{Scheme: scheme, Host: host}
	switch scheme {
	case SchemeFile:
		p.Name = cleanAbs(host + "/" + name)
		p.Host = ""
	default:
		p.Name = name
	}
	if p.Name == "" || p.Name == "/" {
		return Path{}, fmt.Errorf("parsing path %q: no file name", s)
	}
	return p, nil
}

// Base returns the last element of the name.
func (p Path) Base() string {
	return path.Base(p.Name)
}

// Dir returns the path of the directory containing p.
func (p Path) Dir() Path {
	p.Name = path.Dir(p.Name)
	return p
}

// Join returns p with elem appended to its name.
func (p Path) Join(elem ...string) Path {
	p.Name = path.Join(append([]string{p.Name}, elem...)...)
	return p
}

// String returns the path in URL form. File paths are rendered bare.
func (p Path) String() string {
	if p.Scheme == SchemeFile || p.Scheme == "" {
		return p.Name
	}
	return p.Scheme + "://" + p.Host + "/" + p.Name
}

func cleanAbs(name string) string {
	name = path.Clean(name)
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	return name
}
