package codec

import (
	"path"
	"sort"
	"strings"
	"sync"
)

// Resolution is the outcome of resolving a file name against a Registry.
type Resolution struct {
	// Kind selects the stream construction branch.
	Kind Kind
	// Codec is nil when Kind is KindNone.
	Codec Codec
	// Stem is the file name with the codec suffix removed.
	Stem string
}

// Mapping is one suffix to codec entry of a Registry.
type Mapping struct {
	Extension string
	Codec     Codec
}

// Registry maps file name suffixes to codecs.
// A Registry is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byExt  map[string]Codec
	byName map[string]Codec
}

// NewRegistry returns a registry with each codec registered under its
// default extension.
func NewRegistry(codecs ...Codec) *Registry {
	r := &Registry{
		byExt:  make(map[string]Codec),
		byName: make(map[string]Codec),
	}
	for _, c := range codecs {
		r.Register(c)
	}
	return r
}

// Register adds c under its default extension, replacing any previous
// mapping for that extension.
func (r *Registry) Register(c Codec) {
	r.RegisterExtension(c.Extension(), c)
}

// RegisterExtension maps ext (with or without leading dot) to c.
func (r *Registry) RegisterExtension(ext string, c Codec) {
	ext = normalizeExt(ext)
	if ext == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byExt[ext] = c
	r.byName[c.Name()] = c
}

// Unregister removes the mapping for ext.
func (r *Registry) Unregister(ext string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byExt, normalizeExt(ext))
}

// Lookup returns the codec registered with the given name.
func (r *Registry) Lookup(name string) (Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byName[name]
	return c, ok
}

// Resolve picks the codec for a file name from its last extension.
// Names without a registered extension resolve to KindNone.
func (r *Registry) Resolve(name string) Resolution {
	base := path.Base(name)
	ext := path.Ext(base)
	if ext == "" || ext == base {
		return Resolution{Kind: KindNone, Stem: base}
	}

	r.mu.RLock()
	c, ok := r.byExt[normalizeExt(ext)]
	r.mu.RUnlock()
	if !ok {
		return Resolution{Kind: KindNone, Stem: base}
	}

	return Resolution{
		Kind:  KindOf(c),
		Codec: c,
		Stem:  strings.TrimSuffix(base, ext),
	}
}

// Mappings returns all suffix mappings sorted by extension.
func (r *Registry) Mappings() []Mapping {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Mapping, 0, len(r.byExt))
	for ext, c := range r.byExt {
		out = append(out, Mapping{Extension: ext, Codec: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Extension < out[j].Extension })
	return out
}

// Clone returns an independent copy of r.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := NewRegistry()
	for ext, v := range r.byExt {
		c.byExt[ext] = v
	}
	for name, v := range r.byName {
		c.byName[name] = v
	}
	return c
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
