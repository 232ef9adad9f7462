package tagview

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/pthm/tagview/lib/encoding"
)

// Registry holds the records of every registered component and resolves
// names, class identities and tags to them. It is safe for concurrent use.
//
// The registry doubles as the default Container: it constructs components
// through the New function of their descriptor.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*Record // name -> record
	classes map[string]string  // class -> name
	tags    map[string]string  // base tag -> name
	ctors   map[string]func() Component
	order   []string
	logger  *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	s := newSettings(opts)
	return &Registry{
		records: make(map[string]*Record),
		classes: make(map[string]string),
		tags:    make(map[string]string),
		ctors:   make(map[string]func() Component),
		logger:  s.logger,
	}
}

// Register validates and adds components. A tag declared by two components
// stays with the higher priority; equal priorities are an error.
// Registration stops at the first invalid descriptor.
func (reg *Registry) Register(descs ...Descriptor) error {
	for _, d := range descs {
		rec, err := d.record(reg.logger)
		if err != nil {
			return err
		}
		if err := reg.add(rec, d.New); err != nil {
			return err
		}
	}
	return nil
}

// MustRegister is Register that panics on error.
func (reg *Registry) MustRegister(descs ...Descriptor) {
	if err := reg.Register(descs...); err != nil {
		panic(err)
	}
}

func (reg *Registry) add(rec *Record, ctor func() Component) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, exists := reg.records[rec.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, rec.Name)
	}
	if owner, exists := reg.classes[rec.Class]; exists {
		return fmt.Errorf("%w: class %s is already registered as %q", ErrDuplicateName, rec.Class, owner)
	}

	var claimed, kept []string
	taken := map[string][]string{} // previous owner -> tags
	for _, tag := range rec.Tags {
		owner, exists := reg.tags[tag]
		if !exists {
			claimed = append(claimed, tag)
			continue
		}
		current := reg.records[owner]
		switch {
		case current.Priority == rec.Priority:
			return fmt.Errorf("%w: %q is declared by %q and %q with priority %d",
				ErrTagCollision, tag, owner, rec.Name, rec.Priority)
		case current.Priority > rec.Priority:
			reg.logger.Warn("tag kept by higher priority component",
				zap.String("tag", tag), zap.String("kept", owner), zap.String("ignored", rec.Name))
			kept = append(kept, tag)
		default:
			reg.logger.Warn("tag taken over by higher priority component",
				zap.String("tag", tag), zap.String("previous", owner), zap.String("component", rec.Name))
			claimed = append(claimed, tag)
			taken[owner] = append(taken[owner], tag)
		}
	}

	rec.shadow(kept)
	for owner, tags := range taken {
		reg.records[owner] = reg.records[owner].withShadowed(tags)
	}
	reg.records[rec.Name] = rec
	reg.classes[rec.Class] = rec.Name
	for _, tag := range claimed {
		reg.tags[tag] = rec.Name
	}
	if ctor != nil {
		reg.ctors[rec.Class] = ctor
	}
	reg.order = append(reg.order, rec.Name)

	reg.logger.Debug("registered component",
		zap.String("component", rec.Name),
		zap.String("class", rec.Class),
		zap.Strings("tags", rec.Tags),
		zap.Bool("static", rec.Static))
	return nil
}

// Resolve returns the record for a component name, class identity or tag.
// Exact names win over class identities, which win over tags.
func (reg *Registry) Resolve(from string) (*Record, bool) {
	name, ok := reg.Name(from)
	if !ok {
		return nil, false
	}
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	rec, ok := reg.records[name]
	return rec, ok
}

// ResolveTag returns the record claiming tag, ignoring names and classes.
func (reg *Registry) ResolveTag(tag string) (*Record, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	name, ok := reg.tags[BaseTag(tag)]
	if !ok {
		return nil, false
	}
	return reg.records[name], true
}

// Name returns the component name for a name, class identity or tag.
func (reg *Registry) Name(from string) (string, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	if _, ok := reg.records[from]; ok {
		return from, true
	}
	if strings.ContainsAny(from, "./") {
		if name, ok := reg.classes[from]; ok {
			return name, true
		}
	}
	name, ok := reg.tags[BaseTag(from)]
	return name, ok
}

// HasComponent reports whether name is a registered component name.
func (reg *Registry) HasComponent(name string) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	_, ok := reg.records[name]
	return ok
}

// HasTag reports whether a component claims the base of tag.
func (reg *Registry) HasTag(tag string) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	_, ok := reg.tags[BaseTag(tag)]
	return ok
}

// Records returns every record in registration order.
func (reg *Registry) Records() []*Record {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]*Record, len(reg.order))
	for i, name := range reg.order {
		out[i] = reg.records[name]
	}
	return out
}

// Tags returns the tag index: base tag to component name.
func (reg *Registry) Tags() map[string]string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make(map[string]string, len(reg.tags))
	for k, v := range reg.tags {
		out[k] = v
	}
	return out
}

// New constructs a component by class identity.
func (reg *Registry) New(class string) (Component, bool) {
	reg.mu.RLock()
	ctor, ok := reg.ctors[class]
	reg.mu.RUnlock()
	if !ok {
		return nil, false
	}
	c := ctor()
	return c, c != nil
}

// Fingerprint hashes the tag index. Compiled templates depend on it, so it
// is part of their cache key.
func (reg *Registry) Fingerprint() string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	keys := make([]string, 0, len(reg.tags))
	for tag := range reg.tags {
		keys = append(keys, tag)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, tag := range keys {
		rec := reg.records[reg.tags[tag]]
		fmt.Fprintf(&b, "%s=%s:%t;", tag, rec.Name, rec.Static)
	}
	return encoding.SumString(b.String())
}
