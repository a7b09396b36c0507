package formkit

import (
	"sort"
	"sync"
)

// Registry holds named custom validators and extra field types.
// Configs refer to validators by name so they stay serializable.
type Registry struct {
	mu         sync.RWMutex
	validators map[string]Predicate
	fieldTypes map[FieldType]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		validators: make(map[string]Predicate),
		fieldTypes: make(map[FieldType]bool),
	}
}

// RegisterValidator binds a predicate to name, replacing any previous one.
func (r *Registry) RegisterValidator(name string, p Predicate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validators[name] = p
}

// Validator returns the predicate registered under name.
func (r *Registry) Validator(name string) (Predicate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.validators[name]
	return p, ok
}

// Validators returns the registered validator names, sorted.
func (r *Registry) Validators() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.validators))
	for name := range r.validators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterFieldType marks a renderer-provided field type as known.
func (r *Registry) RegisterFieldType(t FieldType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fieldTypes[t] = true
}

// KnownFieldType reports whether t is built in, generic, or registered.
func (r *Registry) KnownFieldType(t FieldType) bool {
	if t == FieldGeneric {
		return true
	}
	for _, known := range FieldTypes {
		if known == t {
			return true
		}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fieldTypes[t]
}

var (
	defaultRegistryOnce sync.Once
	defaultRegistryMu   sync.RWMutex
	defaultRegistry     *Registry
)

// DefaultRegistry returns the process-wide registry, creating it on first use.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistryMu.Lock()
		if defaultRegistry == nil {
			defaultRegistry = NewRegistry()
		}
		defaultRegistryMu.Unlock()
	})
	defaultRegistryMu.RLock()
	defer defaultRegistryMu.RUnlock()
	return defaultRegistry
}

// SetDefaultRegistry replaces the process-wide registry. Passing nil resets
// it to an empty registry.
func SetDefaultRegistry(r *Registry) {
	defaultRegistryOnce.Do(func() {})
	if r == nil {
		r = NewRegistry()
	}
	defaultRegistryMu.Lock()
	defaultRegistry = r
	defaultRegistryMu.Unlock()
}
