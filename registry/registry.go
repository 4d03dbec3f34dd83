// Package registry holds insertion-ordered maps keyed by unit call sign.
package registry

import (
	"iter"
	"strings"
	"sync"
)

// Entry is a single key/value pair of a KeyedRegistry
type Entry[T any] struct {
	Key   string `json:"key"`
	Value T      `json:"value"`
}

// KeyedRegistry maps normalized keys to values and remembers insertion order
type KeyedRegistry[T any] struct {
	mu     sync.RWMutex
	keys   []string
	values map[string]T
}

// New creates a registry seeded with entries, in order
func New[T any](entries ...Entry[T]) *KeyedRegistry[T] {
	r := &KeyedRegistry[T]{values: make(map[string]T)}
	for _, e := range entries {
		r.upsert(e.Key, e.Value)
	}
	return r
}

// Normalize trims and upper-cases a key
func Normalize(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// Upsert inserts value under key, or overwrites the existing value in place
func (r *KeyedRegistry[T]) Upsert(key string, value T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsert(key, value)
}

func (r *KeyedRegistry[T]) upsert(key string, value T) {
	k := Normalize(key)
	if _, ok := r.values[k]; !ok {
		r.keys = append(r.keys, k)
	}
	r.values[k] = value
}

// Remove deletes key if present
func (r *KeyedRegistry[T]) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := Normalize(key)
	if _, ok := r.values[k]; !ok {
		return
	}
	delete(r.values, k)
	for i, existing := range r.keys {
		if existing == k {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// Get returns the value stored under key
func (r *KeyedRegistry[T]) Get(key string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[Normalize(key)]
	return v, ok
}

// Len returns the number of entries
func (r *KeyedRegistry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.keys)
}

// Entries yields key/value pairs in insertion order from a snapshot
func (r *KeyedRegistry[T]) Entries() iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		for _, e := range r.Snapshot() {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Snapshot returns a copy of the entries in insertion order
func (r *KeyedRegistry[T]) Snapshot() []Entry[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry[T], 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, Entry[T]{Key: k, Value: r.values[k]})
	}
	return out
}

// Clear empties the registry and then seeds it with defaults. Passing no
// defaults leaves it empty.
func (r *KeyedRegistry[T]) Clear(defaults ...Entry[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = nil
	r.values = make(map[string]T, len(defaults))
	for _, e := range defaults {
		r.upsert(e.Key, e.Value)
	}
}
