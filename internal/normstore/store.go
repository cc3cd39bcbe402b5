// Package normstore owns the flat record storage behind the normalized
// cache: a concurrent map from entity keys to records, where each record is
// a set of field slots keyed by field storage keys. Policy decisions (which
// slot a field occupies, how values merge) are made by the caller; this
// package only stores the outcome.
package normstore

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

// Ref points at a normalized record from a parent field slot. Nested entity
// payloads are replaced by Refs during normalization so that one logical
// entity lives in exactly one record.
type Ref struct {
	Key string
}

// Record is one normalized entity: a mutable set of field slots.
// Records are safe for concurrent use.
type Record struct {
	mu     sync.RWMutex
	fields map[string]any
}

func newRecord() *Record {
	return &Record{fields: make(map[string]any)}
}

// Get returns the value stored under the field storage key.
func (r *Record) Get(key string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.fields[key]
	return v, ok
}

// Set stores a value under the field storage key, replacing any prior value.
func (r *Record) Set(key string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fields[key] = value
}

// Fields returns a shallow copy of the record's field slots.
func (r *Record) Fields() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]any, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}

// Len returns the number of populated field slots.
func (r *Record) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.fields)
}

// Store is the flat normalized record map.
type Store struct {
	records *xsync.MapOf[string, *Record]
}

// New creates an empty store.
func New() *Store {
	return &Store{records: xsync.NewMapOf[string, *Record]()}
}

// Ensure returns the record for key, creating it on first write.
func (s *Store) Ensure(key string) *Record {
	if rec, ok := s.records.Load(key); ok {
		return rec
	}
	rec, _ := s.records.LoadOrStore(key, newRecord())
	return rec
}

// Lookup returns the record for key without creating it.
func (s *Store) Lookup(key string) (*Record, bool) {
	return s.records.Load(key)
}

// Delete removes the record for key and reports whether one existed.
func (s *Store) Delete(key string) bool {
	_, existed := s.records.LoadAndDelete(key)
	return existed
}

// Clear removes every record.
func (s *Store) Clear() {
	s.records.Clear()
}

// Len returns the number of records.
func (s *Store) Len() int {
	return s.records.Size()
}

// Range calls fn for each record until fn returns false.
func (s *Store) Range(fn func(key string, rec *Record) bool) {
	s.records.Range(fn)
}
