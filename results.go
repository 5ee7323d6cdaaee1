package scribe

import "maps"

// Results is an immutable snapshot of the generated texts of a run, keyed by
// result key. A failed step never appears: its key is absent, not empty.
// The zero value is an empty snapshot.
type Results struct {
	m map[string]string
}

// NewResults returns a snapshot holding a copy of m.
func NewResults(m map[string]string) Results {
	return Results{m: maps.Clone(m)}
}

// Get returns the text stored under key and whether it is present.
func (r Results) Get(key string) (string, bool) {
	v, ok := r.m[key]
	return v, ok
}

// Lookup returns a pointer to the text stored under key, or nil when the key
// is absent. Useful for JSON payloads that omit missing results.
func (r Results) Lookup(key string) *string {
	v, ok := r.m[key]
	if !ok {
		return nil
	}
	return &v
}

// With returns a new snapshot with key set to text. r is unchanged.
func (r Results) With(key, text string) Results {
	m := make(map[string]string, len(r.m)+1)
	maps.Copy(m, r.m)
	m[key] = text
	return Results{m: m}
}

// Len returns the number of stored results.
func (r Results) Len() int { return len(r.m) }

// Map returns a copy of the snapshot as a plain map.
func (r Results) Map() map[string]string {
	m := make(map[string]string, len(r.m))
	maps.Copy(m, r.m)
	return m
}
