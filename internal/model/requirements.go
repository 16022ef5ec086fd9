package model

import (
	"bytes"
	"encoding/json"
	"sort"
)

// OrderedRequirements is the criterion-key -> []Subject mapping attached to
// an Advancement. Key order is insertion-independent for equality (two
// OrderedRequirements built from the same key/value pairs in any order
// compare and serialize identically) because it always materializes in
// lexicographic key order.
type OrderedRequirements struct {
	entries map[string][]Subject
}

// NewOrderedRequirements builds an OrderedRequirements from an unordered
// map, as produced by the requirements extractor.
func NewOrderedRequirements(m map[string][]Subject) *OrderedRequirements {
	return &OrderedRequirements{entries: m}
}

// Keys returns the criterion keys in lexicographic order.
func (r *OrderedRequirements) Keys() []string {
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the subjects for a criterion key.
func (r *OrderedRequirements) Get(key string) ([]Subject, bool) {
	if r == nil {
		return nil, false
	}
	s, ok := r.entries[key]
	return s, ok
}

// Len returns the number of criteria.
func (r *OrderedRequirements) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Equal compares two OrderedRequirements for deep equality, independent of
// the order either was built in.
func (r *OrderedRequirements) Equal(other *OrderedRequirements) bool {
	rb, _ := json.Marshal(r)
	ob, _ := json.Marshal(other)
	return bytes.Equal(rb, ob)
}

// MarshalJSON emits the map in lexicographic key order so that two
// semantically equal OrderedRequirements always serialize byte-identically
// (load-bearing for C9's etag stability).
func (r *OrderedRequirements) MarshalJSON() ([]byte, error) {
	if r == nil || r.entries == nil {
		return []byte("{}"), nil
	}
	keys := r.Keys()
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(k)
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.entries[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores an OrderedRequirements from its map form.
func (r *OrderedRequirements) UnmarshalJSON(data []byte) error {
	var m map[string][]Subject
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	r.entries = m
	return nil
}
