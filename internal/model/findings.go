package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// FindingsMap maps entity types to the unique values found for them.
// Keys and values keep insertion order; values are deduplicated by exact,
// case-sensitive text per entity type. The zero value is ready to use.
type FindingsMap struct {
	order  []string
	values map[string][]string
	seen   map[string]map[string]struct{}
}

// NewFindingsMap creates an empty findings map
func NewFindingsMap() *FindingsMap {
	return &FindingsMap{}
}

func (f *FindingsMap) init() {
	if f.values == nil {
		f.values = make(map[string][]string)
		f.seen = make(map[string]map[string]struct{})
	}
}

// Add records value under entityType. It reports false when the value was
// already present for that type.
func (f *FindingsMap) Add(entityType, value string) bool {
	f.init()

	set, ok := f.seen[entityType]
	if !ok {
		set = make(map[string]struct{})
		f.seen[entityType] = set
		f.order = append(f.order, entityType)
	}
	if _, dup := set[value]; dup {
		return false
	}
	set[value] = struct{}{}
	f.values[entityType] = append(f.values[entityType], value)
	return true
}

// AddAll records every value under entityType and returns how many were new
func (f *FindingsMap) AddAll(entityType string, values []string) int {
	added := 0
	for _, v := range values {
		if f.Add(entityType, v) {
			added++
		}
	}
	return added
}

// Has reports whether value is recorded under entityType
func (f *FindingsMap) Has(entityType, value string) bool {
	if f == nil || f.seen == nil {
		return false
	}
	_, ok := f.seen[entityType][value]
	return ok
}

// Values returns a copy of the values recorded for entityType
func (f *FindingsMap) Values(entityType string) []string {
	if f == nil || f.values == nil {
		return nil
	}
	vals := f.values[entityType]
	out := make([]string, len(vals))
	copy(out, vals)
	return out
}

// Types returns entity types in insertion order
func (f *FindingsMap) Types() []string {
	if f == nil {
		return nil
	}
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Len returns the number of entity types
func (f *FindingsMap) Len() int {
	if f == nil {
		return 0
	}
	return len(f.order)
}

// IsEmpty reports whether no values have been recorded
func (f *FindingsMap) IsEmpty() bool {
	return f.Len() == 0
}

// Total returns the number of values across all entity types
func (f *FindingsMap) Total() int {
	if f == nil {
		return 0
	}
	total := 0
	for _, vals := range f.values {
		total += len(vals)
	}
	return total
}

// Merge adds every value of other that is not already present
func (f *FindingsMap) Merge(other *FindingsMap) {
	if other == nil {
		return
	}
	for _, t := range other.order {
		f.AddAll(t, other.values[t])
	}
}

// Clone returns an independent copy
func (f *FindingsMap) Clone() *FindingsMap {
	out := NewFindingsMap()
	out.Merge(f)
	return out
}

// Summary renders "<type>:<count>, <type>:<count>" sorted by entity type.
// An empty map yields NoPIIFound.
func (f *FindingsMap) Summary() string {
	if f.IsEmpty() {
		return NoPIIFound
	}

	types := f.Types()
	sort.Strings(types)

	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, fmt.Sprintf("%s:%d", t, len(f.values[t])))
	}
	return strings.Join(parts, ", ")
}

// MarshalJSON encodes the map as a JSON object in insertion order
func (f *FindingsMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if f != nil {
		for i, t := range f.order {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(t)
			if err != nil {
				return nil, err
			}
			vals, err := json.Marshal(f.values[t])
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(vals)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of string lists, keeping key order
func (f *FindingsMap) UnmarshalJSON(data []byte) error {
	*f = FindingsMap{}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("findings: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("findings: expected string key, got %v", tok)
		}
		var vals []string
		if err := dec.Decode(&vals); err != nil {
			return fmt.Errorf("findings: values for %s: %w", key, err)
		}
		f.AddAll(key, vals)
	}

	_, err = dec.Token()
	return err
}
