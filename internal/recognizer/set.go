package recognizer

import (
	"fmt"

	"github.com/ppiankov/piitier/internal/model"
	"github.com/ppiankov/piitier/internal/validate"
)

// Set is an ordered, read-only collection of compiled recognizers
type Set struct {
	recognizers []*Recognizer
	byType      map[string]*Recognizer
}

// NewSet compiles the given recognizers. Entity types must be unique.
func NewSet(recognizers ...Recognizer) (*Set, error) {
	s := &Set{
		recognizers: make([]*Recognizer, 0, len(recognizers)),
		byType:      make(map[string]*Recognizer, len(recognizers)),
	}

	for i := range recognizers {
		r := recognizers[i]
		if r.EntityType == "" {
			return nil, fmt.Errorf("recognizer %d: empty entity type", i)
		}
		if _, dup := s.byType[r.EntityType]; dup {
			return nil, fmt.Errorf("recognizer %s: duplicate entity type", r.EntityType)
		}

		r.Patterns = append([]Pattern(nil), r.Patterns...)
		for j := range r.Patterns {
			if err := r.Patterns[j].Compile(); err != nil {
				return nil, fmt.Errorf("recognizer %s: %w", r.EntityType, err)
			}
		}
		r.Context = append([]string(nil), r.Context...)

		s.recognizers = append(s.recognizers, &r)
		s.byType[r.EntityType] = &r
	}

	return s, nil
}

// Lookup returns the recognizer for an entity type
func (s *Set) Lookup(entityType string) (*Recognizer, bool) {
	r, ok := s.byType[entityType]
	return r, ok
}

// Validator returns the validator for an entity type, or nil if it has none
func (s *Set) Validator(entityType string) validate.Func {
	if r, ok := s.byType[entityType]; ok {
		return r.Validator
	}
	return nil
}

// EntityTypes returns the entity types in set order
func (s *Set) EntityTypes() []string {
	out := make([]string, 0, len(s.recognizers))
	for _, r := range s.recognizers {
		out = append(out, r.EntityType)
	}
	return out
}

// Recognizers returns the recognizers in set order
func (s *Set) Recognizers() []*Recognizer {
	return append([]*Recognizer(nil), s.recognizers...)
}

// Len returns the number of recognizers
func (s *Set) Len() int {
	return len(s.recognizers)
}

// Match runs the recognizers for the requested entity types (all of them
// when entities is empty) and returns raw, unvalidated matches
func (s *Set) Match(text string, entities []string) []model.EntityMatch {
	var matches []model.EntityMatch
	for _, r := range s.scoped(entities) {
		matches = append(matches, r.Find(text)...)
	}
	return matches
}

func (s *Set) scoped(entities []string) []*Recognizer {
	if len(entities) == 0 {
		return s.recognizers
	}
	want := make(map[string]bool, len(entities))
	for _, e := range entities {
		want[e] = true
	}
	var out []*Recognizer
	for _, r := range s.recognizers {
		if want[r.EntityType] {
			out = append(out, r)
		}
	}
	return out
}
