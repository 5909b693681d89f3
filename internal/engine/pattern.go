package engine

import (
	"context"
	"fmt"

	"github.com/ppiankov/piitier/internal/model"
	"github.com/ppiankov/piitier/internal/recognizer"
)

// PatternEngine is the built-in regex backend. It merges the predefined
// recognizers with a custom set and holds only compiled expressions.
type PatternEngine struct {
	predefined *recognizer.Set
	custom     *recognizer.Set
	supported  []string
}

// NewPatternEngine compiles the predefined recognizers and attaches the custom set
func NewPatternEngine(custom *recognizer.Set) (*PatternEngine, error) {
	predefined, err := recognizer.NewSet(Predefined()...)
	if err != nil {
		return nil, fmt.Errorf("%w: predefined recognizers: %v", model.ErrEngineUnavailable, err)
	}
	if custom == nil {
		custom, _ = recognizer.NewSet()
	}

	supported := predefined.EntityTypes()
	for _, t := range custom.EntityTypes() {
		if _, dup := predefined.Lookup(t); dup {
			return nil, fmt.Errorf("%w: custom recognizer %s shadows a predefined one", model.ErrEngineUnavailable, t)
		}
		supported = append(supported, t)
	}

	return &PatternEngine{predefined: predefined, custom: custom, supported: supported}, nil
}

// Name returns the backend name
func (e *PatternEngine) Name() string {
	return "pattern"
}

// SupportedEntities returns every entity type this engine can report
func (e *PatternEngine) SupportedEntities() []string {
	return append([]string(nil), e.supported...)
}

// Health always succeeds; there is nothing remote to probe
func (e *PatternEngine) Health(ctx context.Context) error {
	return nil
}

// Analyze runs predefined and custom recognizers and applies context
// enhancement. Predefined validators run here; custom validators are left
// to the caller.
func (e *PatternEngine) Analyze(ctx context.Context, text string, entities []string) ([]model.EntityMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var matches []model.EntityMatch
	for _, m := range e.predefined.Match(text, entities) {
		r, _ := e.predefined.Lookup(m.EntityType)
		if r.Validator != nil && !r.Validator(m.Text) {
			continue
		}
		matches = append(matches, enhance(text, m, r.Context))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, m := range e.custom.Match(text, entities) {
		r, _ := e.custom.Lookup(m.EntityType)
		matches = append(matches, enhance(text, m, r.Context))
	}

	return removeDuplicates(matches), nil
}

func enhance(text string, m model.EntityMatch, keywords []string) model.EntityMatch {
	if hasContext(text, m.Start, keywords) {
		m.Score = boost(m.Score)
	}
	return m
}
