package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ppiankov/piitier/internal/model"
	"github.com/ppiankov/piitier/internal/recognizer"
	"go.uber.org/zap"
)

// Engine finds entity spans in text. Implementations must be safe for
// concurrent use.
type Engine interface {
	// Name returns the backend name
	Name() string

	// Analyze returns spans for the requested entity types, or for every
	// supported type when entities is empty
	Analyze(ctx context.Context, text string, entities []string) ([]model.EntityMatch, error)

	// Health probes the backend
	Health(ctx context.Context) error
}

// New builds the configured backend around the custom recognizer set
func New(cfg model.EngineConfig, set *recognizer.Set, logger *zap.Logger) (Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Backend {
	case "", "pattern":
		return NewPatternEngine(set)
	case "presidio":
		timeout := time.Duration(cfg.Presidio.Timeout) * time.Second
		return NewPresidioEngine(PresidioConfig{
			URL:      cfg.Presidio.URL,
			Language: cfg.Presidio.Language,
			Timeout:  timeout,
		}, set, logger)
	default:
		return nil, fmt.Errorf("%w: unknown backend %q (supported: pattern, presidio)", model.ErrEngineUnavailable, cfg.Backend)
	}
}

// removeDuplicates drops spans of the same entity type that are contained in
// a higher or equally scored span, then orders by start offset
func removeDuplicates(matches []model.EntityMatch) []model.EntityMatch {
	sorted := append([]model.EntityMatch(nil), matches...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return (sorted[i].End - sorted[i].Start) > (sorted[j].End - sorted[j].Start)
	})

	kept := make([]model.EntityMatch, 0, len(sorted))
	for _, m := range sorted {
		dup := false
		for _, k := range kept {
			if k.EntityType == m.EntityType && k.Start <= m.Start && m.End <= k.End {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, m)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Start != kept[j].Start {
			return kept[i].Start < kept[j].Start
		}
		return kept[i].EntityType < kept[j].EntityType
	})
	return kept
}
