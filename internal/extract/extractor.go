package extract

import (
	"context"
	"fmt"

	"github.com/ppiankov/piitier/internal/model"
	"go.uber.org/zap"
)

// Extractor merges the findings of its detectors in order. Later detectors
// only contribute values not already present for the same entity type.
type Extractor struct {
	detectors []Detector
	logger    *zap.Logger
}

// NewExtractor composes detectors in the given order
func NewExtractor(logger *zap.Logger, detectors ...Detector) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{detectors: detectors, logger: logger}
}

// New returns the standard composition: analyzer spans, then the manual fallback
func New(a EntityAnalyzer, scoreFloor float64, logger *zap.Logger) *Extractor {
	return NewExtractor(logger, NewAnalyzerDetector(a, scoreFloor), NewManualDetector())
}

// With returns a copy of the extractor with d appended
func (e *Extractor) With(d Detector) *Extractor {
	detectors := append(append([]Detector(nil), e.detectors...), d)
	return &Extractor{detectors: detectors, logger: e.logger}
}

// Detectors returns the detector names in merge order
func (e *Extractor) Detectors() []string {
	names := make([]string, 0, len(e.detectors))
	for _, d := range e.detectors {
		names = append(names, d.Name())
	}
	return names
}

// Extract returns the summary string and merged findings. It never fails:
// any detector error or panic yields NoPIIFound and empty findings.
func (e *Extractor) Extract(ctx context.Context, text string, requested []string) (summary string, findings *model.FindingsMap) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("PII extraction panicked", zap.Any("panic", r))
			summary, findings = model.NoPIIFound, model.NewFindingsMap()
		}
	}()

	merged, err := e.run(ctx, text, requested)
	if err != nil {
		e.logger.Error("PII extraction failed", zap.Error(err))
		return model.NoPIIFound, model.NewFindingsMap()
	}

	if merged.IsEmpty() {
		return model.NoPIIFound, merged
	}
	return merged.Summary(), merged
}

func (e *Extractor) run(ctx context.Context, text string, requested []string) (*model.FindingsMap, error) {
	merged := model.NewFindingsMap()
	for _, d := range e.detectors {
		found, err := d.Detect(ctx, text, requested)
		if err != nil {
			return nil, fmt.Errorf("%s detector: %w", d.Name(), err)
		}
		before := merged.Total()
		merged.Merge(found)
		e.logger.Debug("Detector finished",
			zap.String("detector", d.Name()),
			zap.Int("found", found.Total()),
			zap.Int("added", merged.Total()-before),
		)
	}
	return merged, nil
}
