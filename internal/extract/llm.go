package extract

import (
	"context"

	"github.com/ppiankov/piitier/internal/llm"
	"github.com/ppiankov/piitier/internal/model"
)

// LLMCategorizer is satisfied by llm.EntityDetector
type LLMCategorizer interface {
	DetectEntities(ctx context.Context, req llm.DetectRequest) *model.LLMCategorization
}

// LLMDetector folds an LLM categorization into the regex findings. The
// three categories are flattened; tiering is left to the classifier.
type LLMDetector struct {
	llm        LLMCategorizer
	entities   []string
	userPrompt string
}

// NewLLMDetector wraps an LLM categorizer. A non-empty entities list is
// sent to the LLM in place of the detector types passed to Detect.
func NewLLMDetector(c LLMCategorizer, entities []string, userPrompt string) *LLMDetector {
	return &LLMDetector{llm: c, entities: entities, userPrompt: userPrompt}
}

// Name returns the detector name
func (d *LLMDetector) Name() string {
	return "llm"
}

// Detect never fails; the LLM detector already degrades to an empty result
func (d *LLMDetector) Detect(ctx context.Context, text string, requested []string) (*model.FindingsMap, error) {
	if len(d.entities) > 0 {
		requested = d.entities
	}
	cat := d.llm.DetectEntities(ctx, llm.DetectRequest{
		Text:       text,
		Entities:   requested,
		UserPrompt: d.userPrompt,
		FileName:   FileName(ctx),
	})
	if cat == nil {
		return model.NewFindingsMap(), nil
	}
	return cat.Flatten(), nil
}

type fileNameKey struct{}

// WithFileName attaches the document name to ctx for detectors that log it
func WithFileName(ctx context.Context, fileName string) context.Context {
	return context.WithValue(ctx, fileNameKey{}, fileName)
}

// FileName returns the document name attached by WithFileName
func FileName(ctx context.Context) string {
	name, _ := ctx.Value(fileNameKey{}).(string)
	return name
}
