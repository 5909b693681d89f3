// Package pipeline runs a document through extraction, classification and
// the optional LLM categorization.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/piitier/internal/analyzer"
	"github.com/ppiankov/piitier/internal/cache"
	"github.com/ppiankov/piitier/internal/classify"
	"github.com/ppiankov/piitier/internal/entities"
	"github.com/ppiankov/piitier/internal/extract"
	"github.com/ppiankov/piitier/internal/llm"
	"github.com/ppiankov/piitier/internal/model"
	"github.com/ppiankov/piitier/internal/recognizer"
	"github.com/ppiankov/piitier/internal/worker"
	"go.uber.org/zap"
)

// Request carries the per-call detection options
type Request struct {
	Entities        []string
	LLMEntities     []string // caller's names before alias expansion; mappings key on these
	CategoryMapping map[string]string
	UserPrompt      string
	UseLLM          bool
}

// NewRequest resolves the entity selection and parses the category mapping.
// An unknown country or malformed mapping is an InputError.
func NewRequest(selected []string, country, mappingJSON, userPrompt string, useLLM bool) (Request, error) {
	resolved, err := entities.Resolve(selected, country)
	if err != nil {
		if errors.Is(err, entities.ErrUnknownCountry) {
			return Request{}, model.NewInputError("country", err.Error())
		}
		return Request{}, err
	}

	mapping, err := entities.ParseCategoryMapping(mappingJSON)
	if err != nil {
		return Request{}, err
	}

	llmEntities := trimmed(selected)
	if len(llmEntities) == 0 {
		llmEntities = resolved
	}

	return Request{
		Entities:        resolved,
		LLMEntities:     llmEntities,
		CategoryMapping: mapping,
		UserPrompt:      strings.TrimSpace(userPrompt),
		UseLLM:          useLLM,
	}, nil
}

func trimmed(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// llmEntities falls back to the detector list for hand-built requests
func (r Request) llmEntities() []string {
	if len(r.LLMEntities) > 0 {
		return r.LLMEntities
	}
	return r.Entities
}

// Result is one document's outcome
type Result struct {
	Input    string                     `json:"input,omitempty"`
	Document *model.CategorizedDocument `json:"document,omitempty"`
	LLM      *model.LLMCategorization   `json:"llm,omitempty"`
	Message  string                     `json:"error,omitempty"`
	Err      error                      `json:"-"`
}

// GetError implements worker.Result
func (r *Result) GetError() error {
	return r.Err
}

func failed(input string, err error) *Result {
	return &Result{Input: input, Err: err, Message: err.Error()}
}

// Processor is safe for concurrent use; it holds no per-document state
type Processor struct {
	analyzer   extract.EntityAnalyzer
	extractor  *extract.Extractor
	classifier *classify.Classifier
	llm        extract.LLMCategorizer
	mergeLLM   bool
	logger     *zap.Logger
}

// Option configures a Processor
type Option func(*Processor)

// WithLLM enables LLM categorization. With merge set, LLM findings are folded
// into the regex findings instead of being reported separately.
func WithLLM(c extract.LLMCategorizer, merge bool) Option {
	return func(p *Processor) {
		p.llm = c
		p.mergeLLM = merge
	}
}

// NewProcessor composes the standard extractor over an analyzer
func NewProcessor(a extract.EntityAnalyzer, scoreFloor float64, logger *zap.Logger, opts ...Option) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Processor{
		analyzer:   a,
		extractor:  extract.New(a, scoreFloor, logger.Named("extract")),
		classifier: classify.New(logger.Named("classify")),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Build wires the configured analyzer, LLM provider, limiter and cache.
// Optional parts that fail to initialize are logged and left out.
func Build(ctx context.Context, cfg *model.Config, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}

	a := analyzer.Build(ctx, cfg.Engine, recognizer.Default(), logger.Named("analyzer"))

	var opts []Option
	if cfg.LLM.Enabled {
		opts = append(opts, WithLLM(buildDetector(cfg, logger.Named("llm")), cfg.Detection.MergeLLM))
	}
	return NewProcessor(a, cfg.Detection.ScoreFloor, logger, opts...)
}

func buildDetector(cfg *model.Config, logger *zap.Logger) *llm.EntityDetector {
	llmCfg := llm.ConfigFromModel(cfg.LLM)
	llmCfg.Logger = logger

	provider, err := llm.NewProvider(llmCfg)
	if err != nil {
		// nil provider: every request degrades to an empty categorization
		logger.Error("LLM provider unavailable", zap.String("provider", cfg.LLM.Provider), zap.Error(err))
	}

	opts := []llm.Option{WithRate(cfg.LLM)}
	c, err := cache.New(cfg.Cache, logger.Named("cache"))
	if err != nil {
		logger.Warn("LLM cache disabled", zap.Error(err))
	} else if c != nil {
		opts = append(opts, llm.WithCache(c, cfg.Cache.TTL()))
	}
	return llm.NewEntityDetector(provider, llmCfg, opts...)
}

// WithRate builds the per-provider request limiter option
func WithRate(cfg model.LLMConfig) llm.Option {
	return llm.WithLimiter(worker.NewLimiter(cfg.RateLimit, cfg.RateBurst))
}

// Ready reports whether the analyzer passed its startup probe
func (p *Processor) Ready() bool {
	if r, ok := p.analyzer.(interface{ Ready() bool }); ok {
		return r.Ready()
	}
	return p.analyzer != nil
}

// LLMEnabled reports whether an LLM categorizer is configured
func (p *Processor) LLMEnabled() bool {
	return p.llm != nil
}

// Detectors lists detector names in merge order for a request
func (p *Processor) Detectors(req Request) []string {
	return p.extractorFor(req).Detectors()
}

func (p *Processor) extractorFor(req Request) *extract.Extractor {
	if req.UseLLM && p.llm != nil && p.mergeLLM {
		return p.extractor.With(extract.NewLLMDetector(p.llm, req.llmEntities(), req.UserPrompt))
	}
	return p.extractor
}

// ProcessDocument extracts and classifies one document. Missing text and a
// done ctx fail the document; detector trouble degrades to fewer findings.
func (p *Processor) ProcessDocument(ctx context.Context, doc model.Document, req Request) *Result {
	if strings.TrimSpace(doc.Text) == "" {
		return failed(doc.FileName, model.NewInputError("text", fmt.Sprintf("%s: document has no text", displayName(doc.FileName))))
	}

	ctx = extract.WithFileName(ctx, doc.FileName)
	summary, findings := p.extractorFor(req).Extract(ctx, doc.Text, req.Entities)
	// a scan cut short by ctx has no verdict
	if err := ctx.Err(); err != nil {
		return failed(doc.FileName, fmt.Errorf("%s: scan interrupted: %w", displayName(doc.FileName), err))
	}
	categorized := p.classifier.Categorize(doc.FileName, summary, findings)

	result := &Result{Input: doc.FileName, Document: &categorized}

	if req.UseLLM && p.llm != nil && !p.mergeLLM {
		result.LLM = p.llm.DetectEntities(ctx, llm.DetectRequest{
			Text:            doc.Text,
			Entities:        req.llmEntities(),
			CategoryMapping: req.CategoryMapping,
			FileName:        doc.FileName,
			UserPrompt:      req.UserPrompt,
		})
	}

	p.logger.Debug("Document processed",
		zap.String("file_name", doc.FileName),
		zap.String("verdict", string(categorized.Verdict)),
		zap.Int("entity_types", findings.Len()))
	return result
}

func displayName(fileName string) string {
	if fileName == "" {
		return "<unnamed>"
	}
	return fileName
}
