package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/piitier/internal/cache"
	"github.com/ppiankov/piitier/internal/model"
	"github.com/ppiankov/piitier/internal/worker"
	"go.uber.org/zap"
)

// DetectRequest is the input to one LLM entity detection call
type DetectRequest struct {
	Text     string
	Entities []string

	// CategoryMapping maps requested entity types to CONFIDENTIAL, PRIVATE or RESTRICTED
	CategoryMapping map[string]string

	FileName   string
	UserPrompt string
}

// EntityDetector asks an LLM for entities and buckets them into categories
type EntityDetector struct {
	provider Provider
	limiter  *worker.Limiter
	cache    cache.Cache
	cacheTTL time.Duration
	timeout  time.Duration
	model    string
	tokens   int
	logger   *zap.Logger
}

// Option configures an EntityDetector
type Option func(*EntityDetector)

// WithLimiter bounds calls per provider
func WithLimiter(l *worker.Limiter) Option {
	return func(d *EntityDetector) { d.limiter = l }
}

// WithCache stores categorizations keyed by the full request
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(d *EntityDetector) {
		d.cache = c
		d.cacheTTL = ttl
	}
}

// NewEntityDetector wraps a provider
func NewEntityDetector(provider Provider, cfg Config, opts ...Option) *EntityDetector {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	d := &EntityDetector{
		provider: provider,
		timeout:  timeout,
		model:    cfg.Model,
		tokens:   cfg.MaxTokens,
		logger:   cfg.logger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectEntities never fails. Any error yields the all-empty categorization
// and is logged with the file name.
func (d *EntityDetector) DetectEntities(ctx context.Context, req DetectRequest) *model.LLMCategorization {
	log := d.logger.With(zap.String("file_name", req.FileName))

	if strings.TrimSpace(req.Text) == "" {
		log.Warn("LLM detection skipped: empty text")
		return model.NewLLMCategorization()
	}
	if d.provider == nil {
		log.Warn("LLM detection skipped: no provider configured")
		return model.NewLLMCategorization()
	}

	prompt := BuildPrompt(req.Text, req.Entities, req.UserPrompt)
	key := cache.CacheKey(d.provider.Name(), d.model, prompt, mappingKey(req.CategoryMapping))

	if d.cache != nil {
		if data, ok := d.cache.Get(key); ok {
			var cat model.LLMCategorization
			if err := json.Unmarshal(data, &cat); err == nil {
				log.Debug("LLM categorization served from cache")
				return normalize(&cat)
			}
		}
	}

	raw, err := d.complete(ctx, prompt)
	if err != nil {
		log.Error("LLM entity detection failed", zap.Error(err))
		return model.NewLLMCategorization()
	}

	cat := Categorize(raw, req.Entities, req.CategoryMapping)

	if d.cache != nil {
		if data, err := json.Marshal(cat); err == nil {
			if err := d.cache.Set(key, data, d.cacheTTL); err != nil {
				log.Warn("Failed to cache LLM categorization", zap.Error(err))
			}
		}
	}

	log.Debug("LLM entity detection finished",
		zap.Int("confidential", cat.Confidential.Total()),
		zap.Int("private", cat.Private.Total()),
		zap.Int("restricted", cat.Restricted.Total()),
	)
	return cat
}

func (d *EntityDetector) complete(ctx context.Context, prompt string) (*model.FindingsMap, error) {
	name := d.provider.Name()

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx, name); err != nil {
			return nil, &ServiceError{Provider: name, Op: "complete", Err: err}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	resp, err := d.provider.Complete(ctx, CompletionRequest{
		System:    SystemPrompt,
		Prompt:    prompt,
		Model:     d.model,
		MaxTokens: d.tokens,
		JSON:      true,
	})
	if err != nil {
		return nil, &ServiceError{Provider: name, Op: "complete", Err: err}
	}

	content := stripCodeFence(resp.Content)
	if content == "" {
		return nil, &ServiceError{Provider: name, Op: "complete", Err: ErrEmptyResponse}
	}

	raw := model.NewFindingsMap()
	if err := json.Unmarshal([]byte(content), raw); err != nil {
		return nil, &ServiceError{Provider: name, Op: "parse", Err: err}
	}
	return raw, nil
}

// Categorize buckets raw LLM findings. Requested types go to their mapped
// category (CONFIDENTIAL when unmapped or invalid); ad-hoc types always go
// to CONFIDENTIAL. Types with no values are dropped.
func Categorize(raw *model.FindingsMap, requested []string, mapping map[string]string) *model.LLMCategorization {
	cat := model.NewLLMCategorization()
	if raw == nil {
		return cat
	}

	isRequested := make(map[string]bool, len(requested))
	for _, e := range requested {
		isRequested[e] = true
	}

	for _, entityType := range raw.Types() {
		values := raw.Values(entityType)
		if len(values) == 0 {
			continue
		}
		category := model.CategoryConfidential
		if isRequested[entityType] {
			category = resolveCategory(mapping[entityType])
		}
		cat.Bucket(category).AddAll(entityType, values)
	}
	return cat
}

func resolveCategory(mapped string) string {
	switch c := strings.ToUpper(strings.TrimSpace(mapped)); c {
	case model.CategoryConfidential, model.CategoryPrivate, model.CategoryRestricted:
		return c
	default:
		return model.CategoryConfidential
	}
}

// normalize guarantees non-nil buckets on values decoded from the cache
func normalize(cat *model.LLMCategorization) *model.LLMCategorization {
	if cat.Confidential == nil {
		cat.Confidential = model.NewFindingsMap()
	}
	if cat.Private == nil {
		cat.Private = model.NewFindingsMap()
	}
	if cat.Restricted == nil {
		cat.Restricted = model.NewFindingsMap()
	}
	return cat
}

func mappingKey(mapping map[string]string) string {
	if len(mapping) == 0 {
		return ""
	}
	// encoding/json sorts map keys
	data, _ := json.Marshal(mapping)
	return string(data)
}

// stripCodeFence removes a ```json fence some models wrap around JSON output
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// String describes the detector for logs
func (d *EntityDetector) String() string {
	if d.provider == nil {
		return "llm(disabled)"
	}
	return fmt.Sprintf("llm(%s)", d.provider.Name())
}
