package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ppiankov/piitier/internal/model"
	"github.com/ppiankov/piitier/internal/recognizer"
	"go.uber.org/zap"
)

// PresidioConfig configures the Presidio analyzer client
type PresidioConfig struct {
	URL      string
	Language string
	Timeout  time.Duration
}

// PresidioEngine delegates span finding to a Presidio analyzer service.
// The custom recognizers travel with every request as ad-hoc recognizers.
type PresidioEngine struct {
	baseURL    string
	language   string
	httpClient *http.Client
	adHoc      []presidioRecognizer
	logger     *zap.Logger
}

// Presidio API structures
type presidioRequest struct {
	Text             string               `json:"text"`
	Language         string               `json:"language"`
	Entities         []string             `json:"entities,omitempty"`
	AdHocRecognizers []presidioRecognizer `json:"ad_hoc_recognizers,omitempty"`
}

type presidioRecognizer struct {
	Name              string            `json:"name"`
	SupportedLanguage string            `json:"supported_language"`
	SupportedEntity   string            `json:"supported_entity"`
	Patterns          []presidioPattern `json:"patterns"`
	Context           []string          `json:"context,omitempty"`
}

type presidioPattern struct {
	Name  string  `json:"name"`
	Regex string  `json:"regex"`
	Score float64 `json:"score"`
}

type presidioResult struct {
	EntityType string  `json:"entity_type"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Score      float64 `json:"score"`
}

type presidioError struct {
	Error string `json:"error"`
}

// NewPresidioEngine creates a Presidio client carrying the custom set
func NewPresidioEngine(cfg PresidioConfig, set *recognizer.Set, logger *zap.Logger) (*PresidioEngine, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: presidio url is required", model.ErrEngineUnavailable)
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var adHoc []presidioRecognizer
	if set != nil {
		adHoc = adHocRecognizers(set, cfg.Language)
	}

	return &PresidioEngine{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		language:   cfg.Language,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		adHoc:      adHoc,
		logger:     logger,
	}, nil
}

// adHocRecognizers converts the custom set to Presidio's wire form. Presidio
// evaluates Python regexes, so digit bounds become look-arounds again.
func adHocRecognizers(set *recognizer.Set, language string) []presidioRecognizer {
	recs := set.Recognizers()
	out := make([]presidioRecognizer, 0, len(recs))
	for _, r := range recs {
		pr := presidioRecognizer{
			Name:              r.Name,
			SupportedLanguage: language,
			SupportedEntity:   r.EntityType,
			Context:           r.Context,
		}
		for _, p := range r.Patterns {
			regex := p.Regex
			if p.DigitBounded {
				regex = `(?<!\d)` + regex + `(?!\d)`
			}
			pr.Patterns = append(pr.Patterns, presidioPattern{Name: p.Name, Regex: regex, Score: p.Score})
		}
		out = append(out, pr)
	}
	return out
}

// Name returns the backend name
func (e *PresidioEngine) Name() string {
	return "presidio"
}

// Health probes GET /health
func (e *PresidioEngine) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrEngineUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health check returned %d", model.ErrEngineUnavailable, resp.StatusCode)
	}
	return nil
}

// Analyze posts text to /analyze and converts results to byte offsets
func (e *PresidioEngine) Analyze(ctx context.Context, text string, entities []string) ([]model.EntityMatch, error) {
	body, err := json.Marshal(presidioRequest{
		Text:             text,
		Language:         e.language,
		Entities:         entities,
		AdHocRecognizers: e.adHoc,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr presidioError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("presidio error (%d): %s", httpResp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("presidio error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	var results []presidioResult
	if err := json.Unmarshal(respBody, &results); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	offsets := runeOffsets(text)
	matches := make([]model.EntityMatch, 0, len(results))
	for _, r := range results {
		start, okStart := offsets.byteOffset(r.Start)
		end, okEnd := offsets.byteOffset(r.End)
		if !okStart || !okEnd || start >= end {
			e.logger.Debug("Dropping out of range presidio span",
				zap.String("entity_type", r.EntityType),
				zap.Int("start", r.Start),
				zap.Int("end", r.End),
			)
			continue
		}
		matches = append(matches, model.EntityMatch{
			EntityType: r.EntityType,
			Text:       text[start:end],
			Start:      start,
			End:        end,
			Score:      r.Score,
			Recognizer: "presidio",
		})
	}

	return matches, nil
}

// runeIndex maps code point indexes, which Presidio reports, to byte offsets
type runeIndex []int

func runeOffsets(text string) runeIndex {
	idx := make(runeIndex, 0, utf8.RuneCountInString(text)+1)
	for i := range text {
		idx = append(idx, i)
	}
	return append(idx, len(text))
}

func (r runeIndex) byteOffset(runePos int) (int, bool) {
	if runePos < 0 || runePos >= len(r) {
		return 0, false
	}
	return r[runePos], true
}
