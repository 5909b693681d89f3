package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/ppiankov/piitier/internal/entities"
	"github.com/ppiankov/piitier/internal/llm"
	"github.com/ppiankov/piitier/internal/model"
	"github.com/ppiankov/piitier/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spanAnalyzer reports every occurrence of the configured values
type spanAnalyzer struct {
	spans map[string]string // value -> entity type
}

func (s spanAnalyzer) Analyze(ctx context.Context, text string, requested []string) []model.EntityMatch {
	var out []model.EntityMatch
	for value, entityType := range s.spans {
		if i := strings.Index(text, value); i >= 0 {
			out = append(out, model.EntityMatch{EntityType: entityType, Text: value, Start: i, End: i + len(value), Score: 0.9})
		}
	}
	return out
}

type stubCategorizer struct {
	mu     sync.Mutex
	reqs   []llm.DetectRequest
	result *model.LLMCategorization
}

func (s *stubCategorizer) DetectEntities(ctx context.Context, req llm.DetectRequest) *model.LLMCategorization {
	s.mu.Lock()
	s.reqs = append(s.reqs, req)
	s.mu.Unlock()
	return s.result
}

func engineNoCategorization() *model.LLMCategorization {
	cat := model.NewLLMCategorization()
	cat.Confidential.Add("ENGINE_NO", "EN12345")
	return cat
}

func TestProcessDocument_ConfidentialVerdict(t *testing.T) {
	a := spanAnalyzer{spans: map[string]string{
		"2341 2341 2346":  "IN_AADHAR_CARD_CUSTOM",
		"123456789012345": "IN_BANK_ACCOUNT",
		"MH12ME12345678":  "MEDICAL_LICENSE_CUSTOM",
		"Asha Verma":      "PERSON",
	}}
	p := NewProcessor(a, 0.2, nil)

	res := p.ProcessDocument(context.Background(), model.Document{
		FileName: "kyc.txt",
		Text:     "Asha Verma, Aadhaar 2341 2341 2346, account 123456789012345, licence MH12ME12345678",
	}, Request{Entities: []string{"IN_AADHAR_CARD_CUSTOM", "IN_BANK_ACCOUNT", "MEDICAL_LICENSE_CUSTOM", "PERSON"}})

	require.NoError(t, res.GetError())
	assert.Equal(t, "kyc.txt", res.Document.FileName)
	assert.Equal(t, "yes", res.Document.HasPII)
	assert.Equal(t, model.VerdictConfidential, res.Document.Verdict)
	assert.Len(t, res.Document.Categories.Confidential, 3)
	assert.Len(t, res.Document.Categories.Private, 1)
	assert.Nil(t, res.LLM)
}

func TestProcessDocument_EmptyTextIsInputError(t *testing.T) {
	p := NewProcessor(spanAnalyzer{}, 0.2, nil)

	res := p.ProcessDocument(context.Background(), model.Document{FileName: "blank.txt", Text: "  \n"}, Request{})

	require.Error(t, res.GetError())
	assert.True(t, model.IsInputError(res.GetError()))
	assert.Nil(t, res.Document)
	assert.Contains(t, res.Message, "blank.txt")
}

func TestProcessDocument_NoPII(t *testing.T) {
	p := NewProcessor(spanAnalyzer{}, 0.2, nil)
	res := p.ProcessDocument(context.Background(), model.Document{FileName: "memo.txt", Text: "quarterly notes"},
		Request{Entities: []string{"PERSON"}})

	require.NoError(t, res.GetError())
	assert.Equal(t, "no", res.Document.HasPII)
	assert.Equal(t, model.NoPIIFound, res.Document.Summary)
	assert.Equal(t, model.VerdictPublic, res.Document.Verdict)
}

func TestProcessDocument_SeparateLLMBlock(t *testing.T) {
	stub := &stubCategorizer{result: engineNoCategorization()}
	p := NewProcessor(spanAnalyzer{}, 0.2, nil, WithLLM(stub, false))

	req := Request{
		Entities:        []string{"PERSON"},
		CategoryMapping: map[string]string{"PERSON": "PRIVATE"},
		UserPrompt:      "also engine numbers",
		UseLLM:          true,
	}
	res := p.ProcessDocument(context.Background(), model.Document{FileName: "rc.txt", Text: "engine EN12345"}, req)

	require.NoError(t, res.GetError())
	require.NotNil(t, res.LLM)
	assert.Equal(t, []string{"EN12345"}, res.LLM.Confidential.Values("ENGINE_NO"))
	assert.Equal(t, model.VerdictPublic, res.Document.Verdict)

	require.Len(t, stub.reqs, 1)
	assert.Equal(t, "rc.txt", stub.reqs[0].FileName)
	assert.Equal(t, "PRIVATE", stub.reqs[0].CategoryMapping["PERSON"])
	assert.Equal(t, "also engine numbers", stub.reqs[0].UserPrompt)
}

func TestProcessDocument_LLMSkippedUnlessRequested(t *testing.T) {
	stub := &stubCategorizer{result: engineNoCategorization()}
	p := NewProcessor(spanAnalyzer{}, 0.2, nil, WithLLM(stub, false))

	res := p.ProcessDocument(context.Background(), model.Document{FileName: "a.txt", Text: "text"}, Request{})
	require.NoError(t, res.GetError())
	assert.Nil(t, res.LLM)
	assert.Empty(t, stub.reqs)
}

func TestProcessDocument_MergedLLM(t *testing.T) {
	stub := &stubCategorizer{result: engineNoCategorization()}
	p := NewProcessor(spanAnalyzer{}, 0.2, nil, WithLLM(stub, true))
	req := Request{UseLLM: true}

	assert.Equal(t, []string{"analyzer", "manual", "llm"}, p.Detectors(req))

	res := p.ProcessDocument(context.Background(), model.Document{FileName: "rc.txt", Text: "engine EN12345"}, req)
	require.NoError(t, res.GetError())
	assert.Nil(t, res.LLM)
	assert.True(t, res.Document.Findings.Has("ENGINE_NO", "EN12345"))
	require.Len(t, res.Document.Categories.Other, 1)
	assert.Equal(t, "ENGINE_NO", res.Document.Categories.Other[0].EntityType)
}

func TestNewRequest(t *testing.T) {
	req, err := NewRequest(nil, "india", `{"IN_PAN":"RESTRICTED"}`, "  watch for chassis numbers ", true)
	require.NoError(t, err)
	assert.Contains(t, req.Entities, "IN_GST_NUMBER")
	assert.Contains(t, req.Entities, "PERSON")
	assert.Equal(t, "RESTRICTED", req.CategoryMapping["IN_PAN"])
	assert.Equal(t, "watch for chassis numbers", req.UserPrompt)
	assert.True(t, req.UseLLM)

	_, err = NewRequest(nil, "Atlantis", "", "", false)
	assert.True(t, model.IsInputError(err))

	_, err = NewRequest(nil, "", `[1,2]`, "", false)
	assert.True(t, model.IsInputError(err))

	all, err := NewRequest(nil, "", "", "", false)
	require.NoError(t, err)
	assert.Equal(t, entities.All(), all.Entities)
	assert.Equal(t, all.Entities, all.LLMEntities)

	picked, err := NewRequest([]string{" IN_PAN ", "IN_PAN", "ENGINE_NO"}, "", "", "", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"IN_PAN", "ENGINE_NO"}, picked.LLMEntities)
	assert.Equal(t, []string{"IN_PAN_CUSTOM", "IN_PAN", "ENGINE_NO"}, picked.Entities)
}

func TestProcessDocuments_InputOrder(t *testing.T) {
	p := NewProcessor(spanAnalyzer{spans: map[string]string{"Asha Verma": "PERSON"}}, 0.2, nil)
	docs := []model.Document{
		{FileName: "a.txt", Text: "Asha Verma"},
		{FileName: "b.txt", Text: ""},
		{FileName: "c.txt", Text: "nothing here"},
	}

	results := p.ProcessDocuments(context.Background(), docs, Request{Entities: []string{"PERSON"}}, 2)

	require.Len(t, results, 3)
	assert.Equal(t, "a.txt", results[0].Document.FileName)
	assert.Equal(t, "yes", results[0].Document.HasPII)
	assert.True(t, model.IsInputError(results[1].GetError()))
	assert.Equal(t, "b.txt", results[1].Input)
	assert.Equal(t, "no", results[2].Document.HasPII)

	totals := Totals(results)
	assert.Equal(t, 1, totals["error"])
	assert.Equal(t, 2, totals[string(model.VerdictPublic)])
}

func TestProcessDocuments_Cancelled(t *testing.T) {
	p := NewProcessor(spanAnalyzer{}, 0.2, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := p.ProcessDocuments(ctx, []model.Document{{FileName: "a.txt", Text: "x"}}, Request{}, 1)
	require.Len(t, results, 1)
	assert.True(t, errors.Is(results[0].GetError(), context.Canceled))
	assert.Equal(t, "a.txt", results[0].Input)
	assert.Nil(t, results[0].Document)
}

func TestProcessDocument_InterruptedScanHasNoVerdict(t *testing.T) {
	a := spanAnalyzer{spans: map[string]string{"2341 2341 2346": "IN_AADHAR_CARD_CUSTOM"}}
	p := NewProcessor(a, 0.2, nil)
	doc := model.Document{FileName: "kyc.txt", Text: "Aadhaar 2341 2341 2346, PAN ABCDE1234F, passport J8369854"}
	req := Request{Entities: []string{"IN_AADHAR_CARD_CUSTOM", "IN_PAN_CUSTOM", "IN_PASSPORT_CUSTOM"}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := p.ProcessDocument(ctx, doc, req)

	require.Error(t, res.GetError())
	assert.True(t, errors.Is(res.GetError(), context.Canceled))
	assert.Nil(t, res.Document)
	assert.Contains(t, res.Message, "kyc.txt")

	expired, stop := context.WithTimeout(context.Background(), -time.Second)
	defer stop()
	res = p.ProcessDocument(expired, doc, req)
	assert.True(t, errors.Is(res.GetError(), context.DeadlineExceeded))

	res = p.ProcessDocument(context.Background(), doc, req)
	require.NoError(t, res.GetError())
	assert.Equal(t, "yes", res.Document.HasPII)
}

// jsonProvider answers every completion with a fixed JSON object
type jsonProvider struct {
	content string
	prompts []string
}

func (j *jsonProvider) Name() string                         { return "fixed" }
func (j *jsonProvider) IsAvailable(ctx context.Context) bool { return true }

func (j *jsonProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	j.prompts = append(j.prompts, req.Prompt)
	return &llm.CompletionResponse{Content: j.content}, nil
}

func TestProcessDocument_LLMMappingUsesCallerNames(t *testing.T) {
	provider := &jsonProvider{content: `{"IN_AADHAR":["2345 6789 0123"],"ENGINE_NO":["EN12345"]}`}
	p := NewProcessor(spanAnalyzer{}, 0.2, nil, WithLLM(llm.NewEntityDetector(provider, llm.Config{}), false))

	req, err := NewRequest([]string{"IN_AADHAR"}, "", `{"IN_AADHAR":"PRIVATE"}`, "", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"IN_AADHAR_CARD_CUSTOM", "IN_AADHAAR"}, req.Entities)
	assert.Equal(t, []string{"IN_AADHAR"}, req.LLMEntities)

	res := p.ProcessDocument(context.Background(), model.Document{FileName: "form.txt", Text: "Aadhaar 2345 6789 0123, engine EN12345"}, req)

	require.NoError(t, res.GetError())
	require.NotNil(t, res.LLM)
	assert.Equal(t, []string{"2345 6789 0123"}, res.LLM.Private.Values("IN_AADHAR"))
	assert.False(t, res.LLM.Confidential.Has("IN_AADHAR", "2345 6789 0123"))
	assert.Equal(t, []string{"EN12345"}, res.LLM.Confidential.Values("ENGINE_NO"))
	require.Len(t, provider.prompts, 1)
	assert.Contains(t, provider.prompts[0], "IN_AADHAR")
}

func TestProcessDocument_MergedLLMGetsCallerNames(t *testing.T) {
	stub := &stubCategorizer{result: model.NewLLMCategorization()}
	p := NewProcessor(spanAnalyzer{}, 0.2, nil, WithLLM(stub, true))

	req, err := NewRequest([]string{"IN_PAN"}, "", "", "", true)
	require.NoError(t, err)
	p.ProcessDocument(context.Background(), model.Document{FileName: "pan.txt", Text: "PAN ABCDE1234F"}, req)

	require.Len(t, stub.reqs, 1)
	assert.Equal(t, []string{"IN_PAN"}, stub.reqs[0].Entities)
}

func TestRunner_LoadsFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "form.html")
	require.NoError(t, os.WriteFile(good, []byte("<p>Asha Verma</p>"), 0o644))
	bad := filepath.Join(dir, "scan.png")
	require.NoError(t, os.WriteFile(bad, []byte("png"), 0o644))

	p := NewProcessor(spanAnalyzer{spans: map[string]string{"Asha Verma": "PERSON"}}, 0.2, nil)
	loader := source.NewLoader(model.SourceConfig{MaxBytes: 1 << 20}, nil)
	r := NewRunner(loader, p, Request{Entities: []string{"PERSON"}})

	results := r.RunInputs(context.Background(), []string{good, bad}, 2)

	require.Len(t, results, 2)
	require.NoError(t, results[0].GetError())
	assert.Equal(t, good, results[0].Input)
	assert.Equal(t, "form.html", results[0].Document.FileName)
	assert.True(t, results[0].Document.Findings.Has("PERSON", "Asha Verma"))
	assert.True(t, errors.Is(results[1].GetError(), source.ErrUnsupported))
}

func TestRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, true, true)

	p := NewProcessor(spanAnalyzer{spans: map[string]string{"Asha Verma": "PERSON"}}, 0.2, nil)
	ok := p.ProcessDocument(context.Background(), model.Document{FileName: "a.txt", Text: "Asha Verma"},
		Request{Entities: []string{"PERSON"}})
	bad := failed("b.txt", errors.New("boom"))

	r.RenderSummary(ok, bad)

	out := buf.String()
	assert.Contains(t, out, "PUBLIC")
	assert.Contains(t, out, "PERSON:1")
	assert.Contains(t, out, "Private")
	assert.Contains(t, out, "✗ b.txt: boom")
}

func TestNewRenderer_NoColorStaysLocal(t *testing.T) {
	saved := color.NoColor
	t.Cleanup(func() { color.NoColor = saved })
	color.NoColor = false

	var plain bytes.Buffer
	NewRenderer(&plain, false, true).RenderSummary(failed("a.txt", errors.New("boom")))
	assert.False(t, color.NoColor)
	assert.NotContains(t, plain.String(), "\x1b[")

	var colored bytes.Buffer
	NewRenderer(&colored, false, false).RenderSummary(failed("b.txt", errors.New("boom")))
	assert.Contains(t, colored.String(), "\x1b[")
}

func TestRenderJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	r := NewRenderer(&bytes.Buffer{}, false, true)

	require.NoError(t, r.RenderJSON([]*Result{failed("x.txt", errors.New("boom"))}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"error": "boom"`)
	assert.NotContains(t, string(data), `"document"`)
}
