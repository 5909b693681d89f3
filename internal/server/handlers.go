package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ppiankov/piitier/internal/entities"
	"github.com/ppiankov/piitier/internal/model"
	"github.com/ppiankov/piitier/internal/pipeline"
	"go.uber.org/zap"
)

// AnalyzeRequest is the body of POST /v1/analyze
type AnalyzeRequest struct {
	FileName string `json:"file_name"`
	Text     string `json:"text"`
	Options
}

// Options are the detection options shared by analyze and batch requests
type Options struct {
	Entities []string `json:"entities,omitempty"`
	Country  string   `json:"country,omitempty"`
	// CategoryMapping is either a JSON object or a string holding one
	CategoryMapping json.RawMessage `json:"category_mapping,omitempty"`
	UserPrompt      string          `json:"user_prompt,omitempty"`
	LLM             bool            `json:"llm,omitempty"`
}

// BatchRequest is the body of POST /v1/batch
type BatchRequest struct {
	Documents []model.Document `json:"documents"`
	Options
}

// AnalyzeResponse is a categorized document plus the optional LLM block
type AnalyzeResponse struct {
	model.CategorizedDocument
	LLM *model.LLMCategorization `json:"llm,omitempty"`
}

// BatchResponse holds per-document results in request order
type BatchResponse struct {
	Results []*pipeline.Result `json:"results"`
	Totals  map[string]int     `json:"totals"`
}

// EntitiesResponse is the entity catalog
type EntitiesResponse struct {
	Global    []string            `json:"global"`
	Countries map[string][]string `json:"countries"`
	Custom    []string            `json:"custom"`
	Aliases   []string            `json:"aliases"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	if !s.processor.Ready() {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "analyzer": status})
}

func (s *Server) handleEntities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, EntitiesResponse{
		Global:    entities.Global,
		Countries: entities.Countries,
		Custom:    entities.Custom,
		Aliases:   entities.Aliases(),
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var body AnalyzeRequest
	if !s.decode(w, r, &body) {
		return
	}

	req, err := s.buildRequest(body.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result := s.processor.ProcessDocument(r.Context(), model.Document{FileName: body.FileName, Text: body.Text}, req)
	if err := result.GetError(); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.requestLogger(r.Context()).WithDocument(body.FileName).Debug("Document analyzed",
		zap.String("verdict", string(result.Document.Verdict)),
		zap.String("summary", result.Document.Summary))
	writeJSON(w, http.StatusOK, AnalyzeResponse{CategorizedDocument: *result.Document, LLM: result.LLM})
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var body BatchRequest
	if !s.decode(w, r, &body) {
		return
	}
	if len(body.Documents) == 0 {
		s.writeError(w, r, model.NewInputError("documents", "at least one document is required"))
		return
	}

	req, err := s.buildRequest(body.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	results := s.processor.ProcessDocuments(r.Context(), body.Documents, req, s.workers)
	writeJSON(w, http.StatusOK, BatchResponse{Results: results, Totals: pipeline.Totals(results)})
}

func (s *Server) buildRequest(opts Options) (pipeline.Request, error) {
	mapping, err := mappingString(opts.CategoryMapping)
	if err != nil {
		return pipeline.Request{}, err
	}
	if opts.LLM && !s.processor.LLMEnabled() {
		return pipeline.Request{}, model.NewInputError("llm", "LLM detection is not enabled on this server")
	}
	return pipeline.NewRequest(opts.Entities, opts.Country, mapping, opts.UserPrompt, opts.LLM)
}

// mappingString accepts an inline object or a JSON-encoded string
func mappingString(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", model.NewInputError("category_mapping", "invalid string")
		}
		return s, nil
	}
	return string(raw), nil
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				Error: fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit),
			})
			return false
		}
		s.writeError(w, r, model.NewInputError("body", "invalid JSON: "+err.Error()))
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var inputErr *model.InputError
	if errors.As(err, &inputErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: inputErr.Field})
		return
	}
	s.requestLogger(r.Context()).Error("Request failed", zap.String("path", r.URL.Path), zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
