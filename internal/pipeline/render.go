package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/ppiankov/piitier/internal/model"
)

// Renderer writes reports as JSON and as a console summary
type Renderer struct {
	out     io.Writer
	verbose bool
	colors  map[model.Verdict]*color.Color
	dim     *color.Color
	fail    *color.Color
}

// NewRenderer creates a renderer writing summaries to out
func NewRenderer(out io.Writer, verbose, noColor bool) *Renderer {
	r := &Renderer{
		out:     out,
		verbose: verbose,
		colors: map[model.Verdict]*color.Color{
			model.VerdictConfidential: color.New(color.FgRed, color.Bold),
			model.VerdictPrivate:      color.New(color.FgYellow, color.Bold),
			model.VerdictRestricted:   color.New(color.FgCyan, color.Bold),
			model.VerdictPublic:       color.New(color.FgGreen),
		},
		dim:  color.New(color.FgHiBlack),
		fail: color.New(color.FgRed),
	}
	if noColor {
		for _, c := range r.palette() {
			c.DisableColor()
		}
	}
	return r
}

func (r *Renderer) palette() []*color.Color {
	out := []*color.Color{r.dim, r.fail}
	for _, c := range r.colors {
		out = append(out, c)
	}
	return out
}

// WriteJSON encodes v as indented JSON to w
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// RenderJSON writes v to path, creating parent directories
func (r *Renderer) RenderJSON(v any, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(f, v); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// RenderSummary prints one line per result; verbose adds the tier buckets
func (r *Renderer) RenderSummary(results ...*Result) {
	for _, res := range results {
		r.renderOne(res)
	}
}

func (r *Renderer) renderOne(res *Result) {
	if res.Err != nil {
		_, _ = r.fail.Fprintf(r.out, "✗ %s: %v\n", res.Input, res.Err)
		return
	}

	doc := res.Document
	c, ok := r.colors[doc.Verdict]
	if !ok {
		c = r.dim
	}
	_, _ = fmt.Fprintf(r.out, "%-12s %s  %s\n",
		c.Sprint(strings.ToUpper(string(doc.Verdict))), res.Input, r.dim.Sprint(doc.Summary))

	if r.verbose {
		r.renderBuckets("Confidential", doc.Categories.Confidential)
		r.renderBuckets("Private", doc.Categories.Private)
		r.renderBuckets("Restricted", doc.Categories.Restricted)
		r.renderBuckets("Other", doc.Categories.Other)
	}

	if res.LLM != nil && !res.LLM.IsEmpty() {
		_, _ = fmt.Fprintf(r.out, "  llm: confidential=%d private=%d restricted=%d\n",
			res.LLM.Confidential.Total(), res.LLM.Private.Total(), res.LLM.Restricted.Total())
	}
}

func (r *Renderer) renderBuckets(tier string, buckets []model.EntityBucket) {
	for _, b := range buckets {
		_, _ = fmt.Fprintf(r.out, "  %-12s %-32s %d\n", tier, b.EntityType, b.Count)
	}
}

// Totals counts results by verdict; failures are counted under "error"
func Totals(results []*Result) map[string]int {
	totals := make(map[string]int)
	for _, res := range results {
		if res.Err != nil {
			totals["error"]++
			continue
		}
		totals[string(res.Document.Verdict)]++
	}
	return totals
}
