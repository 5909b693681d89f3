package pipeline

import (
	"context"
	"fmt"

	"github.com/ppiankov/piitier/internal/model"
	"github.com/ppiankov/piitier/internal/source"
	"github.com/ppiankov/piitier/internal/worker"
)

// DocumentLoader reads a batch input into a document
type DocumentLoader interface {
	Load(ctx context.Context, input string) (model.Document, error)
}

var _ DocumentLoader = (*source.Loader)(nil)

// Runner loads inputs and processes them with a fixed request
type Runner struct {
	loader    DocumentLoader
	processor *Processor
	request   Request
}

// NewRunner creates a runner for batch inputs
func NewRunner(loader DocumentLoader, processor *Processor, req Request) *Runner {
	return &Runner{loader: loader, processor: processor, request: req}
}

// ProcessInput implements worker.Processor
func (r *Runner) ProcessInput(ctx context.Context, input string) worker.Result {
	doc, err := r.loader.Load(ctx, input)
	if err != nil {
		return failed(input, err)
	}
	result := r.processor.ProcessDocument(ctx, doc, r.request)
	result.Input = input
	return result
}

// RunInputs processes file paths or URLs concurrently, in input order
func (r *Runner) RunInputs(ctx context.Context, inputs []string, concurrency int) []*Result {
	return collect(worker.NewBatchProcessor(r, concurrency).Process(ctx, inputs))
}

// ProcessDocuments classifies in-memory documents concurrently, in input order
func (p *Processor) ProcessDocuments(ctx context.Context, docs []model.Document, req Request, concurrency int) []*Result {
	results := worker.RunIndexed(ctx, len(docs), concurrency, func(ctx context.Context, i int) worker.Result {
		return p.ProcessDocument(ctx, docs[i], req)
	})

	out := make([]*Result, len(docs))
	for i, r := range results {
		if r == nil {
			out[i] = failed(docs[i].FileName, worker.CancelCause(ctx))
			continue
		}
		out[i] = r.(*Result)
	}
	return out
}

func collect(results []worker.Result) []*Result {
	out := make([]*Result, len(results))
	for i, r := range results {
		switch v := r.(type) {
		case *Result:
			out[i] = v
		case *worker.CancelledResult:
			out[i] = failed(v.Input, v.Err)
		default:
			out[i] = failed("", fmt.Errorf("unexpected batch result %T", r))
		}
	}
	return out
}
