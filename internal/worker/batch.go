package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// Processor handles one batch input: a file path or a document URL
type Processor interface {
	ProcessInput(ctx context.Context, input string) Result
}

// ProcessorFunc adapts a function to Processor
type ProcessorFunc func(ctx context.Context, input string) Result

// ProcessInput calls f
func (f ProcessorFunc) ProcessInput(ctx context.Context, input string) Result {
	return f(ctx, input)
}

type indexedJob struct {
	index int
	run   IndexedFunc
}

type indexedResult struct {
	index  int
	result Result
}

func (r indexedResult) GetError() error {
	if r.result == nil {
		return nil
	}
	return r.result.GetError()
}

func (j *indexedJob) Execute(ctx context.Context) Result {
	return indexedResult{index: j.index, result: j.run(ctx, j.index)}
}

// IndexedFunc processes item i of a batch
type IndexedFunc func(ctx context.Context, i int) Result

// RunIndexed calls fn for every index in [0, n) over a pool of concurrency
// goroutines. Results are placed by index; items never started stay nil.
func RunIndexed(ctx context.Context, n, concurrency int, fn IndexedFunc) []Result {
	results := make([]Result, n)
	if n == 0 {
		return results
	}

	pool := NewPool(ctx, concurrency)
	pool.Start()

	go func() {
		for i := 0; i < n; i++ {
			if !pool.Submit(&indexedJob{index: i, run: fn}) {
				break
			}
		}
		pool.Close()
	}()

	for r := range pool.Results() {
		ir := r.(indexedResult)
		results[ir.index] = ir.result
	}
	return results
}

// CancelledResult stands in for inputs never started because ctx was cancelled
type CancelledResult struct {
	Input string
	Err   error
}

// GetError returns the cancellation cause
func (r *CancelledResult) GetError() error {
	return r.Err
}

// BatchProcessor processes inputs concurrently over a bounded pool
type BatchProcessor struct {
	processor   Processor
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(processor Processor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		processor:   processor,
		concurrency: concurrency,
	}
}

// Process runs every input and returns the results in input order
func (b *BatchProcessor) Process(ctx context.Context, inputs []string) []Result {
	results := RunIndexed(ctx, len(inputs), b.concurrency, func(ctx context.Context, i int) Result {
		return b.processor.ProcessInput(ctx, inputs[i])
	})
	for i, r := range results {
		if r == nil {
			results[i] = &CancelledResult{Input: inputs[i], Err: CancelCause(ctx)}
		}
	}
	return results
}

// CancelCause is ctx's error, or context.Canceled when the pool stopped
// without ctx being done
func CancelCause(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return context.Canceled
}

// ProcessFile reads inputs from a list file and processes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]Result, error) {
	inputs, err := ReadInputsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read inputs: %w", err)
	}

	return b.Process(ctx, inputs), nil
}

// ReadInputsFromFile reads one path or URL per line, skipping blanks,
// comments and duplicates
func ReadInputsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var inputs []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			inputs = append(inputs, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return inputs, nil
}
