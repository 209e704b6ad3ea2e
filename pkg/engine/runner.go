package engine

import (
	"context"
	"runtime"
	"sync"
)

// Runner analyzes many inputs with a bounded worker pool. Workers share
// the engine's component summary cache; everything else is per-file.
type Runner struct {
	engine  *Engine
	workers int
}

// NewRunner creates a runner with the given worker count. Zero or
// negative means one worker per CPU.
func NewRunner(engine *Engine, workers int) *Runner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Runner{engine: engine, workers: workers}
}

type job struct {
	index int
	input Input
}

// Run analyzes all inputs and returns results in input order. A ctx
// already done before a file starts skips that file; a file in flight
// runs to completion, the pipeline has no internal suspension point.
func (r *Runner) Run(ctx context.Context, inputs []Input) []Result {
	results := make([]Result, len(inputs))
	jobs := make(chan job, len(inputs))

	var wg sync.WaitGroup

	for range r.workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := range jobs {
				select {
				case <-ctx.Done():
					results[j.index] = Result{File: j.input.File, Err: ctx.Err()}

					continue
				default:
				}

				results[j.index] = r.engine.AnalyzeFile(ctx, j.input)
			}
		}()
	}

	for i, in := range inputs {
		jobs <- job{index: i, input: in}
	}

	close(jobs)
	wg.Wait()

	return results
}
