package postprocess

import (
	"runtime"
	"sync"

	"github.com/inodb/pheval-lirical/internal/extract"
	"github.com/inodb/pheval-lirical/internal/pheval"
)

// workItem is a result file queued for processing.
type workItem struct {
	Seq  int
	Path string
}

// workResult holds the processing output for a single file.
type workResult struct {
	Seq      int
	Path     string
	Set      *pheval.ResultSet
	Warnings []extract.Warning
	Err      error
}

// parallelProcess processes work items using a pool of workers.
// Results arrive in completion order; use orderedCollect to consume them in
// sequence order. If workers is 0, runtime.NumCPU() is used.
func (p *Processor) parallelProcess(items <-chan workItem, workers int) <-chan workResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan workResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				rs, warnings, err := p.Process(item.Path)
				results <- workResult{
					Seq:      item.Seq,
					Path:     item.Path,
					Set:      rs,
					Warnings: warnings,
					Err:      err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// orderedCollect calls fn for each result in sequence-number order,
// buffering results that arrive early. Blocks until results is closed.
func orderedCollect(results <-chan workResult, fn func(workResult)) {
	pending := make(map[int]workResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			fn(rr)
		}
	}
}
