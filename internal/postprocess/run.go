package postprocess

import (
	"fmt"
	"io"
	"slices"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/inodb/pheval-lirical/internal/extract"
	"github.com/inodb/pheval-lirical/internal/pheval"
)

// Sink receives ranked result sets. pheval.Writer and duckdb.Store are sinks.
type Sink interface {
	Write(rs *pheval.ResultSet) error
}

// FileReport records the outcome of processing one result file.
type FileReport struct {
	Path     string
	Genes    int
	Variants int
	Diseases int
	Warnings []extract.Warning
	Err      error // fatal for this file
}

// Report collects the outcome of a run.
type Report struct {
	Files []FileReport
}

// Failed returns the number of files that could not be processed or written.
func (r *Report) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil {
			n++
		}
	}
	return n
}

// WarningCounts returns the number of warnings recorded per kind.
func (r *Report) WarningCounts() map[extract.Kind]int {
	counts := make(map[extract.Kind]int)
	for _, f := range r.Files {
		for _, w := range f.Warnings {
			counts[w.Kind]++
		}
	}
	return counts
}

// Err combines every fatal file error, or returns nil.
func (r *Report) Err() error {
	var err error
	for _, f := range r.Files {
		err = multierr.Append(err, f.Err)
	}
	return err
}

// Summary writes a human-readable summary of the run.
func (r *Report) Summary(w io.Writer) {
	var genes, variants, diseases int
	for _, f := range r.Files {
		genes += f.Genes
		variants += f.Variants
		diseases += f.Diseases
	}

	fmt.Fprintf(w, "Files:     %d processed, %d failed\n", len(r.Files), r.Failed())
	fmt.Fprintf(w, "Genes:     %d\n", genes)
	fmt.Fprintf(w, "Variants:  %d\n", variants)
	fmt.Fprintf(w, "Diseases:  %d\n", diseases)

	counts := r.WarningCounts()
	kinds := make([]extract.Kind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	for _, k := range kinds {
		fmt.Fprintf(w, "Skipped (%s): %d\n", k, counts[k])
	}

	for _, f := range r.Files {
		if f.Err != nil {
			fmt.Fprintf(w, "Error: %v\n", f.Err)
		}
	}
}

// Run processes paths with the given number of workers and hands every
// result set to each sink. Sinks see result sets in the order of paths,
// whatever the worker count. A failing file or sink never stops the run;
// check Report.Err.
func (p *Processor) Run(paths []string, sinks []Sink, workers int) *Report {
	items := make(chan workItem, len(paths))
	for i, path := range paths {
		items <- workItem{Seq: i, Path: path}
	}
	close(items)

	report := &Report{Files: make([]FileReport, 0, len(paths))}
	orderedCollect(p.parallelProcess(items, workers), func(res workResult) {
		fr := FileReport{Path: res.Path, Warnings: res.Warnings, Err: res.Err}
		if res.Err != nil {
			p.logger.Error("failed to process result file",
				zap.String("file", res.Path), zap.Error(res.Err))
			report.Files = append(report.Files, fr)
			return
		}

		fr.Genes = len(res.Set.Genes)
		fr.Variants = len(res.Set.Variants)
		fr.Diseases = len(res.Set.Diseases)
		for _, s := range sinks {
			if err := s.Write(res.Set); err != nil {
				err = fmt.Errorf("write results for %s: %w", res.Path, err)
				p.logger.Error("failed to write results",
					zap.String("file", res.Path), zap.Error(err))
				fr.Err = multierr.Append(fr.Err, err)
			}
		}
		report.Files = append(report.Files, fr)
	})
	return report
}
