// Package postprocess turns raw LIRICAL result files into ranked PhEval
// result sets and hands them to output sinks.
package postprocess

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/pheval-lirical/internal/extract"
	"github.com/inodb/pheval-lirical/internal/lirical"
	"github.com/inodb/pheval-lirical/internal/pheval"
	"github.com/inodb/pheval-lirical/internal/rank"
)

// Processor converts one LIRICAL result file into a ranked result set.
// A Processor is safe for concurrent use once configured.
type Processor struct {
	resolver extract.GeneResolver
	order    rank.SortOrder
	diseases bool
	logger   *zap.Logger
}

// NewProcessor creates a processor that resolves genes with resolver and
// ranks every result kind in order. Disease results are produced only when
// diseases is true.
func NewProcessor(resolver extract.GeneResolver, order rank.SortOrder, diseases bool) *Processor {
	return &Processor{
		resolver: resolver,
		order:    order,
		diseases: diseases,
		logger:   zap.NewNop(),
	}
}

// SetLogger sets the logger for warning and debug messages.
func (p *Processor) SetLogger(l *zap.Logger) {
	p.logger = l
}

// Order returns the sort order used for ranking.
func (p *Processor) Order() rank.SortOrder {
	return p.order
}

// Process reads, normalizes and ranks the results in path. Row-level
// problems are returned as warnings; a non-nil error means the file could
// not be read at all.
func (p *Processor) Process(path string) (*pheval.ResultSet, []extract.Warning, error) {
	rows, err := lirical.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("process result file: %w", err)
	}
	rs, warnings := p.ProcessRows(path, rows)
	return rs, warnings, nil
}

// ProcessRows normalizes and ranks already parsed rows. source names the
// originating file in the result set.
func (p *Processor) ProcessRows(source string, rows []*lirical.Row) (*pheval.ResultSet, []extract.Warning) {
	entries, warnings := extract.Score(rows)

	genes, geneWarnings := extract.Genes(entries, p.resolver)
	warnings = append(warnings, geneWarnings...)

	variants, variantWarnings := extract.Variants(entries)
	warnings = append(warnings, variantWarnings...)

	rs := &pheval.ResultSet{
		Source:   source,
		Genes:    rank.Rank(genes, p.order, func(g pheval.GeneResult) float64 { return g.Score }),
		Variants: rank.Rank(variants, p.order, func(v pheval.VariantResult) float64 { return v.Score }),
	}
	if p.diseases {
		rs.Diseases = rank.Rank(extract.Diseases(entries), p.order, func(d pheval.DiseaseResult) float64 { return d.Score })
	}

	for _, w := range warnings {
		p.logger.Warn("skipped record",
			zap.String("file", source),
			zap.Int("line", w.Line),
			zap.String("kind", string(w.Kind)),
			zap.Error(w.Err))
	}
	p.logger.Debug("processed result file",
		zap.String("file", source),
		zap.Int("rows", len(rows)),
		zap.Int("genes", len(rs.Genes)),
		zap.Int("variants", len(rs.Variants)),
		zap.Int("diseases", len(rs.Diseases)))

	return rs, warnings
}

// Discover returns the result files named by path. A regular file yields
// itself; a directory yields its .tsv and .tsv.gz files in lexical order.
func Discover(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".tsv.gz") {
			paths = append(paths, filepath.Join(path, name))
		}
	}
	slices.Sort(paths)
	return paths, nil
}
