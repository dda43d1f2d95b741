// Package extract maps LIRICAL result rows to normalized PhEval records.
package extract

import (
	"fmt"

	"github.com/inodb/pheval-lirical/internal/lirical"
	"github.com/inodb/pheval-lirical/internal/pheval"
	"github.com/inodb/pheval-lirical/internal/variant"
)

// Kind classifies a recorded warning.
type Kind string

const (
	KindParse          Kind = "parse"
	KindScoreCoercion  Kind = "score_coercion"
	KindLookup         Kind = "lookup"
	KindVariantGrammar Kind = "variant_grammar"
)

// Warning records a row-level problem that caused a record to be skipped.
type Warning struct {
	Line int // source line of the offending row, 0 if unknown
	Kind Kind
	Err  error
}

func (w Warning) Error() string {
	if w.Line > 0 {
		return fmt.Sprintf("line %d: %s: %v", w.Line, w.Kind, w.Err)
	}
	return fmt.Sprintf("%s: %v", w.Kind, w.Err)
}

func (w Warning) Unwrap() error {
	return w.Err
}

// GeneResolver resolves a tool-native gene identifier to a gene symbol and a
// target-namespace identifier.
type GeneResolver interface {
	Resolve(nativeID string) (symbol, identifier string, err error)
}

// Entry is a result row with its coerced score.
type Entry struct {
	Row   *lirical.Row
	Score float64
}

// Score coerces every row's compositeLR. Rows whose score cannot be read are
// dropped and reported.
func Score(rows []*lirical.Row) ([]Entry, []Warning) {
	entries := make([]Entry, 0, len(rows))
	var warnings []Warning
	for _, r := range rows {
		s, err := r.Score()
		if err != nil {
			warnings = append(warnings, Warning{
				Line: r.Line,
				Kind: KindScoreCoercion,
				Err:  fmt.Errorf("%s: %w", r.DiseaseCurie, err),
			})
			continue
		}
		entries = append(entries, Entry{Row: r, Score: s})
	}
	return entries, warnings
}

// Diseases returns one disease result per entry.
func Diseases(entries []Entry) []pheval.DiseaseResult {
	results := make([]pheval.DiseaseResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, pheval.DiseaseResult{
			DiseaseIdentifier: e.Row.DiseaseCurie,
			Score:             e.Score,
		})
	}
	return results
}

// Genes returns one gene result per entry whose gene identifier resolves.
func Genes(entries []Entry, resolver GeneResolver) ([]pheval.GeneResult, []Warning) {
	results := make([]pheval.GeneResult, 0, len(entries))
	var warnings []Warning
	for _, e := range entries {
		symbol, id, err := resolver.Resolve(e.Row.EntrezGeneID)
		if err != nil {
			warnings = append(warnings, Warning{
				Line: e.Row.Line,
				Kind: KindLookup,
				Err:  fmt.Errorf("%s: %w", e.Row.DiseaseCurie, err),
			})
			continue
		}
		results = append(results, pheval.GeneResult{
			GeneSymbol:     symbol,
			GeneIdentifier: id,
			Score:          e.Score,
		})
	}
	return results, warnings
}

// Variants returns one variant result per well-formed variant token. Every
// token inherits the score of its row.
func Variants(entries []Entry) ([]pheval.VariantResult, []Warning) {
	var results []pheval.VariantResult
	var warnings []Warning
	for _, e := range entries {
		for _, text := range variant.Split(e.Row.Variants) {
			tok, err := variant.ParseToken(text)
			if err != nil {
				warnings = append(warnings, Warning{
					Line: e.Row.Line,
					Kind: KindVariantGrammar,
					Err:  err,
				})
				continue
			}
			v := tok.Variant
			results = append(results, pheval.VariantResult{
				Chromosome: v.Chrom,
				Start:      v.Start,
				End:        v.End,
				Ref:        v.Ref,
				Alt:        v.Alt,
				Score:      e.Score,
			})
		}
	}
	return results, warnings
}
