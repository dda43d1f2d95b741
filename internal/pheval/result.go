// Package pheval defines the PhEval standardised result records and their
// on-disk layout.
package pheval

import (
	"path/filepath"
	"strings"

	"github.com/inodb/pheval-lirical/internal/rank"
)

// GeneResult is a normalized gene-level result.
type GeneResult struct {
	GeneSymbol     string
	GeneIdentifier string
	Score          float64
}

// VariantResult is a normalized variant-level result.
type VariantResult struct {
	Chromosome string
	Start      int64
	End        int64
	Ref        string
	Alt        string
	Score      float64
}

// DiseaseResult is a normalized disease-level result.
type DiseaseResult struct {
	DiseaseIdentifier string
	Score             float64
}

// Ranked result collections.
type (
	RankedGene    = rank.Ranked[GeneResult]
	RankedVariant = rank.Ranked[VariantResult]
	RankedDisease = rank.Ranked[DiseaseResult]
)

// ResultSet holds the ranked results derived from one tool output file.
// Diseases is nil when disease output is disabled.
type ResultSet struct {
	Source   string // path of the originating tool output
	Genes    []RankedGene
	Variants []RankedVariant
	Diseases []RankedDisease
}

// Stem returns the source file name without directory and result
// extensions (".tsv", ".tsv.gz").
func (rs *ResultSet) Stem() string {
	name := filepath.Base(rs.Source)
	name = strings.TrimSuffix(name, ".gz")
	return strings.TrimSuffix(name, filepath.Ext(name))
}
