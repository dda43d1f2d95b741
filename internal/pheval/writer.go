package pheval

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/grailbio/base/tsv"
)

// Output directories and file suffixes of the PhEval layout.
const (
	GeneResultsDir    = "pheval_gene_results"
	VariantResultsDir = "pheval_variant_results"
	DiseaseResultsDir = "pheval_disease_results"

	GeneResultSuffix    = "-pheval_gene_result.tsv"
	VariantResultSuffix = "-pheval_variant_result.tsv"
	DiseaseResultSuffix = "-pheval_disease_result.tsv"
)

var (
	geneColumns    = []string{"gene_symbol", "gene_identifier", "score", "rank"}
	variantColumns = []string{"chromosome", "start", "end", "ref", "alt", "score", "rank"}
	diseaseColumns = []string{"disease_identifier", "score", "rank"}
)

// TabWriter writes ranked results in tab-delimited format.
type TabWriter struct {
	w       *tsv.Writer
	columns []string
}

// NewGeneTabWriter creates a tab-delimited writer for gene results.
func NewGeneTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{w: tsv.NewWriter(w), columns: geneColumns}
}

// NewVariantTabWriter creates a tab-delimited writer for variant results.
func NewVariantTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{w: tsv.NewWriter(w), columns: variantColumns}
}

// NewDiseaseTabWriter creates a tab-delimited writer for disease results.
func NewDiseaseTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{w: tsv.NewWriter(w), columns: diseaseColumns}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	return tw.writeRow(tw.columns)
}

// WriteGene writes a single ranked gene result.
func (tw *TabWriter) WriteGene(r RankedGene) error {
	g := r.Payload
	return tw.writeRow([]string{
		g.GeneSymbol,
		g.GeneIdentifier,
		FormatScore(g.Score),
		strconv.Itoa(r.Rank),
	})
}

// WriteVariant writes a single ranked variant result.
func (tw *TabWriter) WriteVariant(r RankedVariant) error {
	v := r.Payload
	return tw.writeRow([]string{
		v.Chromosome,
		strconv.FormatInt(v.Start, 10),
		strconv.FormatInt(v.End, 10),
		v.Ref,
		v.Alt,
		FormatScore(v.Score),
		strconv.Itoa(r.Rank),
	})
}

// WriteDisease writes a single ranked disease result.
func (tw *TabWriter) WriteDisease(r RankedDisease) error {
	d := r.Payload
	return tw.writeRow([]string{
		d.DiseaseIdentifier,
		FormatScore(d.Score),
		strconv.Itoa(r.Rank),
	})
}

func (tw *TabWriter) writeRow(values []string) error {
	if len(values) != len(tw.columns) {
		return fmt.Errorf("write row: expected %d values, got %d", len(tw.columns), len(values))
	}
	for _, v := range values {
		tw.w.WriteString(v)
	}
	return tw.w.EndLine()
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

// FormatScore formats a score with the shortest digits that parse back to the
// same value, in the notation pandas writes: whole numbers keep a ".0"
// ("9.0") and exponents are used below 1e-4 and from 1e16.
func FormatScore(score float64) string {
	e := strconv.FormatFloat(score, 'e', -1, 64)
	exp, err := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if err != nil || exp < -4 || exp >= 16 {
		return e
	}
	s := strconv.FormatFloat(score, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// Writer writes ResultSets into the PhEval directory layout under a root
// output directory. Each output stem may be written once.
type Writer struct {
	outputDir string
	diseases  bool

	mu      sync.Mutex
	written map[string]string // stem -> source that wrote it
}

// NewWriter creates the gene and variant result directories (and the disease
// directory when diseases is true) under outputDir.
func NewWriter(outputDir string, diseases bool) (*Writer, error) {
	dirs := []string{GeneResultsDir, VariantResultsDir}
	if diseases {
		dirs = append(dirs, DiseaseResultsDir)
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(outputDir, d), 0755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	return &Writer{outputDir: outputDir, diseases: diseases, written: make(map[string]string)}, nil
}

// GenePath returns the gene result path for a source file stem.
func (w *Writer) GenePath(stem string) string {
	return filepath.Join(w.outputDir, GeneResultsDir, stem+GeneResultSuffix)
}

// VariantPath returns the variant result path for a source file stem.
func (w *Writer) VariantPath(stem string) string {
	return filepath.Join(w.outputDir, VariantResultsDir, stem+VariantResultSuffix)
}

// DiseasePath returns the disease result path for a source file stem.
func (w *Writer) DiseasePath(stem string) string {
	return filepath.Join(w.outputDir, DiseaseResultsDir, stem+DiseaseResultSuffix)
}

// Write writes the gene, variant and (if enabled) disease results of rs.
// A result set whose stem was already written by another source is rejected
// before any file is touched.
func (w *Writer) Write(rs *ResultSet) error {
	stem := rs.Stem()
	if err := w.claim(stem, rs.Source); err != nil {
		return err
	}

	if err := writeFile(w.GenePath(stem), NewGeneTabWriter, func(tw *TabWriter) error {
		for _, g := range rs.Genes {
			if err := tw.WriteGene(g); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("write gene results: %w", err)
	}

	if err := writeFile(w.VariantPath(stem), NewVariantTabWriter, func(tw *TabWriter) error {
		for _, v := range rs.Variants {
			if err := tw.WriteVariant(v); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("write variant results: %w", err)
	}

	if !w.diseases {
		return nil
	}
	if err := writeFile(w.DiseasePath(stem), NewDiseaseTabWriter, func(tw *TabWriter) error {
		for _, d := range rs.Diseases {
			if err := tw.WriteDisease(d); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("write disease results: %w", err)
	}
	return nil
}

// claim reserves stem for source.
func (w *Writer) claim(stem, source string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if prev, ok := w.written[stem]; ok {
		return fmt.Errorf("output stem %q of %s already written for %s", stem, source, prev)
	}
	w.written[stem] = source
	return nil
}

// writeFile creates path and writes a header plus the rows emitted by fn.
func writeFile(path string, newWriter func(io.Writer) *TabWriter, fn func(*TabWriter) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	tw := newWriter(f)
	err = tw.WriteHeader()
	if err == nil {
		err = fn(tw)
	}
	if err == nil {
		err = tw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
