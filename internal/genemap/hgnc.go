package genemap

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/grailbio/base/tsv"
)

// hgncRow holds the HGNC complete-set columns used for cross-referencing.
type hgncRow struct {
	HGNCID     string `tsv:"hgnc_id"`
	Symbol     string `tsv:"symbol"`
	PrevSymbol string `tsv:"prev_symbol"`
	EntrezID   string `tsv:"entrez_id"`
	EnsemblID  string `tsv:"ensembl_gene_id"`
	RefSeq     string `tsv:"refseq_accession"`
}

// LoadHGNC loads an HGNC complete-set TSV (hgnc_complete_set.txt).
func LoadHGNC(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open hgnc table: %w", err)
	}
	defer f.Close()

	t, err := ReadHGNC(f)
	if err != nil {
		return nil, fmt.Errorf("read hgnc table %s: %w", path, err)
	}
	return t, nil
}

// ReadHGNC builds a Table from HGNC complete-set TSV data.
// Rows without a symbol are skipped.
func ReadHGNC(r io.Reader) (*Table, error) {
	reader := tsv.NewReader(r)
	reader.HasHeaderRow = true
	reader.UseHeaderNames = true
	reader.LazyQuotes = true

	var genes []*Gene
	for {
		var row hgncRow
		if err := reader.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}

		symbol := strings.TrimSpace(row.Symbol)
		if symbol == "" {
			continue
		}
		genes = append(genes, &Gene{
			Symbol:          symbol,
			HGNCID:          strings.TrimSpace(row.HGNCID),
			EntrezID:        strings.TrimSpace(row.EntrezID),
			EnsemblID:       strings.TrimSpace(row.EnsemblID),
			RefSeqID:        firstValue(row.RefSeq),
			PreviousSymbols: splitValues(row.PrevSymbol),
		})
	}
	if len(genes) == 0 {
		return nil, fmt.Errorf("hgnc table: no genes found")
	}

	return NewTable(genes), nil
}

// splitValues splits an HGNC multi-value field ("A|B|C").
func splitValues(field string) []string {
	field = strings.Trim(strings.TrimSpace(field), `"`)
	if field == "" {
		return nil
	}
	var values []string
	for _, v := range strings.Split(field, "|") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func firstValue(field string) string {
	values := splitValues(field)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
