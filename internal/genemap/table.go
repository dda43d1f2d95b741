// Package genemap provides gene symbol and identifier cross-references.
package genemap

import (
	"fmt"
	"strings"
)

// Namespace names an identifier authority.
type Namespace string

// Supported identifier namespaces.
const (
	Entrez  Namespace = "entrez_id"
	Ensembl Namespace = "ensembl_id"
	HGNC    Namespace = "hgnc_id"
	RefSeq  Namespace = "refseq_id"
)

// ParseNamespace validates a namespace name.
func ParseNamespace(s string) (Namespace, error) {
	switch ns := Namespace(strings.ToLower(strings.TrimSpace(s))); ns {
	case Entrez, Ensembl, HGNC, RefSeq:
		return ns, nil
	}
	return "", fmt.Errorf("unknown gene identifier namespace %q (expected entrez_id, ensembl_id, hgnc_id or refseq_id)", s)
}

// Gene holds the identifiers of one approved gene symbol.
type Gene struct {
	Symbol          string   // Approved symbol (e.g., GCDH)
	HGNCID          string   // e.g. HGNC:4189
	EntrezID        string   // e.g. 2639
	EnsemblID       string   // e.g. ENSG00000105607
	RefSeqID        string   // e.g. NM_000159
	PreviousSymbols []string // Symbols this gene was formerly known by
}

// Identifier returns the gene's identifier in the given namespace.
func (g *Gene) Identifier(ns Namespace) (string, bool) {
	var id string
	switch ns {
	case Entrez:
		id = g.EntrezID
	case Ensembl:
		id = g.EnsemblID
	case HGNC:
		id = g.HGNCID
	case RefSeq:
		id = g.RefSeqID
	}
	return id, id != ""
}

// Table is a read-only cross-reference of genes indexed by symbol, Entrez
// identifier and previous symbol. It is safe for concurrent reads.
type Table struct {
	genes      []*Gene
	bySymbol   map[string]*Gene
	byEntrez   map[string]*Gene
	byPrevious map[string]*Gene
}

// NewTable indexes genes. When two genes share a key the first one wins.
func NewTable(genes []*Gene) *Table {
	t := &Table{
		genes:      genes,
		bySymbol:   make(map[string]*Gene, len(genes)),
		byEntrez:   make(map[string]*Gene, len(genes)),
		byPrevious: make(map[string]*Gene),
	}
	for _, g := range genes {
		if _, ok := t.bySymbol[g.Symbol]; !ok {
			t.bySymbol[g.Symbol] = g
		}
		if g.EntrezID != "" {
			if _, ok := t.byEntrez[g.EntrezID]; !ok {
				t.byEntrez[g.EntrezID] = g
			}
		}
		for _, prev := range g.PreviousSymbols {
			if _, ok := t.byPrevious[prev]; !ok {
				t.byPrevious[prev] = g
			}
		}
	}
	return t
}

// Len returns the number of genes in the table.
func (t *Table) Len() int {
	return len(t.genes)
}

// BySymbol returns the gene with the given approved symbol.
func (t *Table) BySymbol(symbol string) (*Gene, bool) {
	g, ok := t.bySymbol[symbol]
	return g, ok
}

// ByEntrez returns the gene with the given unprefixed Entrez identifier.
func (t *Table) ByEntrez(id string) (*Gene, bool) {
	g, ok := t.byEntrez[id]
	return g, ok
}

// ByPreviousSymbol returns the gene that formerly used symbol.
func (t *Table) ByPreviousSymbol(symbol string) (*Gene, bool) {
	g, ok := t.byPrevious[symbol]
	return g, ok
}
