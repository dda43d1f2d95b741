package genemap

import (
	"fmt"
	"strings"
)

// LookupError reports a gene identifier that could not be resolved.
type LookupError struct {
	NativeID  string
	Symbol    string
	Namespace Namespace
	Reason    string
}

func (e *LookupError) Error() string {
	switch {
	case e.NativeID != "" && e.Symbol != "":
		return fmt.Sprintf("resolve %s (%s) to %s: %s", e.NativeID, e.Symbol, e.Namespace, e.Reason)
	case e.NativeID != "":
		return fmt.Sprintf("resolve %s to %s: %s", e.NativeID, e.Namespace, e.Reason)
	}
	return fmt.Sprintf("resolve %s to %s: %s", e.Symbol, e.Namespace, e.Reason)
}

// Resolver maps tool-native gene identifiers (NCBIGene:<id>) to a symbol and
// then to an identifier in a target namespace.
type Resolver struct {
	table  *Table
	target Namespace
}

// NewResolver creates a resolver that resolves into target.
func NewResolver(t *Table, target Namespace) *Resolver {
	return &Resolver{table: t, target: target}
}

// Target returns the namespace Resolve resolves into.
func (r *Resolver) Target() Namespace {
	return r.target
}

// SymbolFor returns the gene symbol for a native identifier such as
// "NCBIGene:2639". An unprefixed identifier is used as is.
func (r *Resolver) SymbolFor(nativeID string) (string, error) {
	local := stripPrefix(nativeID)
	if local == "" {
		return "", &LookupError{NativeID: nativeID, Namespace: Entrez, Reason: "empty gene identifier"}
	}
	g, ok := r.table.ByEntrez(local)
	if !ok {
		return "", &LookupError{NativeID: nativeID, Namespace: Entrez, Reason: "no gene symbol for identifier"}
	}
	return g.Symbol, nil
}

// IdentifierFor returns symbol's identifier in namespace ns. Symbols that are
// not approved are matched against previous symbols.
func (r *Resolver) IdentifierFor(symbol string, ns Namespace) (string, error) {
	g, ok := r.table.BySymbol(symbol)
	if !ok {
		g, ok = r.table.ByPreviousSymbol(symbol)
	}
	if !ok {
		return "", &LookupError{Symbol: symbol, Namespace: ns, Reason: "unknown gene symbol"}
	}
	id, ok := g.Identifier(ns)
	if !ok {
		return "", &LookupError{Symbol: symbol, Namespace: ns, Reason: "no identifier in namespace"}
	}
	return id, nil
}

// Resolve returns the symbol and target-namespace identifier for nativeID.
func (r *Resolver) Resolve(nativeID string) (symbol, identifier string, err error) {
	symbol, err = r.SymbolFor(nativeID)
	if err != nil {
		return "", "", err
	}
	identifier, err = r.IdentifierFor(symbol, r.target)
	if err != nil {
		if le, ok := err.(*LookupError); ok {
			le.NativeID = nativeID
		}
		return "", "", err
	}
	return symbol, identifier, nil
}

// stripPrefix removes a namespace prefix ("NCBIGene:2639" -> "2639").
func stripPrefix(id string) string {
	id = strings.TrimSpace(id)
	if i := strings.IndexByte(id, ':'); i >= 0 {
		return id[i+1:]
	}
	return id
}
