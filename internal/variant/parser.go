package variant

import (
	"fmt"
	"strconv"
	"strings"
)

// Token is one atomic variant extracted from a result row's variants field,
// e.g. "19:13007113G>A NM_000159.3:c.730G>A:p.(G244S) pathogenicity:1.0 [1/1]".
// Only Variant is derived from the first sub-field; the remaining sub-fields
// are kept when present and never cause a parse failure.
type Token struct {
	Text             string // trimmed token text
	Variant          Variant
	Annotation       string  // transcript annotation, e.g. "NM_000159.3:c.730G>A:p.(G244S)"
	Pathogenicity    float64 // value of the pathogenicity: sub-field
	HasPathogenicity bool
	Genotype         string // e.g. "1/1", without brackets
}

// GrammarError reports a variant token that does not match
// <chrom>:<pos><ref>'>'<alt>.
type GrammarError struct {
	Token   string
	Pos     int // byte offset within the descriptor where parsing stopped
	Message string
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("malformed variant %q at offset %d: %s", e.Token, e.Pos, e.Message)
}

// Split splits a compound variants field on ';', trims every token and
// drops empty ones.
func Split(field string) []string {
	var tokens []string
	for _, tok := range strings.Split(field, ";") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// ParseToken parses one variant token.
func ParseToken(text string) (*Token, error) {
	text = strings.TrimSpace(text)
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil, &GrammarError{Token: text, Message: "empty variant"}
	}

	v, err := ParseDescriptor(fields[0])
	if err != nil {
		return nil, err
	}

	tok := &Token{Text: text, Variant: *v}
	for _, f := range fields[1:] {
		switch {
		case strings.HasPrefix(f, "pathogenicity:"):
			if p, err := strconv.ParseFloat(strings.TrimPrefix(f, "pathogenicity:"), 64); err == nil {
				tok.Pathogenicity = p
				tok.HasPathogenicity = true
			}
		case len(f) >= 2 && f[0] == '[' && f[len(f)-1] == ']':
			tok.Genotype = f[1 : len(f)-1]
		case tok.Annotation == "":
			tok.Annotation = f
		}
	}
	return tok, nil
}

// parser states for ParseDescriptor
const (
	stateChrom = iota
	statePos
	stateRef
	stateAlt
)

// ParseDescriptor parses a descriptor of the form <chrom>:<pos><ref>><alt>,
// e.g. "4:55026539ACT>A", walking chrom, pos, ref and alt in order.
func ParseDescriptor(s string) (*Variant, error) {
	fail := func(i int, format string, args ...any) (*Variant, error) {
		return nil, &GrammarError{Token: s, Pos: i, Message: fmt.Sprintf(format, args...)}
	}

	state := stateChrom
	var chromEnd, posStart, posEnd, refStart, refEnd int

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch state {
		case stateChrom:
			if c == ':' {
				if i == 0 {
					return fail(i, "empty chromosome")
				}
				chromEnd = i
				posStart = i + 1
				state = statePos
			}
		case statePos:
			if isDigit(c) {
				continue
			}
			if i == posStart {
				return fail(i, "expected position digits, found %q", c)
			}
			posEnd = i
			refStart = i
			state = stateRef
			i-- // reconsider c as the first reference base
		case stateRef:
			switch {
			case c == '>':
				if i == refStart {
					return fail(i, "empty reference allele")
				}
				refEnd = i
				state = stateAlt
			case isDigit(c):
				return fail(i, "unexpected digit %q in reference allele", c)
			}
		case stateAlt:
			if c == '>' {
				return fail(i, "unexpected second '>'")
			}
		}
	}

	switch state {
	case stateChrom:
		return fail(len(s), "missing ':' after chromosome")
	case statePos:
		if posStart == len(s) {
			return fail(len(s), "missing position")
		}
		return fail(len(s), "missing reference allele")
	case stateRef:
		return fail(len(s), "missing '>' separator")
	}
	if refEnd+1 == len(s) {
		return fail(len(s), "empty alternate allele")
	}

	pos, err := strconv.ParseInt(s[posStart:posEnd], 10, 64)
	if err != nil {
		return fail(posStart, "invalid position: %v", err)
	}

	ref := s[refStart:refEnd]
	return &Variant{
		Chrom: s[:chromEnd],
		Start: pos,
		End:   EndPosition(pos, ref),
		Ref:   ref,
		Alt:   s[refEnd+1:],
	}, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
