// Package lirical provides parsing of LIRICAL TSV result files.
package lirical

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// LIRICAL result column names
const (
	ColRank         = "rank"
	ColDiseaseName  = "diseaseName"
	ColDiseaseCurie = "diseaseCurie"
	ColPretestProb  = "pretestprob"
	ColPosttestProb = "posttestprob"
	ColCompositeLR  = "compositeLR"
	ColEntrezGeneID = "entrezGeneId"
	ColVariants     = "variants"
)

// CommentPrefix marks metadata lines preceding the header.
const CommentPrefix = "!"

// ColumnIndices holds the indices of LIRICAL columns, -1 when absent.
type ColumnIndices struct {
	Rank         int
	DiseaseName  int
	DiseaseCurie int
	PretestProb  int
	PosttestProb int
	CompositeLR  int
	EntrezGeneID int
	Variants     int
}

// Row is one data row of a LIRICAL result table.
type Row struct {
	Line         int    // 1-based line number in the source file
	Rank         string // tool-assigned rank, informational only
	DiseaseName  string
	DiseaseCurie string // e.g. OMIM:231670
	PretestProb  string
	PosttestProb string // e.g. 65.60%
	CompositeLR  string // raw score text; see Score
	EntrezGeneID string // e.g. NCBIGene:2639
	Variants     string // semicolon-separated variant descriptors, may be empty
}

// Score returns the row's compositeLR coerced to a float.
func (r *Row) Score() (float64, error) {
	return ParseScore(r.CompositeLR)
}

// Parser reads rows from a LIRICAL TSV file.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	path       string
	lineNumber int
	columns    ColumnIndices
	headerLine string
	numFields  int
}

// NewParser creates a new parser for the given file.
// Supports both plain and gzipped (.tsv.gz) files.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lirical result: %w", err)
	}

	p := &Parser{file: file, path: path}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read lirical result: %w", err)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek lirical result: %w", err)
	}

	if n == 2 && buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	if err := p.parseHeader(); err != nil {
		p.Close()
		return nil, err
	}

	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
func NewParserFromReader(r io.Reader) (*Parser, error) {
	p := &Parser{
		reader: bufio.NewReader(r),
	}

	if err := p.parseHeader(); err != nil {
		return nil, err
	}

	return p, nil
}

// readLine returns the next line without its terminator.
// The returned error is io.EOF only when no more data is available.
func (p *Parser) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if err != io.EOF {
			return "", fmt.Errorf("read line: %w", err)
		}
		if line == "" {
			return "", io.EOF
		}
	}
	p.lineNumber++
	return strings.TrimRight(line, "\r\n"), nil
}

// parseHeader skips comment lines and parses the first remaining line as the header.
func (p *Parser) parseHeader() error {
	for {
		line, err := p.readLine()
		if err == io.EOF {
			return p.errorf("no header line found")
		}
		if err != nil {
			return err
		}

		if strings.HasPrefix(line, CommentPrefix) || line == "" {
			continue
		}

		p.headerLine = line
		return p.parseColumnIndices(line)
	}
}

// parseColumnIndices maps header names to positions and checks required columns.
func (p *Parser) parseColumnIndices(headerLine string) error {
	columns := strings.Split(headerLine, "\t")
	p.numFields = len(columns)

	p.columns = ColumnIndices{
		Rank:         -1,
		DiseaseName:  -1,
		DiseaseCurie: -1,
		PretestProb:  -1,
		PosttestProb: -1,
		CompositeLR:  -1,
		EntrezGeneID: -1,
		Variants:     -1,
	}

	for i, col := range columns {
		switch strings.TrimSpace(col) {
		case ColRank:
			p.columns.Rank = i
		case ColDiseaseName:
			p.columns.DiseaseName = i
		case ColDiseaseCurie:
			p.columns.DiseaseCurie = i
		case ColPretestProb:
			p.columns.PretestProb = i
		case ColPosttestProb:
			p.columns.PosttestProb = i
		case ColCompositeLR:
			p.columns.CompositeLR = i
		case ColEntrezGeneID:
			p.columns.EntrezGeneID = i
		case ColVariants:
			p.columns.Variants = i
		}
	}

	required := []struct {
		name string
		idx  int
	}{
		{ColDiseaseName, p.columns.DiseaseName},
		{ColDiseaseCurie, p.columns.DiseaseCurie},
		{ColCompositeLR, p.columns.CompositeLR},
		{ColEntrezGeneID, p.columns.EntrezGeneID},
		{ColVariants, p.columns.Variants},
	}
	for _, r := range required {
		if r.idx == -1 {
			return p.errorf("required column '%s' not found in header", r.name)
		}
	}

	return nil
}

// Next reads the next row.
// Returns nil, nil when there are no more rows.
func (p *Parser) Next() (*Row, error) {
	for {
		line, err := p.readLine()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		if line == "" || strings.HasPrefix(line, CommentPrefix) {
			continue
		}

		return p.parseLine(line)
	}
}

// ReadAll reads every remaining row.
func (p *Parser) ReadAll() ([]*Row, error) {
	var rows []*Row
	for {
		r, err := p.Next()
		if err != nil {
			return nil, err
		}
		if r == nil {
			return rows, nil
		}
		rows = append(rows, r)
	}
}

// ReadFile parses every row of the LIRICAL result at path.
func ReadFile(path string) ([]*Row, error) {
	p, err := NewParser(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.ReadAll()
}

// parseLine splits a data line and matches its fields to the header.
func (p *Parser) parseLine(line string) (*Row, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != p.numFields {
		return nil, p.errorf("expected %d columns, found %d", p.numFields, len(fields))
	}

	return &Row{
		Line:         p.lineNumber,
		Rank:         field(fields, p.columns.Rank),
		DiseaseName:  field(fields, p.columns.DiseaseName),
		DiseaseCurie: field(fields, p.columns.DiseaseCurie),
		PretestProb:  field(fields, p.columns.PretestProb),
		PosttestProb: field(fields, p.columns.PosttestProb),
		CompositeLR:  field(fields, p.columns.CompositeLR),
		EntrezGeneID: field(fields, p.columns.EntrezGeneID),
		Variants:     field(fields, p.columns.Variants),
	}, nil
}

func field(fields []string, idx int) string {
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(fields[idx])
}

// Header returns the header line.
func (p *Parser) Header() string {
	return p.headerLine
}

// Columns returns the parsed column indices.
func (p *Parser) Columns() ColumnIndices {
	return p.columns
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

func (p *Parser) errorf(format string, args ...any) *ParseError {
	return &ParseError{
		Path:    p.path,
		Line:    p.lineNumber,
		Message: fmt.Sprintf(format, args...),
	}
}

// ParseError represents an error during LIRICAL result parsing with line context.
type ParseError struct {
	Path    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("lirical parse error at line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("lirical parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
}
