package lirical

import (
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_ParseRows(t *testing.T) {
	testFile := findTestFile(t, "lirical_results.tsv")

	parser, err := NewParser(testFile)
	require.NoError(t, err)
	defer parser.Close()

	cols := parser.Columns()
	assert.Equal(t, 0, cols.Rank)
	assert.Equal(t, 2, cols.DiseaseCurie)
	assert.Equal(t, 5, cols.CompositeLR)
	assert.Equal(t, 6, cols.EntrezGeneID)
	assert.Equal(t, 7, cols.Variants)

	// Glutaric acidemia I (GCDH)
	r, err := parser.Next()
	require.NoError(t, err)
	require.NotNil(t, r)

	assert.Equal(t, 6, r.Line)
	assert.Equal(t, "1", r.Rank)
	assert.Equal(t, "Glutaric acidemia I", r.DiseaseName)
	assert.Equal(t, "OMIM:231670", r.DiseaseCurie)
	assert.Equal(t, "65.60%", r.PosttestProb)
	assert.Equal(t, "4.203", r.CompositeLR)
	assert.Equal(t, "NCBIGene:2639", r.EntrezGeneID)
	assert.True(t, strings.HasPrefix(r.Variants, "19:12998205G>C NM_006563.3::"))

	score, err := r.Score()
	require.NoError(t, err)
	assert.Equal(t, 4.203, score)

	// GSX2
	r, err = parser.Next()
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "OMIM:618646", r.DiseaseCurie)
	assert.Equal(t, "NCBIGene:170825", r.EntrezGeneID)

	// KRAS row has no variants
	r, err = parser.Next()
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "", r.Variants)

	r, err = parser.Next()
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestReadFile(t *testing.T) {
	rows, err := ReadFile(findTestFile(t, "lirical_results.tsv"))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "OMIM:609942", rows[2].DiseaseCurie)
}

func TestParser_ColumnOrderFromHeader(t *testing.T) {
	input := "! comment\n" +
		"variants\tcompositeLR\tentrezGeneId\tdiseaseCurie\tdiseaseName\n" +
		"1:100A>G\t2.5\tNCBIGene:1\tOMIM:1\tSome disease\n"

	parser, err := NewParserFromReader(strings.NewReader(input))
	require.NoError(t, err)

	r, err := parser.Next()
	require.NoError(t, err)
	require.NotNil(t, r)

	assert.Equal(t, "1:100A>G", r.Variants)
	assert.Equal(t, "2.5", r.CompositeLR)
	assert.Equal(t, "OMIM:1", r.DiseaseCurie)
	assert.Equal(t, "", r.Rank)
	assert.Equal(t, -1, parser.Columns().Rank)
}

func TestParser_MissingRequiredColumn(t *testing.T) {
	input := "rank\tdiseaseName\tdiseaseCurie\tcompositeLR\tentrezGeneId\n"

	_, err := NewParserFromReader(strings.NewReader(input))
	require.Error(t, err)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 1, pe.Line)
	assert.Contains(t, pe.Message, "variants")
}

func TestParser_NoHeader(t *testing.T) {
	_, err := NewParserFromReader(strings.NewReader("! only comments\n!\n"))
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "no header line found", pe.Message)
}

func TestParser_FieldCountMismatch(t *testing.T) {
	input := "diseaseName\tdiseaseCurie\tcompositeLR\tentrezGeneId\tvariants\n" +
		"A\tOMIM:1\t1.0\tNCBIGene:1\t\n" +
		"B\tOMIM:2\t1.0\n"

	parser, err := NewParserFromReader(strings.NewReader(input))
	require.NoError(t, err)

	_, err = parser.Next()
	require.NoError(t, err)

	_, err = parser.Next()
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 3, pe.Line)
	assert.Equal(t, "expected 5 columns, found 3", pe.Message)
}

func TestParser_Gzip(t *testing.T) {
	raw, err := os.ReadFile(findTestFile(t, "lirical_results.tsv"))
	require.NoError(t, err)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err = zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "sample.tsv.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	rows, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestParser_NotFound(t *testing.T) {
	_, err := NewParser("/nonexistent/results.tsv")
	require.Error(t, err)
	assert.True(t, os.IsNotExist(errors.Unwrap(err)))
}

func TestParseError(t *testing.T) {
	err := &ParseError{
		Line:    42,
		Message: "required column not found",
	}
	assert.Equal(t, "lirical parse error at line 42: required column not found", err.Error())

	err.Path = "sample.tsv"
	assert.Equal(t, "lirical parse error in sample.tsv at line 42: required column not found", err.Error())
}

// findTestFile locates a test file in the testdata directory.
func findTestFile(t *testing.T, name string) string {
	t.Helper()

	paths := []string{
		filepath.Join("testdata", name),
		filepath.Join("..", "..", "testdata", name),
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	t.Fatalf("Test file not found: %s", name)
	return ""
}
