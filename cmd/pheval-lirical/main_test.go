package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/pheval-lirical/internal/duckdb"
	"github.com/inodb/pheval-lirical/internal/pheval"
)

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

// isolateHome points the default config location at an empty directory.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestRun_PostProcess(t *testing.T) {
	isolateHome(t)
	out := t.TempDir()

	code := run([]string{
		"post-process",
		"--input-file", findTestFile(t, "lirical_results.tsv"),
		"--output-dir", out,
		"--gene-map", findTestFile(t, "hgnc_subset.tsv"),
		"--sort-order", "descending",
		"--disease-results",
	})
	require.Equal(t, ExitSuccess, code)

	gene, err := os.ReadFile(filepath.Join(out, pheval.GeneResultsDir, "lirical_results"+pheval.GeneResultSuffix))
	require.NoError(t, err)
	assert.Equal(t,
		"gene_symbol\tgene_identifier\tscore\trank\n"+
			"GCDH\tENSG00000105607\t4.203\t1\n"+
			"GSX2\tENSG00000180613\t-1.439\t2\n"+
			"KRAS\tENSG00000133703\t-3.512\t3\n",
		string(gene))

	_, err = os.Stat(filepath.Join(out, pheval.VariantResultsDir, "lirical_results"+pheval.VariantResultSuffix))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, pheval.DiseaseResultsDir, "lirical_results"+pheval.DiseaseResultSuffix))
	assert.NoError(t, err)
}

func TestRun_PostProcessWithConfigAndStore(t *testing.T) {
	isolateHome(t)
	out := t.TempDir()
	dbPath := filepath.Join(out, "results.duckdb")

	cfgPath := filepath.Join(t.TempDir(), "lirical.yaml")
	cfg := "post_process:\n" +
		"  sort_order: ascending\n" +
		"  gene_identifier: entrez_id\n" +
		"  gene_map: " + findTestFile(t, "hgnc_subset.tsv") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	code := run([]string{
		"post-process",
		"--config", cfgPath,
		"--input-file", findTestFile(t, "lirical_results.tsv"),
		"--output-dir", out,
		"--duckdb", dbPath,
	})
	require.Equal(t, ExitSuccess, code)

	gene, err := os.ReadFile(filepath.Join(out, pheval.GeneResultsDir, "lirical_results"+pheval.GeneResultSuffix))
	require.NoError(t, err)
	assert.Contains(t, string(gene), "KRAS\t3845\t-3.512\t1\n")

	_, err = os.Stat(filepath.Join(out, pheval.DiseaseResultsDir))
	assert.True(t, os.IsNotExist(err))

	store, err := duckdb.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()
	runs, err := store.Runs()
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRun_UsageErrors(t *testing.T) {
	isolateHome(t)
	out := t.TempDir()
	input := findTestFile(t, "lirical_results.tsv")
	geneMap := findTestFile(t, "hgnc_subset.tsv")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown command", []string{"frobnicate"}},
		{"unknown flag", []string{"post-process", "--bogus"}},
		{"missing input", []string{"post-process", "--output-dir", out, "--gene-map", geneMap}},
		{"missing gene map", []string{"post-process", "--input-file", input, "--output-dir", out}},
		{"bad sort order", []string{"post-process", "--input-file", input, "--output-dir", out,
			"--gene-map", geneMap, "--sort-order", "sideways"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, ExitUsage, run(tt.args))
		})
	}
}

func TestRun_FatalFileError(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	data, err := os.ReadFile(findTestFile(t, "lirical_results.tsv"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.tsv"), data, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.tsv"), []byte("diseaseName\n"), 0644))

	out := t.TempDir()
	code := run([]string{
		"post-process",
		"--input-file", dir,
		"--output-dir", out,
		"--gene-map", findTestFile(t, "hgnc_subset.tsv"),
		"--workers", "2",
	})
	assert.Equal(t, ExitError, code)

	// The good file is still written.
	_, err = os.Stat(filepath.Join(out, pheval.GeneResultsDir, "good"+pheval.GeneResultSuffix))
	assert.NoError(t, err)
}

func TestRun_Version(t *testing.T) {
	isolateHome(t)
	assert.Equal(t, ExitSuccess, run([]string{"version"}))
}

func TestRun_ConfigSetGet(t *testing.T) {
	home := isolateHome(t)

	require.Equal(t, ExitSuccess, run([]string{"config", "set", "post_process.sort_order", "ascending"}))
	data, err := os.ReadFile(filepath.Join(home, configFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "sort_order: ascending")

	assert.Equal(t, ExitSuccess, run([]string{"config", "get", "post_process.sort_order"}))
	assert.Equal(t, ExitError, run([]string{"config", "get", "post_process.missing"}))
}

func TestConfigValue(t *testing.T) {
	assert.Equal(t, true, configValue("yes"))
	assert.Equal(t, false, configValue("off"))
	assert.Equal(t, 4, configValue("4"))
	assert.Equal(t, "ensembl_id", configValue("ensembl_id"))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitUsage, exitCode(usageErrorf("bad")))
	assert.Equal(t, ExitError, exitCode(errors.New("boom")))
}
