package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/pheval-lirical/internal/genemap"
	"github.com/inodb/pheval-lirical/internal/rank"
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

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(findTestFile(t, "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Run.Environment)
	assert.Equal(t, "2.0.0", cfg.Run.Version)
	assert.Equal(t, "/opt/lirical", cfg.Run.LiricalDir)
	assert.Equal(t, "/data/exomiser", cfg.Run.Exomiser.DataDir)

	assert.Equal(t, rank.Descending, cfg.SortOrder())
	assert.Equal(t, genemap.Ensembl, cfg.GeneNamespace())
	assert.Equal(t, "testdata/hgnc_subset.tsv", cfg.PostProcess.GeneMap)
	assert.True(t, cfg.PostProcess.DiseaseResults)
	assert.Equal(t, 2, cfg.PostProcess.Workers)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Run.Environment)
	assert.Equal(t, rank.Descending, cfg.SortOrder())
	assert.Equal(t, genemap.Ensembl, cfg.GeneNamespace())
	assert.False(t, cfg.PostProcess.DiseaseResults)
	assert.Equal(t, 1, cfg.PostProcess.Workers)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "post_process:\n  sort_order: ascending\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, rank.Ascending, cfg.SortOrder())
	assert.Equal(t, genemap.Ensembl, cfg.GeneNamespace())
	assert.Equal(t, 1, cfg.PostProcess.Workers)
}

func TestLoad_Invalid(t *testing.T) {
	path := writeConfig(t, `post_process:
  sort_order: sideways
  gene_identifier: uniprot
  workers: -1
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), KeySortOrder)
	assert.Contains(t, err.Error(), KeyGeneIdentifier)
	assert.Contains(t, err.Error(), KeyWorkers)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set(KeySortOrder, "ASCENDING")
	v.Set(KeyGeneIdentifier, "hgnc_id")
	v.Set(KeyDuckDBPath, "/tmp/results.duckdb")

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, rank.Ascending, cfg.SortOrder())
	assert.Equal(t, genemap.HGNC, cfg.GeneNamespace())
	assert.Equal(t, "/tmp/results.duckdb", cfg.PostProcess.DuckDBPath)
}
