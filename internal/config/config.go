// Package config loads pheval-lirical configuration from YAML with viper.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/inodb/pheval-lirical/internal/genemap"
	"github.com/inodb/pheval-lirical/internal/rank"
)

// Config keys under post_process.
const (
	KeySortOrder      = "post_process.sort_order"
	KeyGeneIdentifier = "post_process.gene_identifier"
	KeyGeneMap        = "post_process.gene_map"
	KeyDiseaseResults = "post_process.disease_results"
	KeyDuckDBPath     = "post_process.duckdb_path"
	KeyWorkers        = "post_process.workers"
)

// Config is the full runner configuration.
type Config struct {
	Run         RunConfig         `mapstructure:"run" yaml:"run"`
	PostProcess PostProcessConfig `mapstructure:"post_process" yaml:"post_process"`
}

// RunConfig describes how LIRICAL itself was run. It is carried for
// provenance and not interpreted by post-processing.
type RunConfig struct {
	Environment   string         `mapstructure:"environment" yaml:"environment"`
	PhenotypeOnly bool           `mapstructure:"phenotype_only" yaml:"phenotype_only"`
	Version       string         `mapstructure:"version" yaml:"version"`
	LiricalDir    string         `mapstructure:"path_to_lirical_software_directory" yaml:"path_to_lirical_software_directory"`
	Exomiser      ExomiserConfig `mapstructure:"exomiser_configurations" yaml:"exomiser_configurations"`
}

// ExomiserConfig locates the Exomiser data LIRICAL used for variant scoring.
type ExomiserConfig struct {
	DataDir string `mapstructure:"path_to_exomiser_data_directory" yaml:"path_to_exomiser_data_directory"`
}

// PostProcessConfig controls result normalization and ranking.
type PostProcessConfig struct {
	SortOrder      string `mapstructure:"sort_order" yaml:"sort_order"`
	GeneIdentifier string `mapstructure:"gene_identifier" yaml:"gene_identifier"`
	GeneMap        string `mapstructure:"gene_map" yaml:"gene_map"`
	DiseaseResults bool   `mapstructure:"disease_results" yaml:"disease_results"`
	DuckDBPath     string `mapstructure:"duckdb_path" yaml:"duckdb_path"`
	Workers        int    `mapstructure:"workers" yaml:"workers"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("run.environment", "local")
	v.SetDefault(KeySortOrder, rank.Descending.String())
	v.SetDefault(KeyGeneIdentifier, string(genemap.Ensembl))
	v.SetDefault(KeyDiseaseResults, false)
	v.SetDefault(KeyWorkers, 1)
}

// Load reads the YAML file at path. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return FromViper(v)
}

// FromViper applies defaults to v and decodes and validates its settings.
func FromViper(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks post-processing settings.
func (c *Config) Validate() error {
	var err error
	if _, e := rank.ParseSortOrder(c.PostProcess.SortOrder); e != nil {
		err = multierr.Append(err, fmt.Errorf("%s: %w", KeySortOrder, e))
	}
	if _, e := genemap.ParseNamespace(c.PostProcess.GeneIdentifier); e != nil {
		err = multierr.Append(err, fmt.Errorf("%s: %w", KeyGeneIdentifier, e))
	}
	if c.PostProcess.Workers < 0 {
		err = multierr.Append(err, errors.New(KeyWorkers+": must not be negative"))
	}
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SortOrder returns the parsed post_process.sort_order.
func (c *Config) SortOrder() rank.SortOrder {
	o, _ := rank.ParseSortOrder(c.PostProcess.SortOrder)
	return o
}

// GeneNamespace returns the parsed post_process.gene_identifier.
func (c *Config) GeneNamespace() genemap.Namespace {
	ns, _ := genemap.ParseNamespace(c.PostProcess.GeneIdentifier)
	return ns
}
