package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/pheval-lirical/internal/config"
	"github.com/inodb/pheval-lirical/internal/duckdb"
	"github.com/inodb/pheval-lirical/internal/genemap"
	"github.com/inodb/pheval-lirical/internal/pheval"
	"github.com/inodb/pheval-lirical/internal/postprocess"
)

// flagKeys maps post-process flags to the config keys they override.
var flagKeys = map[string]string{
	"sort-order":      config.KeySortOrder,
	"gene-identifier": config.KeyGeneIdentifier,
	"gene-map":        config.KeyGeneMap,
	"disease-results": config.KeyDiseaseResults,
	"duckdb":          config.KeyDuckDBPath,
	"workers":         config.KeyWorkers,
}

func newPostProcessCmd(verbose *bool) *cobra.Command {
	var inputFile, outputDir string

	cmd := &cobra.Command{
		Use:   "post-process",
		Short: "Convert raw LIRICAL results into ranked PhEval results",
		Long: `Read one LIRICAL TSV result file, or every .tsv/.tsv.gz file in a directory,
and write ranked gene, variant and (optionally) disease results in the PhEval
layout under the output directory.`,
		Example: `  pheval-lirical post-process --input-file raw_results/ --output-dir out/ \
    --sort-order descending --gene-map hgnc_complete_set.txt
  pheval-lirical post-process --input-file patient_1.tsv --output-dir out/ \
    --config lirical.yaml --disease-results --duckdb out/results.duckdb`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			for name, key := range flagKeys {
				if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
					return err
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputFile == "" {
				return usageErrorf("--input-file is required")
			}
			if outputDir == "" {
				return usageErrorf("--output-dir is required")
			}

			cfg, err := config.FromViper(viper.GetViper())
			if err != nil {
				return &usageError{err: err}
			}

			logger, err := newLogger(*verbose)
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			defer logger.Sync()

			report, err := runPostProcess(cfg, inputFile, outputDir, logger)
			if err != nil {
				return err
			}
			report.Summary(cmd.ErrOrStderr())
			return report.Err()
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input-file", "i", "", "LIRICAL result file or directory of result files")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Output directory for PhEval results")
	cmd.Flags().String("sort-order", "descending", "Score sort order: ascending or descending")
	cmd.Flags().String("gene-identifier", string(genemap.Ensembl), "Gene identifier namespace: ensembl_id, entrez_id, hgnc_id, refseq_id")
	cmd.Flags().String("gene-map", "", "HGNC complete-set TSV used to resolve gene identifiers")
	cmd.Flags().Bool("disease-results", false, "Also write disease results")
	cmd.Flags().String("duckdb", "", "Also store results in this DuckDB database")
	cmd.Flags().Int("workers", 1, "Number of files processed in parallel (0 = all CPUs)")

	return cmd
}

// runPostProcess wires the gene map, sinks and processor from cfg and runs
// them over the files named by inputFile.
func runPostProcess(cfg *config.Config, inputFile, outputDir string, logger *zap.Logger) (*postprocess.Report, error) {
	pp := cfg.PostProcess
	if pp.GeneMap == "" {
		return nil, usageErrorf("a gene map is required (--gene-map or %s)", config.KeyGeneMap)
	}

	paths, err := postprocess.Discover(inputFile)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no LIRICAL result files found in %s", inputFile)
	}

	table, err := genemap.LoadHGNC(pp.GeneMap)
	if err != nil {
		return nil, fmt.Errorf("loading gene map: %w", err)
	}
	logger.Debug("loaded gene map", zap.String("path", pp.GeneMap), zap.Int("genes", table.Len()))

	writer, err := pheval.NewWriter(outputDir, pp.DiseaseResults)
	if err != nil {
		return nil, err
	}
	sinks := []postprocess.Sink{writer}

	if pp.DuckDBPath != "" {
		store, err := duckdb.Open(pp.DuckDBPath)
		if err != nil {
			return nil, fmt.Errorf("opening result store: %w", err)
		}
		defer store.Close()
		logger.Debug("storing results", zap.String("path", pp.DuckDBPath), zap.String("run_id", store.RunID()))
		sinks = append(sinks, store)
	}

	proc := postprocess.NewProcessor(genemap.NewResolver(table, cfg.GeneNamespace()), cfg.SortOrder(), pp.DiseaseResults)
	proc.SetLogger(logger)

	logger.Info("post-processing LIRICAL results",
		zap.Int("files", len(paths)),
		zap.String("sort_order", cfg.SortOrder().String()),
		zap.String("gene_identifier", string(cfg.GeneNamespace())))

	return proc.Run(paths, sinks, pp.Workers), nil
}
