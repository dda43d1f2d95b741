package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/pheval-lirical/internal/pheval"
	"github.com/inodb/pheval-lirical/internal/rank"
)

// Write stores every ranked record of rs under this Store's run id.
// Rows keep their output order through the seq column. The source row and
// all result rows are written in one transaction, so a failed write leaves
// nothing behind for rs.Source.
func (s *Store) Write(rs *pheval.ResultSet) (err error) {
	ctx := context.Background()
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN TRANSACTION"); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			conn.ExecContext(ctx, "ROLLBACK")
		}
	}()

	if err := s.recordSource(ctx, conn, rs.Source); err != nil {
		return fmt.Errorf("record source %s: %w", rs.Source, err)
	}

	err = appendRows(conn, "gene_results", s.runID, rs.Source, len(rs.Genes), func(i int) []driver.Value {
		g := rs.Genes[i]
		return []driver.Value{g.Payload.GeneSymbol, g.Payload.GeneIdentifier, g.Payload.Score, int64(g.Rank)}
	})
	if err != nil {
		return fmt.Errorf("write gene results: %w", err)
	}

	err = appendRows(conn, "variant_results", s.runID, rs.Source, len(rs.Variants), func(i int) []driver.Value {
		v := rs.Variants[i]
		return []driver.Value{
			v.Payload.Chromosome, v.Payload.Start, v.Payload.End,
			v.Payload.Ref, v.Payload.Alt, v.Payload.Score, int64(v.Rank),
		}
	})
	if err != nil {
		return fmt.Errorf("write variant results: %w", err)
	}

	err = appendRows(conn, "disease_results", s.runID, rs.Source, len(rs.Diseases), func(i int) []driver.Value {
		d := rs.Diseases[i]
		return []driver.Value{d.Payload.DiseaseIdentifier, d.Payload.Score, int64(d.Rank)}
	})
	if err != nil {
		return fmt.Errorf("write disease results: %w", err)
	}

	if _, err = conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("commit results: %w", err)
	}
	return nil
}

// appendRows batch-inserts n rows into table on conn using the Appender API.
// Each row is prefixed with run_id, source and seq. The appender is flushed
// and closed before returning.
func appendRows(conn *sql.Conn, table, runID, source string, n int, row func(i int) []driver.Value) error {
	if n == 0 {
		return nil
	}

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}

	for i := range n {
		vals := append([]driver.Value{runID, source, int64(i)}, row(i)...)
		if err := appender.AppendRow(vals...); err != nil {
			appender.Close()
			return fmt.Errorf("append %s row %d: %w", table, i, err)
		}
	}
	return appender.Close()
}

// GeneResults returns the ranked gene results stored for source by runID,
// in output order.
func (s *Store) GeneResults(runID, source string) ([]pheval.RankedGene, error) {
	rows, err := s.db.Query(`SELECT gene_symbol, gene_identifier, score, rank
		FROM gene_results WHERE run_id=? AND source=? ORDER BY seq`, runID, source)
	if err != nil {
		return nil, fmt.Errorf("query gene results: %w", err)
	}
	defer rows.Close()

	var results []pheval.RankedGene
	for rows.Next() {
		var g pheval.GeneResult
		var r int64
		if err := rows.Scan(&g.GeneSymbol, &g.GeneIdentifier, &g.Score, &r); err != nil {
			return nil, fmt.Errorf("scan gene result: %w", err)
		}
		results = append(results, rank.Ranked[pheval.GeneResult]{Payload: g, Rank: int(r)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gene results: %w", err)
	}
	return results, nil
}

// VariantResults returns the ranked variant results stored for source by
// runID, in output order.
func (s *Store) VariantResults(runID, source string) ([]pheval.RankedVariant, error) {
	rows, err := s.db.Query(`SELECT chromosome, start_pos, end_pos, ref, alt, score, rank
		FROM variant_results WHERE run_id=? AND source=? ORDER BY seq`, runID, source)
	if err != nil {
		return nil, fmt.Errorf("query variant results: %w", err)
	}
	defer rows.Close()

	var results []pheval.RankedVariant
	for rows.Next() {
		var v pheval.VariantResult
		var r int64
		if err := rows.Scan(&v.Chromosome, &v.Start, &v.End, &v.Ref, &v.Alt, &v.Score, &r); err != nil {
			return nil, fmt.Errorf("scan variant result: %w", err)
		}
		results = append(results, rank.Ranked[pheval.VariantResult]{Payload: v, Rank: int(r)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variant results: %w", err)
	}
	return results, nil
}

// DiseaseResults returns the ranked disease results stored for source by
// runID, in output order.
func (s *Store) DiseaseResults(runID, source string) ([]pheval.RankedDisease, error) {
	rows, err := s.db.Query(`SELECT disease_identifier, score, rank
		FROM disease_results WHERE run_id=? AND source=? ORDER BY seq`, runID, source)
	if err != nil {
		return nil, fmt.Errorf("query disease results: %w", err)
	}
	defer rows.Close()

	var results []pheval.RankedDisease
	for rows.Next() {
		var d pheval.DiseaseResult
		var r int64
		if err := rows.Scan(&d.DiseaseIdentifier, &d.Score, &r); err != nil {
			return nil, fmt.Errorf("scan disease result: %w", err)
		}
		results = append(results, rank.Ranked[pheval.DiseaseResult]{Payload: d, Rank: int(r)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate disease results: %w", err)
	}
	return results, nil
}
