// Package duckdb stores ranked PhEval results in a DuckDB database so that
// runs can be queried across result files.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for ranked results of one run.
type Store struct {
	db    *sql.DB
	path  string
	runID string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database. Every Store gets a fresh
// run id that tags all rows it writes.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path, runID: uuid.NewString()}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// RunID returns the id tagging rows written by this Store.
func (s *Store) RunID() string {
	return s.runID
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sources (
			run_id VARCHAR,
			source VARCHAR,
			size BIGINT,
			mod_time TIMESTAMP,
			written_at TIMESTAMP DEFAULT current_timestamp,
			PRIMARY KEY (run_id, source)
		)`,
		`CREATE TABLE IF NOT EXISTS gene_results (
			run_id VARCHAR,
			source VARCHAR,
			seq BIGINT,
			gene_symbol VARCHAR,
			gene_identifier VARCHAR,
			score DOUBLE,
			rank BIGINT
		)`,
		`CREATE TABLE IF NOT EXISTS variant_results (
			run_id VARCHAR,
			source VARCHAR,
			seq BIGINT,
			chromosome VARCHAR,
			start_pos BIGINT,
			end_pos BIGINT,
			ref VARCHAR,
			alt VARCHAR,
			score DOUBLE,
			rank BIGINT
		)`,
		`CREATE TABLE IF NOT EXISTS disease_results (
			run_id VARCHAR,
			source VARCHAR,
			seq BIGINT,
			disease_identifier VARCHAR,
			score DOUBLE,
			rank BIGINT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
