package duckdb

import (
	"context"
	"database/sql"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// recordSource stores the fingerprint of a result file for this run.
// Sources that cannot be stat'ed are recorded without size and time.
func (s *Store) recordSource(ctx context.Context, conn *sql.Conn, path string) error {
	var size, modTime any
	if fp, err := StatFile(path); err == nil {
		size = fp.Size
		modTime = fp.ModTime.UTC()
	}
	_, err := conn.ExecContext(ctx, `INSERT OR REPLACE INTO sources (run_id, source, size, mod_time)
		VALUES (?, ?, ?, ?)`, s.runID, path, size, modTime)
	return err
}

// Source is a result file recorded by a run.
type Source struct {
	RunID   string
	Path    string
	Size    int64 // -1 when unknown
	ModTime time.Time
}

// Sources returns the result files recorded for runID, ordered by path.
func (s *Store) Sources(runID string) ([]Source, error) {
	rows, err := s.db.Query(`SELECT run_id, source, COALESCE(size, -1), mod_time
		FROM sources WHERE run_id=? ORDER BY source`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		var src Source
		var modTime sql.NullTime
		if err := rows.Scan(&src.RunID, &src.Path, &src.Size, &modTime); err != nil {
			return nil, err
		}
		src.ModTime = modTime.Time
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

// Runs returns the ids of all runs recorded in the store.
func (s *Store) Runs() ([]string, error) {
	rows, err := s.db.Query(`SELECT run_id FROM sources
		GROUP BY run_id ORDER BY min(written_at), run_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		runs = append(runs, id)
	}
	return runs, rows.Err()
}
