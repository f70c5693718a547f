// Package store persists extracted ledger records into a SQLite database.
// It offers one generic write operation driven by a rename table, value
// converters and an optional upsert-unique column set, so the parser never
// sees SQL.
package store

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/insightdelivered/ledger-extractor/internal/models"
)

// Store is one open write session. A single session spans a whole run.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path. ":memory:" is accepted for
// storeless extraction runs.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close ends the write session.
func (s *Store) Close() error { return s.db.Close() }

// WriteSpec drives one table's writes: how source fields map to columns, how
// raw strings become typed values, and which columns define upsert identity.
type WriteSpec struct {
	Table      string
	Renames    map[string]string
	Converters map[string]models.Converter
	UniqueCols []string
}

// Write persists one field map. With UniqueCols set it behaves as an upsert
// keyed on those columns and returns the resolved row id whether the row was
// inserted or already present; without it, it always inserts.
func (s *Store) Write(spec WriteSpec, fields models.Record) (int64, error) {
	cols, err := s.mapFields(spec, fields)
	if err != nil {
		return 0, fmt.Errorf("store: %s: %w", spec.Table, err)
	}

	if len(spec.UniqueCols) > 0 {
		if id, ok, err := s.lookup(spec, cols); err != nil {
			return 0, err
		} else if ok {
			return id, nil
		}
	}
	return s.insert(spec.Table, cols)
}

// mapFields renames and converts a raw field map into column values. Source
// fields must either appear in the rename table or already be column names;
// an unknown spaced field means the report vocabulary drifted, which is an
// error rather than something to drop silently.
func (s *Store) mapFields(spec WriteSpec, fields models.Record) (map[string]any, error) {
	cols := make(map[string]any, len(fields))
	for field, v := range fields {
		name, ok := spec.Renames[field]
		if !ok {
			if strings.ContainsAny(field, " #") || field != strings.ToLower(field) {
				return nil, fmt.Errorf("field %q has no column mapping", field)
			}
			name = field
		}
		if raw, isString := v.(string); isString {
			if raw == "" {
				cols[name] = nil
				continue
			}
			if conv, has := spec.Converters[name]; has {
				typed, err := conv(raw)
				if err != nil {
					return nil, fmt.Errorf("column %s: %w", name, err)
				}
				cols[name] = typed
				continue
			}
			cols[name] = raw
			continue
		}
		cols[name] = v
	}
	return cols, nil
}

func (s *Store) lookup(spec WriteSpec, cols map[string]any) (int64, bool, error) {
	var clauses []string
	var args []any
	for _, c := range spec.UniqueCols {
		v, ok := cols[c]
		if !ok || v == nil {
			clauses = append(clauses, c+" IS NULL")
			continue
		}
		clauses = append(clauses, c+" = ?")
		args = append(args, v)
	}
	q := fmt.Sprintf("SELECT id FROM %s WHERE %s", spec.Table, strings.Join(clauses, " AND "))

	var id int64
	err := s.db.QueryRow(q, args...).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("store: looking up %s: %w", spec.Table, err)
	}
	return id, true, nil
}

func (s *Store) insert(table string, cols map[string]any) (int64, error) {
	names := make([]string, 0, len(cols))
	for n := range cols {
		names = append(names, n)
	}
	sort.Strings(names)

	args := make([]any, len(names))
	marks := make([]string, len(names))
	for i, n := range names {
		args[i] = cols[n]
		marks[i] = "?"
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(names, ", "), strings.Join(marks, ", "))

	res, err := s.db.Exec(q, args...)
	if err != nil {
		return 0, fmt.Errorf("store: inserting into %s: %w", table, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: resolving %s insert id: %w", table, err)
	}
	return id, nil
}

// BeginRun records the start of an extraction run and returns its id.
func (s *Store) BeginRun(sourceFile string) (string, error) {
	runID := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO extraction_runs (run_id, source_file, started_at, status) VALUES (?, ?, ?, 'RUNNING')`,
		runID, sourceFile, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("store: starting run: %w", err)
	}
	return runID, nil
}

// FinishRun closes out an extraction run row with its final counts.
func (s *Store) FinishRun(runID, status string, pages, records int) error {
	_, err := s.db.Exec(
		`UPDATE extraction_runs SET finished_at = ?, status = ?, pages = ?, records = ? WHERE run_id = ?`,
		time.Now().UTC().Format(time.RFC3339), status, pages, records, runID)
	if err != nil {
		return fmt.Errorf("store: finishing run %s: %w", runID, err)
	}
	return nil
}
