package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/notionexport/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/notionexport/internal/core/domain"
	"github.com/custodia-labs/notionexport/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ManifestStore = (*Store)(nil)

// Store records export runs in a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// RunRecord is a stored run.
type RunRecord struct {
	ID         string
	RootID     string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	IndexPath  string
	Error      string
}

// DocumentRecord is a stored registry entry.
type DocumentRecord struct {
	ID            string
	Title         string
	Kind          domain.Kind
	Accessibility domain.Accessibility
	Slug          string
	Path          string
	URL           string
}

// NewStore opens (or creates) the manifest database at path.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: manifest path is empty", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating manifest directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies every embedded up migration newer than the recorded version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_manifest.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Record stores the run, its registry snapshot and its skips in one transaction.
func (s *Store) Record(ctx context.Context, summary *domain.Summary) error {
	if summary == nil || summary.RunID == "" {
		return fmt.Errorf("%w: summary has no run id", domain.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var runErr string
	if summary.Err != nil {
		runErr = summary.Err.Error()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, root_id, started_at, finished_at, status, index_path, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, summary.RunID, summary.RootID, summary.StartedAt.UTC(), summary.FinishedAt.UTC(),
		summary.Status.String(), summary.IndexPath, runErr)
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	paths := make(map[string]string, len(summary.Files))
	for _, f := range summary.Files {
		paths[f.ID] = f.Path
	}

	docStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (run_id, id, title, kind, accessibility, slug, path, url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer docStmt.Close()

	for _, node := range summary.Documents {
		if _, err := docStmt.ExecContext(ctx, summary.RunID, node.ID, node.Title,
			string(node.Kind), string(node.Accessibility), node.Slug, paths[node.ID], node.URL); err != nil {
			return fmt.Errorf("saving document %s: %w", node.ID, err)
		}
	}

	skipStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO skips (run_id, id, title, reason, detail) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer skipStmt.Close()

	for _, skip := range summary.Skipped {
		if _, err := skipStmt.ExecContext(ctx, summary.RunID, skip.ID, skip.Title,
			string(skip.Reason), skip.Detail); err != nil {
			return fmt.Errorf("saving skip %s: %w", skip.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

// Run retrieves a recorded run.
func (s *Store) Run(ctx context.Context, id string) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, root_id, started_at, finished_at, status, index_path, error
		FROM runs WHERE id = ?
	`, id)

	var r RunRecord
	err := row.Scan(&r.ID, &r.RootID, &r.StartedAt, &r.FinishedAt, &r.Status, &r.IndexPath, &r.Error)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}
	return &r, nil
}

// Documents lists the documents recorded for a run, ordered by id.
func (s *Store) Documents(ctx context.Context, runID string) ([]DocumentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, kind, accessibility, slug, path, url
		FROM documents WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var out []DocumentRecord
	for rows.Next() {
		var d DocumentRecord
		var kind, access string
		if err := rows.Scan(&d.ID, &d.Title, &kind, &access, &d.Slug, &d.Path, &d.URL); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		d.Kind = domain.Kind(kind)
		d.Accessibility = domain.Accessibility(access)
		out = append(out, d)
	}
	return out, rows.Err()
}

// Skips lists the skips recorded for a run, ordered by id.
func (s *Store) Skips(ctx context.Context, runID string) ([]domain.Skip, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, reason, detail FROM skips WHERE run_id = ? ORDER BY id, reason
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing skips: %w", err)
	}
	defer rows.Close()

	var out []domain.Skip
	for rows.Next() {
		var skip domain.Skip
		var reason string
		if err := rows.Scan(&skip.ID, &skip.Title, &reason, &skip.Detail); err != nil {
			return nil, fmt.Errorf("scanning skip: %w", err)
		}
		skip.Reason = domain.FailureKind(reason)
		out = append(out, skip)
	}
	return out, rows.Err()
}
