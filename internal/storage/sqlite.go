package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/rpfocus/internal/models"
	_ "modernc.org/sqlite"
)

// SQLite keeps the state in a single-row table of a local SQLite file.
type SQLite struct {
	db *sql.DB
}

var (
	_ Store    = (*SQLite)(nil)
	_ Backuper = (*SQLite)(nil)
)

// OpenSQLite opens (or creates) the database at path and applies migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
		}
	}

	if err := RunMigrations("sqlite", "sqlite://"+path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// One writer at a time; SQLite serialises writes anyway.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Load returns the saved state or ErrNotFound.
func (s *SQLite) Load(ctx context.Context) (models.State, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM app_state WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return models.State{}, ErrNotFound
	}
	if err != nil {
		return models.State{}, fmt.Errorf("querying state: %w", err)
	}
	return Decode([]byte(data))
}

// Save replaces the stored state.
func (s *SQLite) Save(ctx context.Context, st models.State) error {
	data, err := Encode(st)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO app_state (id, version, data, updated_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET version = excluded.version, data = excluded.data, updated_at = excluded.updated_at`,
		models.StateVersion, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

// Backup stores a copy of st tagged with reason.
func (s *SQLite) Backup(ctx context.Context, reason string, st models.State) error {
	data, err := Encode(st)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO state_backups (reason, version, data, created_at) VALUES (?, ?, ?, ?)`,
		reason, models.StateVersion, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving backup: %w", err)
	}
	return nil
}

// ListBackups returns backups newest first.
func (s *SQLite) ListBackups(ctx context.Context) ([]Backup, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, reason, version, created_at FROM state_backups ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying backups: %w", err)
	}
	defer rows.Close()

	var out []Backup
	for rows.Next() {
		var b Backup
		if err := rows.Scan(&b.ID, &b.Reason, &b.Version, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning backup: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// LoadBackup decodes the backup with id.
func (s *SQLite) LoadBackup(ctx context.Context, id int64) (models.State, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM state_backups WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return models.State{}, ErrNotFound
	}
	if err != nil {
		return models.State{}, fmt.Errorf("querying backup %d: %w", id, err)
	}
	return Decode([]byte(data))
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
