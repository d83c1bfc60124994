package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/claude/rpfocus/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB keeps the state in PostgreSQL through a pgxpool.Pool.
type DB struct {
	Pool *pgxpool.Pool
}

var (
	_ Store    = (*DB)(nil)
	_ Backuper = (*DB)(nil)
)

// OpenPostgres applies migrations and connects a pool.
func OpenPostgres(ctx context.Context, dsn string) (*DB, error) {
	if err := RunMigrations("postgres", dsn); err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

// Load returns the saved state or ErrNotFound.
func (db *DB) Load(ctx context.Context) (models.State, error) {
	var data []byte
	err := db.Pool.QueryRow(ctx, `SELECT data FROM app_state WHERE id = 1`).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.State{}, ErrNotFound
	}
	if err != nil {
		return models.State{}, fmt.Errorf("querying state: %w", err)
	}
	return Decode(data)
}

// Save replaces the stored state.
func (db *DB) Save(ctx context.Context, s models.State) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO app_state (id, version, data, updated_at) VALUES (1, $1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET version = EXCLUDED.version, data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		models.StateVersion, data, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

// Backup stores a copy of s tagged with reason.
func (db *DB) Backup(ctx context.Context, reason string, s models.State) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO state_backups (reason, version, data) VALUES ($1, $2, $3)`,
		reason, models.StateVersion, data,
	)
	if err != nil {
		return fmt.Errorf("saving backup: %w", err)
	}
	return nil
}

// ListBackups returns backups newest first.
func (db *DB) ListBackups(ctx context.Context) ([]Backup, error) {
	rows, err := db.Pool.Query(ctx,
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
func (db *DB) LoadBackup(ctx context.Context, id int64) (models.State, error) {
	var data []byte
	err := db.Pool.QueryRow(ctx, `SELECT data FROM state_backups WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.State{}, ErrNotFound
	}
	if err != nil {
		return models.State{}, fmt.Errorf("querying backup %d: %w", id, err)
	}
	return Decode(data)
}

// Close closes the connection pool.
func (db *DB) Close() error {
	db.Pool.Close()
	return nil
}
