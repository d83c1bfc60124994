// Package storage persists the application state blob.
//
// The state is a single JSON document with an explicit version tag. It is
// stored as one row in SQLite or PostgreSQL, or as a file for backups.
// Every save replaces the whole document.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/claude/rpfocus/internal/models"
)

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("no saved state")

// Store loads and saves the full application state.
type Store interface {
	Load(ctx context.Context) (models.State, error)
	Save(ctx context.Context, s models.State) error
	Close() error
}

// Backup is a copy of the state taken before a destructive operation.
type Backup struct {
	ID        int64     `json:"id"`
	Reason    string    `json:"reason"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// Backuper is implemented by stores that can keep copies of past states.
type Backuper interface {
	Backup(ctx context.Context, reason string, s models.State) error
	ListBackups(ctx context.Context) ([]Backup, error)
	LoadBackup(ctx context.Context, id int64) (models.State, error)
}

// Open returns the store for driver. target is a file path for "sqlite"
// and "file", and a connection string for "postgres".
func Open(ctx context.Context, driver, target string) (Store, error) {
	switch driver {
	case "sqlite":
		s, err := OpenSQLite(ctx, target)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		db, err := OpenPostgres(ctx, target)
		if err != nil {
			return nil, err
		}
		return db, nil
	case "file":
		return NewFile(target), nil
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
