package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/claude/rpfocus/internal/models"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load on empty store: err = %v, want ErrNotFound", err)
	}

	in := sampleState()
	if err := s.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	in.View.CurrentWeek = 8
	if err := s.Save(ctx, in); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	out, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.View.CurrentWeek != 8 {
		t.Errorf("week = %d, want 8 (last save wins)", out.View.CurrentWeek)
	}
	if len(out.Logs) != len(in.Logs) || out.History["bp_flat"] != 100 {
		t.Errorf("state not restored: %d logs, history %+v", len(out.Logs), out.History)
	}
}

func exerciseBackups(t *testing.T, b Backuper) {
	t.Helper()
	ctx := context.Background()

	first := sampleState()
	second := sampleState()
	second.View.CurrentWeek = 3
	if err := b.Backup(ctx, "reset", first); err != nil {
		t.Fatal(err)
	}
	if err := b.Backup(ctx, "import", second); err != nil {
		t.Fatal(err)
	}

	list, err := b.ListBackups(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Reason != "import" || list[1].Reason != "reset" {
		t.Fatalf("backups = %+v", list)
	}
	got, err := b.LoadBackup(ctx, list[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.View.CurrentWeek != 3 {
		t.Errorf("backup week = %d, want 3", got.View.CurrentWeek)
	}
	if _, err := b.LoadBackup(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing backup err = %v", err)
	}
}

// TestMemoryStore verifies the in-process store.
func TestMemoryStore(t *testing.T) {
	m := NewMemory()
	exerciseStore(t, m)
	exerciseBackups(t, m)
	if m.Saves() != 2 {
		t.Errorf("saves = %d, want 2", m.Saves())
	}
}

// TestSQLiteStore verifies migrations run and the single-row table behaves
// as a replace-on-save store.
func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "rpfocus.db")
	s, err := OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	exerciseStore(t, s)
	exerciseBackups(t, s)
}

// TestSQLiteReopen verifies data persists across connections and migrations
// are idempotent.
func TestSQLiteReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rpfocus.db")
	ctx := context.Background()

	s, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, sampleState()); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.Mode != models.ModeBulking {
		t.Errorf("mode = %s, want bulking", got.Mode)
	}
}

// TestFileStore verifies the JSON file store and that it reads legacy dumps.
func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	exerciseStore(t, NewFile(filepath.Join(dir, "state.json")))

	legacyPath := filepath.Join(dir, "legacy.json")
	if err := os.WriteFile(legacyPath, []byte(legacyBlobJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := NewFile(legacyPath).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if s.Mode != models.ModeBulking || len(s.Logs) != 4 {
		t.Errorf("legacy load: mode %s, %d logs", s.Mode, len(s.Logs))
	}
}

// TestPostgresStore runs against a real database when
// RPFOCUS_TEST_POSTGRES_DSN is set.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("RPFOCUS_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("RPFOCUS_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	db, err := OpenPostgres(ctx, dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if _, err := db.Pool.Exec(ctx, `TRUNCATE app_state, state_backups`); err != nil {
		t.Fatal(err)
	}

	exerciseStore(t, db)
	exerciseBackups(t, db)
}

// TestOpenUnknownDriver verifies an unknown driver is rejected.
func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), "mongo", ""); err == nil {
		t.Error("expected error for unknown driver")
	}
}
