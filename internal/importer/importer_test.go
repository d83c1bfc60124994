package importer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/claude/rpfocus/internal/models"
	"github.com/claude/rpfocus/internal/storage"
)

const legacyBlob = `{
  "logs": {
    "w2-d1-bp_flat-s0": {"weight": "100", "reps": "8", "done": true, "completedAt": 1767225600000},
    "w2-d1-bp_flat-s1": {"weight": "", "reps": "", "done": false}
  },
  "history": {"bp_flat": 100},
  "mode": "bulking",
  "viewState": {"currentWeek": 2, "currentDay": 1, "showStats": false}
}`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestImportLegacyBlob verifies an unversioned browser blob is imported and
// the previous state is backed up first.
func TestImportLegacyBlob(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	if err := store.Save(ctx, models.DefaultState()); err != nil {
		t.Fatal(err)
	}

	stats, err := New(store, discardLogger(), false).Import(ctx, writeTemp(t, legacyBlob))
	if err != nil {
		t.Fatal(err)
	}
	if !stats.Legacy {
		t.Error("Legacy = false, want true")
	}
	if stats.SetLogs != 2 || stats.DoneSets != 1 {
		t.Errorf("logs = %d done = %d, want 2 and 1", stats.SetLogs, stats.DoneSets)
	}
	if stats.Mode != models.ModeBulking || stats.Week != 2 {
		t.Errorf("mode = %q week = %d", stats.Mode, stats.Week)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.History["bp_flat"] != 100 {
		t.Errorf("history bp_flat = %v, want 100", got.History["bp_flat"])
	}

	backups, err := store.ListBackups(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 || backups[0].Reason != "import" {
		t.Errorf("backups = %+v, want one import backup", backups)
	}
}

// TestImportDryRun verifies dry-run reports stats without writing.
func TestImportDryRun(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()

	if _, err := New(store, discardLogger(), true).Import(ctx, writeTemp(t, legacyBlob)); err != nil {
		t.Fatal(err)
	}
	if store.Saves() != 0 {
		t.Errorf("saves = %d, want 0", store.Saves())
	}
}

// TestExportRoundTrip verifies an exported file imports back unchanged.
func TestExportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := storage.NewMemory()
	st := models.DefaultState()
	st.Mode = models.ModeBulking
	st.View.CurrentWeek = 7
	st.History["ohp"] = 55
	if err := src.Save(ctx, st); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "export", "state.json")
	if _, err := New(src, discardLogger(), false).Export(ctx, path); err != nil {
		t.Fatal(err)
	}

	dst := storage.NewMemory()
	stats, err := New(dst, discardLogger(), false).Import(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Legacy {
		t.Error("Legacy = true for an exported file")
	}
	got, err := dst.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.Mode != models.ModeBulking || got.View.CurrentWeek != 7 || got.History["ohp"] != 55 {
		t.Errorf("imported state = mode %q week %d ohp %v", got.Mode, got.View.CurrentWeek, got.History["ohp"])
	}
}

// TestExportNothingSaved verifies exporting an empty store fails.
func TestExportNothingSaved(t *testing.T) {
	_, err := New(storage.NewMemory(), discardLogger(), false).Export(context.Background(), filepath.Join(t.TempDir(), "x.json"))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// TestRestore verifies a backup becomes the current state.
func TestRestore(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()

	old := models.DefaultState()
	old.View.CurrentWeek = 4
	if err := store.Backup(ctx, "reset", old); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, models.DefaultState()); err != nil {
		t.Fatal(err)
	}

	imp := New(store, discardLogger(), false)
	if _, err := imp.Restore(ctx, 1); err != nil {
		t.Fatal(err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.View.CurrentWeek != 4 {
		t.Errorf("week = %d, want 4", got.View.CurrentWeek)
	}

	backups, err := imp.Backups(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 2 || backups[0].Reason != "restore" {
		t.Errorf("backups = %+v, want restore backup first", backups)
	}

	if _, err := imp.Restore(ctx, 99); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("restore unknown id err = %v, want ErrNotFound", err)
	}
}

// TestBackupsUnsupported verifies file stores report no backup support.
func TestBackupsUnsupported(t *testing.T) {
	imp := New(storage.NewFile(filepath.Join(t.TempDir(), "s.json")), discardLogger(), false)
	if _, err := imp.Backups(context.Background()); !errors.Is(err, ErrNoBackups) {
		t.Errorf("err = %v, want ErrNoBackups", err)
	}
}
