// Package importer moves the state blob between a store and a JSON file:
// exports for safekeeping, imports of exported or legacy browser blobs, and
// restores of backups taken before destructive operations.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/rpfocus/internal/models"
	"github.com/claude/rpfocus/internal/storage"
)

// ErrNoBackups is returned when the store cannot keep backups.
var ErrNoBackups = errors.New("store does not support backups")

// Stats summarises a state blob that was imported or exported.
type Stats struct {
	Legacy        bool
	SetLogs       int
	DoneSets      int
	Exercises     int
	NutritionDays int
	Meals         int
	Week          int
	Mode          models.TrainingMode
}

func statsFor(s models.State) *Stats {
	st := &Stats{
		SetLogs:       len(s.Logs),
		Exercises:     len(s.History),
		NutritionDays: len(s.NutritionLogs),
		Week:          s.View.CurrentWeek,
		Mode:          s.Mode,
	}
	for _, l := range s.Logs {
		if l.Done {
			st.DoneSets++
		}
	}
	for _, d := range s.NutritionLogs {
		st.Meals += len(d.Meals)
	}
	return st
}

// Importer copies state between a store and files.
type Importer struct {
	store  storage.Store
	log    *slog.Logger
	dryRun bool
}

// New creates a new Importer. In dry-run mode nothing is written to the store.
func New(store storage.Store, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{store: store, log: log, dryRun: dryRun}
}

// Export writes the stored state to path as a versioned JSON document.
func (imp *Importer) Export(ctx context.Context, path string) (*Stats, error) {
	s, err := imp.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	if imp.dryRun {
		return statsFor(s), nil
	}
	if err := storage.NewFile(path).Save(ctx, s); err != nil {
		return nil, fmt.Errorf("exporting to %s: %w", path, err)
	}
	imp.log.Info("state exported", "path", path)
	return statsFor(s), nil
}

// Import replaces the stored state with the blob at path. Both exported
// documents and unversioned browser blobs are accepted. The current state
// is backed up first when the store supports it.
func (imp *Importer) Import(ctx context.Context, path string) (*Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	s, err := storage.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	s.Normalize()

	stats := statsFor(s)
	stats.Legacy = isLegacy(data)

	if imp.dryRun {
		return stats, nil
	}
	imp.backupCurrent(ctx, "import")
	if err := imp.store.Save(ctx, s); err != nil {
		return stats, fmt.Errorf("saving imported state: %w", err)
	}
	imp.log.Info("state imported", "path", path, "legacy", stats.Legacy)
	return stats, nil
}

// Backups lists the backups kept by the store, newest first.
func (imp *Importer) Backups(ctx context.Context) ([]storage.Backup, error) {
	b, ok := imp.store.(storage.Backuper)
	if !ok {
		return nil, ErrNoBackups
	}
	return b.ListBackups(ctx)
}

// Restore makes backup id the current state. The state it replaces is
// itself backed up.
func (imp *Importer) Restore(ctx context.Context, id int64) (*Stats, error) {
	b, ok := imp.store.(storage.Backuper)
	if !ok {
		return nil, ErrNoBackups
	}
	s, err := b.LoadBackup(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading backup %d: %w", id, err)
	}
	s.Normalize()
	if imp.dryRun {
		return statsFor(s), nil
	}
	imp.backupCurrent(ctx, "restore")
	if err := imp.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("saving restored state: %w", err)
	}
	imp.log.Info("backup restored", "id", id)
	return statsFor(s), nil
}

func (imp *Importer) backupCurrent(ctx context.Context, reason string) {
	b, ok := imp.store.(storage.Backuper)
	if !ok {
		return
	}
	cur, err := imp.store.Load(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		imp.log.Warn("current state unreadable, not backed up", "error", err)
		return
	}
	if err := b.Backup(ctx, reason, cur); err != nil {
		imp.log.Warn("backup failed", "reason", reason, "error", err)
	}
}

func isLegacy(data []byte) bool {
	var head struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return false
	}
	return head.Version == nil || *head.Version == 0
}
