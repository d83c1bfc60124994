package storage

import (
	"context"
	"sync"
	"time"

	"github.com/claude/rpfocus/internal/models"
)

// Memory is an in-process Store. It round-trips through the codec so it
// behaves like the persistent stores.
type Memory struct {
	mu      sync.Mutex
	data    []byte
	saves   int
	backups []memoryBackup
}

type memoryBackup struct {
	Backup
	data []byte
}

var (
	_ Store    = (*Memory)(nil)
	_ Backuper = (*Memory)(nil)
)

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{}
}

// NewMemoryWithBlob returns a store preloaded with raw blob bytes.
func NewMemoryWithBlob(data []byte) *Memory {
	return &Memory{data: append([]byte(nil), data...)}
}

func (m *Memory) Load(_ context.Context) (models.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return models.State{}, ErrNotFound
	}
	return Decode(m.data)
}

func (m *Memory) Save(_ context.Context, s models.State) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	m.saves++
	return nil
}

// Saves returns how many times Save succeeded.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Blob returns a copy of the raw stored bytes.
func (m *Memory) Blob() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}

func (m *Memory) Backup(_ context.Context, reason string, s models.State) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backups = append(m.backups, memoryBackup{
		Backup: Backup{
			ID:        int64(len(m.backups) + 1),
			Reason:    reason,
			Version:   models.StateVersion,
			CreatedAt: time.Now().UTC(),
		},
		data: data,
	})
	return nil
}

func (m *Memory) ListBackups(_ context.Context) ([]Backup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Backup, 0, len(m.backups))
	for i := len(m.backups) - 1; i >= 0; i-- {
		out = append(out, m.backups[i].Backup)
	}
	return out, nil
}

func (m *Memory) LoadBackup(_ context.Context, id int64) (models.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.backups {
		if b.ID == id {
			return Decode(b.data)
		}
	}
	return models.State{}, ErrNotFound
}

func (m *Memory) Close() error { return nil }
