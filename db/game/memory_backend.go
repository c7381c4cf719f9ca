package game

import (
	"context"
	"sync"
)

// MemoryBackend stores records in a map.  It is used when no database is configured.
// Records are lost when the server stops.
type MemoryBackend struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	b := MemoryBackend{
		records: make(map[string]Record),
	}
	return &b
}

// Setup does nothing.
func (*MemoryBackend) Setup(ctx context.Context) error {
	return nil
}

// Save puts the record in the map.
func (b *MemoryBackend) Save(ctx context.Context, r Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records[r.ID] = r
	return nil
}

// Read gets the record from the map.
func (b *MemoryBackend) Read(ctx context.Context, id string) (*Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	r, ok := b.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

// List copies the matching records from the map.
func (b *MemoryBackend) List(ctx context.Context, f Filter) ([]Record, error) {
	b.mu.RLock()
	records := make([]Record, 0, len(b.records))
	for _, r := range b.records {
		if r.Matches(f) {
			records = append(records, r)
		}
	}
	b.mu.RUnlock()
	SortRecords(records)
	return records, nil
}

// Count counts the matching records in the map.
func (b *MemoryBackend) Count(ctx context.Context, f Filter) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var n int
	for _, r := range b.records {
		if r.Matches(f) {
			n++
		}
	}
	return n, nil
}
