package storage

import (
	"context"
	"sync"

	"github.com/medtrail/symptom-timeline/pkg/timeline"
)

// MemoryStore implements EntryStore in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]timeline.Timeline // consultationID -> entries
}

// NewMemoryStore creates a new in-memory entry store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]timeline.Timeline),
	}
}

// AppendEntries appends validated entries to a consultation's timeline
func (m *MemoryStore) AppendEntries(ctx context.Context, consultationID string, entries []timeline.Entry) error {
	if err := ValidateEntries(entries); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[consultationID] = append(m.entries[consultationID], entries...)
	return nil
}

// LoadEntries returns a consultation's entries in chronological order. An
// unknown consultation yields an empty timeline, not an error.
func (m *MemoryStore) LoadEntries(ctx context.Context, consultationID string) (timeline.Timeline, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries, exists := m.entries[consultationID]
	if !exists {
		return timeline.Timeline{}, nil
	}
	return entries.SortedByTime(), nil
}

// EntryCount returns the number of stored entries for a consultation
func (m *MemoryStore) EntryCount(consultationID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries[consultationID])
}
