// Package storage persists consultation symptom entries. The in-memory store
// backs tests and single-node development; the Postgres store is the durable
// production backend.
package storage

import (
	"context"
	"fmt"

	"github.com/medtrail/symptom-timeline/pkg/timeline"
)

// EntryStore defines the interface for durable symptom entry storage
type EntryStore interface {
	AppendEntries(ctx context.Context, consultationID string, entries []timeline.Entry) error
	LoadEntries(ctx context.Context, consultationID string) (timeline.Timeline, error)
}

// ValidateEntry rejects entries that would corrupt the timeline. Severity is
// optional but must be on the 1-10 scale when present.
func ValidateEntry(entry timeline.Entry) error {
	if entry.Timestamp.IsZero() {
		return fmt.Errorf("entry timestamp is required")
	}
	if entry.Symptom == "" {
		return fmt.Errorf("entry symptom is required")
	}
	if entry.Severity != nil && (*entry.Severity < 1 || *entry.Severity > 10) {
		return fmt.Errorf("entry severity %d out of range 1-10", *entry.Severity)
	}
	return nil
}

// ValidateEntries validates a batch, reporting the first offending entry
func ValidateEntries(entries []timeline.Entry) error {
	for i, entry := range entries {
		if err := ValidateEntry(entry); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return nil
}
