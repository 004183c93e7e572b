package temporal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/medtrail/symptom-timeline/pkg/storage"
	"github.com/medtrail/symptom-timeline/pkg/timeline"
)

// Activities interface defines all the activities used by workflows
type Activities interface {
	AppendEntriesActivity(ctx context.Context, consultationID string, entries []timeline.Entry) error
	LoadEntriesActivity(ctx context.Context, consultationID string) (timeline.Timeline, error)
	AnalyzeTimelineActivity(ctx context.Context, entries timeline.Timeline) (*timeline.Report, error)
	NarrativeActivity(ctx context.Context, entries timeline.Timeline, currentSymptoms map[string]any) (json.RawMessage, error)
}

// ActivitiesImpl implements the Activities interface
type ActivitiesImpl struct {
	logger    *slog.Logger
	analyzer  *timeline.Analyzer
	store     storage.EntryStore
	narrative timeline.NarrativeAnalyzer
}

// NewActivitiesImpl creates a new activities implementation. The narrative
// analyzer may be nil when no model endpoint is configured.
func NewActivitiesImpl(logger *slog.Logger, analyzer *timeline.Analyzer, store storage.EntryStore, narrative timeline.NarrativeAnalyzer) *ActivitiesImpl {
	return &ActivitiesImpl{
		logger:    logger,
		analyzer:  analyzer,
		store:     store,
		narrative: narrative,
	}
}

// AppendEntriesActivity persists symptom entries to durable storage
func (a *ActivitiesImpl) AppendEntriesActivity(ctx context.Context, consultationID string, entries []timeline.Entry) error {
	a.logger.Info("Appending entries", "consultationID", consultationID, "count", len(entries))

	if err := a.store.AppendEntries(ctx, consultationID, entries); err != nil {
		a.logger.Error("Failed to append entries", "error", err)
		return fmt.Errorf("failed to append entries: %w", err)
	}

	a.logger.Info("Successfully appended entries", "consultationID", consultationID, "count", len(entries))
	return nil
}

// LoadEntriesActivity loads a consultation's timeline from storage
func (a *ActivitiesImpl) LoadEntriesActivity(ctx context.Context, consultationID string) (timeline.Timeline, error) {
	a.logger.Info("Loading entries", "consultationID", consultationID)

	entries, err := a.store.LoadEntries(ctx, consultationID)
	if err != nil {
		a.logger.Error("Failed to load entries", "error", err)
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}

	a.logger.Info("Successfully loaded entries", "consultationID", consultationID, "count", len(entries))
	return entries, nil
}

// AnalyzeTimelineActivity runs the rule-based pattern detectors, risk
// aggregation and recommendations. The narrative field is left for
// NarrativeActivity so model latency never delays the deterministic result.
func (a *ActivitiesImpl) AnalyzeTimelineActivity(ctx context.Context, entries timeline.Timeline) (*timeline.Report, error) {
	a.logger.Info("Analyzing timeline", "entryCount", len(entries))

	if len(entries) == 0 {
		report := a.analyzer.Analyze(ctx, entries, nil)
		return &report, nil
	}

	report := a.analyzer.AnalyzeDeterministic(entries.SortedByTime())
	return &report, nil
}

// NarrativeActivity obtains the model-generated narrative analysis
func (a *ActivitiesImpl) NarrativeActivity(ctx context.Context, entries timeline.Timeline, currentSymptoms map[string]any) (json.RawMessage, error) {
	if a.narrative == nil {
		return timeline.FallbackNarrative("narrative analysis not configured"), nil
	}

	payload, err := a.narrative.AnalyzeTimeline(ctx, entries.SortedByTime(), currentSymptoms)
	if err != nil {
		a.logger.Warn("Narrative analysis failed", "error", err)
		return nil, fmt.Errorf("narrative analysis: %w", err)
	}
	return payload, nil
}
