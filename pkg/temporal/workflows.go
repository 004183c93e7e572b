package temporal

import (
	"encoding/json"
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/medtrail/symptom-timeline/pkg/timeline"
)

// IngestionWorkflow receives symptom entries for one consultation via signals
// and persists them. The workflow ID is derived from the consultation ID so
// SignalWithStart gives exactly one ingestion workflow per consultation.
func IngestionWorkflow(ctx workflow.Context, consultationID string) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting ingestion workflow", "consultationID", consultationID)

	state := IngestionWorkflowState{
		ConsultationID: consultationID,
		EntryCount:     0,
		LastEntryAt:    workflow.Now(ctx),
	}

	signalChan := workflow.GetSignalChannel(ctx, EntrySignalName)

	for {
		var entrySignal EntrySignal
		signalChan.Receive(ctx, &entrySignal)

		logger.Info("Received entries", "count", len(entrySignal.Entries))

		ao := workflow.ActivityOptions{
			ScheduleToCloseTimeout: 30 * time.Second,
			RetryPolicy: &temporal.RetryPolicy{
				MaximumAttempts: 3,
			},
		}
		ctx = workflow.WithActivityOptions(ctx, ao)

		err := workflow.ExecuteActivity(ctx, AppendEntriesActivityName, consultationID, entrySignal.Entries).Get(ctx, nil)
		if err != nil {
			logger.Error("Failed to append entries", "error", err)
			// Keep receiving further signals rather than failing the workflow
			continue
		}

		state.EntryCount += len(entrySignal.Entries)
		state.LastEntryAt = workflow.Now(ctx)

		// Avoid unbounded history on long-lived consultations
		if state.EntryCount >= DefaultContinueAsNewThreshold {
			logger.Info("Continuing as new", "entryCount", state.EntryCount)
			return workflow.NewContinueAsNewError(ctx, IngestionWorkflow, consultationID)
		}
	}
}

// AnalysisWorkflow loads a consultation's timeline, runs the deterministic
// pattern analysis, and then asks the narrative model for its reading. A
// failed or slow narrative degrades to the fallback payload instead of
// failing the analysis.
func AnalysisWorkflow(ctx workflow.Context, request AnalysisRequest) (*timeline.Report, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting analysis workflow", "consultationID", request.ConsultationID)

	ao := workflow.ActivityOptions{
		ScheduleToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	var entries timeline.Timeline
	err := workflow.ExecuteActivity(ctx, LoadEntriesActivityName, request.ConsultationID).Get(ctx, &entries)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}

	var report *timeline.Report
	err = workflow.ExecuteActivity(ctx, AnalyzeTimelineActivityName, entries).Get(ctx, &report)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze timeline: %w", err)
	}

	// The empty-timeline report carries its own narrative message
	if len(entries) == 0 {
		logger.Info("Analysis completed on empty timeline", "consultationID", request.ConsultationID)
		return report, nil
	}

	narrativeCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		ScheduleToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 2,
		},
	})

	var narrative json.RawMessage
	err = workflow.ExecuteActivity(narrativeCtx, NarrativeActivityName, entries, request.CurrentSymptoms).Get(narrativeCtx, &narrative)
	if err != nil {
		logger.Warn("Narrative analysis failed, using fallback", "error", err)
		report.Narrative = timeline.FallbackNarrative(err.Error())
	} else {
		report.Narrative = narrative
	}

	logger.Info("Analysis completed", "consultationID", request.ConsultationID,
		"riskLevel", report.Risk.RiskLevel, "riskScore", report.Risk.RiskScore)
	return report, nil
}
