package temporal

import (
	"fmt"
	"time"

	"github.com/medtrail/symptom-timeline/pkg/timeline"
)

const (
	// Workflow IDs
	IngestionWorkflowIDPrefix = "consultation-"
	AnalysisWorkflowIDPrefix  = "analysis-"

	// Task queue shared by the worker and the HTTP API
	TaskQueue = "symptom-timeline-task-queue"

	// Signal names
	EntrySignalName = "entry-signal"

	// Activity names
	AppendEntriesActivityName   = "append-entries"
	LoadEntriesActivityName     = "load-entries"
	AnalyzeTimelineActivityName = "analyze-timeline"
	NarrativeActivityName       = "narrative-analysis"

	// Default values
	DefaultContinueAsNewThreshold = 1000 // entries before ContinueAsNew
)

// EntrySignal carries symptom entries into a consultation's ingestion workflow
type EntrySignal struct {
	Entries []timeline.Entry `json:"entries"`
}

// AnalysisRequest asks for a full analysis of one consultation's timeline
type AnalysisRequest struct {
	ConsultationID  string         `json:"consultation_id"`
	CurrentSymptoms map[string]any `json:"current_symptoms,omitempty"`
}

// IngestionWorkflowState tracks progress of an ingestion workflow run
type IngestionWorkflowState struct {
	ConsultationID string    `json:"consultation_id"`
	EntryCount     int       `json:"entry_count"`
	LastEntryAt    time.Time `json:"last_entry_at"`
}

// GenerateIngestionWorkflowID creates a workflow ID for entry ingestion
func GenerateIngestionWorkflowID(consultationID string) string {
	return IngestionWorkflowIDPrefix + consultationID
}

// GenerateAnalysisWorkflowID creates a workflow ID for an analysis run
func GenerateAnalysisWorkflowID(consultationID string) string {
	return fmt.Sprintf("%s%s-%d", AnalysisWorkflowIDPrefix, consultationID, time.Now().UnixNano())
}
