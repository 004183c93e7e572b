package temporal

import (
	"testing"
	"time"

	"github.com/medtrail/symptom-timeline/pkg/timeline"
)

func TestGenerateWorkflowIDs(t *testing.T) {
	consultationID := "consult-123"

	ingestionID := GenerateIngestionWorkflowID(consultationID)
	expected := IngestionWorkflowIDPrefix + consultationID
	if ingestionID != expected {
		t.Errorf("Expected ingestion ID '%s', got '%s'", expected, ingestionID)
	}

	analysisID := GenerateAnalysisWorkflowID(consultationID)
	if !hasPrefix(analysisID, AnalysisWorkflowIDPrefix+consultationID) {
		t.Errorf("Analysis ID should contain prefix '%s', got '%s'", AnalysisWorkflowIDPrefix+consultationID, analysisID)
	}
}

func TestEntrySignal(t *testing.T) {
	severity := 6
	signal := EntrySignal{
		Entries: []timeline.Entry{
			{
				Timestamp: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
				Symptom:   "chest pain",
				Severity:  &severity,
			},
		},
	}

	if len(signal.Entries) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(signal.Entries))
	}
	if signal.Entries[0].Symptom != "chest pain" {
		t.Errorf("Expected symptom 'chest pain', got '%s'", signal.Entries[0].Symptom)
	}
}

func TestAnalysisRequest(t *testing.T) {
	request := AnalysisRequest{
		ConsultationID: "consult-123",
		CurrentSymptoms: map[string]any{
			"headache": "worsening",
		},
	}

	if request.ConsultationID != "consult-123" {
		t.Errorf("Expected consultation ID 'consult-123', got '%s'", request.ConsultationID)
	}
	if len(request.CurrentSymptoms) != 1 {
		t.Errorf("Expected 1 current symptom, got %d", len(request.CurrentSymptoms))
	}
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
