package narrative

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtrail/symptom-timeline/pkg/timeline"
)

func intPtr(v int) *int { return &v }

var testBase = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func testTimeline() timeline.Timeline {
	return timeline.Timeline{
		{Timestamp: testBase, Symptom: "headache", Severity: intPtr(4), Location: "temples"},
		{Timestamp: testBase.Add(2 * time.Hour), Symptom: "nausea", Severity: intPtr(6)},
	}
}

func chatCompletion(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(body)
}

func TestAnalyzeTimeline(t *testing.T) {
	var gotRequest chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatCompletion(`{"summary": "Progressive picture over two hours", "confidence": 80, "recommendations": [{"action": "See a clinician", "timing": "today", "reasoning": "worsening severity"}]}`)))
	}))
	defer server.Close()

	client := NewClient(Config{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "primary-model",
	}, nil)

	payload, err := client.AnalyzeTimeline(context.Background(), testTimeline(), map[string]any{"headache": "worsening"})
	require.NoError(t, err)

	// The request carries the timeline context and the model config
	assert.Equal(t, "primary-model", gotRequest.Model)
	require.Len(t, gotRequest.Messages, 2)
	assert.Equal(t, "system", gotRequest.Messages[0].Role)
	assert.Contains(t, gotRequest.Messages[1].Content, "SYMPTOM TIMELINE:")
	assert.Contains(t, gotRequest.Messages[1].Content, "- 2025-03-10 08:00: headache at temples (severity: 4/10)")
	assert.Contains(t, gotRequest.Messages[1].Content, "CURRENT SYMPTOM STATE:")
	assert.Equal(t, 2000, gotRequest.MaxTokens)
	assert.InDelta(t, 0.3, gotRequest.Temperature, 1e-9)

	var analysis timelineAnalysis
	require.NoError(t, json.Unmarshal(payload, &analysis))
	assert.Equal(t, "Progressive picture over two hours", analysis.TimelineSummary)
	assert.Equal(t, float64(80), analysis.AIInsights["confidence"])
	assert.Equal(t, "worsening", analysis.ProgressionAnalysis["progression"])
	require.NotEmpty(t, analysis.Recommendations)
}

func TestAnalyzeTimelineBackupModels(t *testing.T) {
	var calledModels []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		calledModels = append(calledModels, req.Model)

		if req.Model != "backup-2" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(chatCompletion("```json\n{\"summary\": \"analysis from backup\"}\n```")))
	}))
	defer server.Close()

	client := NewClient(Config{
		BaseURL:      server.URL,
		APIKey:       "test-key",
		Model:        "primary-model",
		BackupModels: []string{"backup-1", "backup-2"},
	}, nil)

	payload, err := client.AnalyzeTimeline(context.Background(), testTimeline(), nil)
	require.NoError(t, err)

	// Primary first, then each backup once, in order
	assert.Equal(t, []string{"primary-model", "backup-1", "backup-2"}, calledModels)

	// Fenced JSON is tolerated
	var analysis timelineAnalysis
	require.NoError(t, json.Unmarshal(payload, &analysis))
	assert.Equal(t, "analysis from backup", analysis.TimelineSummary)
}

func TestAnalyzeTimelineAllModelsFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	client := NewClient(Config{
		BaseURL:      server.URL,
		APIKey:       "test-key",
		Model:        "primary-model",
		BackupModels: []string{"backup-1"},
	}, nil)

	_, err := client.AnalyzeTimeline(context.Background(), testTimeline(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all narrative models failed")
}

func TestAnalyzeTimelineMalformedModelOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatCompletion("I cannot produce JSON today.")))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, APIKey: "k", Model: "m"}, nil)

	_, err := client.AnalyzeTimeline(context.Background(), testTimeline(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse model response")
}

func TestAnalyzeTimelineEmpty(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://unused", APIKey: "k", Model: "m"}, nil)

	payload, err := client.AnalyzeTimeline(context.Background(), timeline.Timeline{}, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"No timeline data available"}`, string(payload))
}

func TestRiskTrajectory(t *testing.T) {
	tests := []struct {
		name          string
		entries       timeline.Timeline
		wantRisk      string
		wantTrend     string
		wantRapid     int
		wantAvgRecent float64
	}{
		{
			name: "calm low risk",
			entries: timeline.Timeline{
				{Timestamp: testBase, Symptom: "cough", Severity: intPtr(2)},
				{Timestamp: testBase.Add(24 * time.Hour), Symptom: "cough", Severity: intPtr(3)},
			},
			wantRisk:      "low",
			wantTrend:     "stable",
			wantRapid:     0,
			wantAvgRecent: 2.5,
		},
		{
			name: "severe recent symptoms",
			entries: timeline.Timeline{
				{Timestamp: testBase, Symptom: "pain", Severity: intPtr(8)},
				{Timestamp: testBase.Add(6 * time.Hour), Symptom: "pain", Severity: intPtr(9)},
			},
			wantRisk:      "high",
			wantTrend:     "stable",
			wantRapid:     0,
			wantAvgRecent: 8.5,
		},
		{
			name: "rapid-fire entries escalate trend",
			entries: timeline.Timeline{
				{Timestamp: testBase, Symptom: "a", Severity: intPtr(3)},
				{Timestamp: testBase.Add(10 * time.Minute), Symptom: "b", Severity: intPtr(3)},
				{Timestamp: testBase.Add(20 * time.Minute), Symptom: "c", Severity: intPtr(3)},
				{Timestamp: testBase.Add(30 * time.Minute), Symptom: "d", Severity: intPtr(3)},
			},
			wantRisk:      "high",
			wantTrend:     "increasing",
			wantRapid:     3,
			wantAvgRecent: 3,
		},
		{
			name: "no severities defaults to midpoint",
			entries: timeline.Timeline{
				{Timestamp: testBase, Symptom: "fatigue"},
				{Timestamp: testBase.Add(48 * time.Hour), Symptom: "fatigue"},
			},
			wantRisk:      "low",
			wantTrend:     "stable",
			wantRapid:     0,
			wantAvgRecent: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := riskTrajectory(tt.entries.SortedByTime())
			assert.Equal(t, tt.wantRisk, got["current_risk"])
			assert.Equal(t, tt.wantTrend, got["risk_trend"])
			assert.Equal(t, tt.wantRapid, got["rapid_changes_count"])
			assert.InDelta(t, tt.wantAvgRecent, got["average_recent_severity"].(float64), 1e-9)
		})
	}
}

func TestAnalyzeProgression(t *testing.T) {
	t.Run("single entry insufficient", func(t *testing.T) {
		got := analyzeProgression(timeline.Timeline{{Timestamp: testBase, Symptom: "cough"}})
		assert.Equal(t, map[string]any{"progression": "insufficient_data"}, got)
	})

	t.Run("improving severities", func(t *testing.T) {
		entries := timeline.Timeline{
			{Timestamp: testBase, Symptom: "pain", Severity: intPtr(7)},
			{Timestamp: testBase.Add(12 * time.Hour), Symptom: "pain", Severity: intPtr(4)},
		}
		got := analyzeProgression(entries)
		assert.Equal(t, "improving", got["progression"])
		assert.Equal(t, []int{4, 7}, got["severity_range"])
		assert.InDelta(t, 12.0, got["total_duration_hours"].(float64), 1e-9)
		assert.InDelta(t, 12.0, got["average_interval_hours"].(float64), 1e-9)
	})
}
