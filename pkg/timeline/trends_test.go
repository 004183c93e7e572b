package timeline

import (
	"math"
	"testing"
	"time"
)

func TestAnalyzeSeverityTrends(t *testing.T) {
	tests := []struct {
		name          string
		entries       Timeline
		wantCount     int
		wantDirection string
		wantSlope     float64
		wantCorr      float64
	}{
		{
			name:      "empty timeline",
			entries:   Timeline{},
			wantCount: 0,
		},
		{
			name: "two points are not enough",
			entries: Timeline{
				{Timestamp: testBase, Symptom: "nausea", Severity: intPtr(3)},
				{Timestamp: testBase.Add(2 * time.Hour), Symptom: "nausea", Severity: intPtr(5)},
			},
			wantCount: 0,
		},
		{
			name: "steadily increasing severity",
			entries: Timeline{
				{Timestamp: testBase, Symptom: "nausea", Severity: intPtr(3)},
				{Timestamp: testBase.Add(2 * time.Hour), Symptom: "nausea", Severity: intPtr(5)},
				{Timestamp: testBase.Add(4 * time.Hour), Symptom: "nausea", Severity: intPtr(7)},
			},
			wantCount:     1,
			wantDirection: "increasing",
			wantSlope:     1.0,
			wantCorr:      1.0,
		},
		{
			name: "improving severity",
			entries: Timeline{
				{Timestamp: testBase, Symptom: "back pain", Severity: intPtr(8)},
				{Timestamp: testBase.Add(6 * time.Hour), Symptom: "back pain", Severity: intPtr(5)},
				{Timestamp: testBase.Add(12 * time.Hour), Symptom: "back pain", Severity: intPtr(2)},
			},
			wantCount:     1,
			wantDirection: "decreasing",
			wantSlope:     -0.5,
			wantCorr:      -1.0,
		},
		{
			name: "flat severity is stable with zero correlation",
			entries: Timeline{
				{Timestamp: testBase, Symptom: "itching", Severity: intPtr(4)},
				{Timestamp: testBase.Add(10 * time.Hour), Symptom: "itching", Severity: intPtr(4)},
				{Timestamp: testBase.Add(20 * time.Hour), Symptom: "itching", Severity: intPtr(4)},
			},
			wantCount:     1,
			wantDirection: "stable",
			wantSlope:     0,
			wantCorr:      0,
		},
		{
			name: "entries without severity are ignored",
			entries: Timeline{
				{Timestamp: testBase, Symptom: "nausea", Severity: intPtr(3)},
				{Timestamp: testBase.Add(time.Hour), Symptom: "nausea"},
				{Timestamp: testBase.Add(2 * time.Hour), Symptom: "nausea", Severity: intPtr(5)},
			},
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trends := AnalyzeSeverityTrends(tt.entries.SortedByTime())
			if len(trends) != tt.wantCount {
				t.Fatalf("expected %d trends, got %d", tt.wantCount, len(trends))
			}
			if tt.wantCount == 0 {
				return
			}
			trend := trends[0]
			if trend.TrendDirection != tt.wantDirection {
				t.Errorf("expected direction %q, got %q", tt.wantDirection, trend.TrendDirection)
			}
			if math.Abs(trend.Slope-tt.wantSlope) > 1e-9 {
				t.Errorf("expected slope %v, got %v", tt.wantSlope, trend.Slope)
			}
			if math.Abs(trend.CorrelationCoefficient-tt.wantCorr) > 1e-9 {
				t.Errorf("expected correlation %v, got %v", tt.wantCorr, trend.CorrelationCoefficient)
			}
		})
	}
}

func TestSeverityTrendSignificance(t *testing.T) {
	// Worsening up to severity 7 takes the severe-symptom branch.
	entries := Timeline{
		{Timestamp: testBase, Symptom: "Nausea", Severity: intPtr(3)},
		{Timestamp: testBase.Add(2 * time.Hour), Symptom: "nausea", Severity: intPtr(5)},
		{Timestamp: testBase.Add(4 * time.Hour), Symptom: "NAUSEA", Severity: intPtr(7)},
	}

	trends := AnalyzeSeverityTrends(entries)
	if len(trends) != 1 {
		t.Fatalf("expected mixed-case labels to group into 1 trend, got %d", len(trends))
	}
	if trends[0].Symptom != "nausea" {
		t.Errorf("expected normalized symptom key, got %q", trends[0].Symptom)
	}
	if trends[0].Significance != "High significance - worsening severe symptom requires immediate attention" {
		t.Errorf("unexpected significance: %q", trends[0].Significance)
	}

	// A slow improvement reads as a positive trend.
	improving := Timeline{
		{Timestamp: testBase, Symptom: "cough", Severity: intPtr(6)},
		{Timestamp: testBase.Add(8 * time.Hour), Symptom: "cough", Severity: intPtr(4)},
		{Timestamp: testBase.Add(16 * time.Hour), Symptom: "cough", Severity: intPtr(2)},
	}
	trends = AnalyzeSeverityTrends(improving)
	if len(trends) != 1 {
		t.Fatalf("expected 1 trend, got %d", len(trends))
	}
	if trends[0].Significance != "Positive trend - symptom improving" {
		t.Errorf("unexpected significance: %q", trends[0].Significance)
	}
}
