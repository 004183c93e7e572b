package timeline

import (
	"testing"
	"time"
)

func TestSummarizePatterns(t *testing.T) {
	t.Run("too few entries", func(t *testing.T) {
		got := SummarizePatterns(Timeline{{Timestamp: testBase, Symptom: "cough"}})
		if len(got) != 0 {
			t.Errorf("expected no patterns, got %d", len(got))
		}
	})

	t.Run("rapid onset span", func(t *testing.T) {
		entries := Timeline{
			{Timestamp: testBase, Symptom: "fever"},
			{Timestamp: testBase.Add(30 * time.Minute), Symptom: "chills"},
			{Timestamp: testBase.Add(50 * time.Minute), Symptom: "headache"},
			{Timestamp: testBase.Add(30 * time.Hour), Symptom: "fatigue"},
		}

		got := SummarizePatterns(entries)
		if len(got) != 1 {
			t.Fatalf("expected 1 pattern, got %d", len(got))
		}
		p := got[0]
		if p.PatternType != "rapid_onset" {
			t.Errorf("expected rapid_onset, got %q", p.PatternType)
		}
		if !p.StartTime.Equal(testBase) {
			t.Errorf("unexpected start time %v", p.StartTime)
		}
		if p.EndTime == nil || !p.EndTime.Equal(testBase.Add(50*time.Minute)) {
			t.Errorf("unexpected end time %v", p.EndTime)
		}
		if p.Confidence != 0.8 {
			t.Errorf("expected confidence 0.8, got %v", p.Confidence)
		}
	})

	t.Run("progressive worsening", func(t *testing.T) {
		// Severities 3, 5, 6, 8 spread over days: every successive reading
		// rises, entries too far apart for an onset span
		entries := Timeline{
			{Timestamp: testBase, Symptom: "back pain", Severity: intPtr(3)},
			{Timestamp: testBase.Add(24 * time.Hour), Symptom: "back pain", Severity: intPtr(5)},
			{Timestamp: testBase.Add(48 * time.Hour), Symptom: "back pain", Severity: intPtr(6)},
			{Timestamp: testBase.Add(72 * time.Hour), Symptom: "back pain", Severity: intPtr(8)},
		}

		got := SummarizePatterns(entries)

		var worsening *Pattern
		for i := range got {
			if got[i].PatternType == "progressive_worsening" {
				worsening = &got[i]
			}
		}
		if worsening == nil {
			t.Fatalf("expected a progressive_worsening pattern in %+v", got)
		}
		if worsening.SeverityTrend != "worsening" {
			t.Errorf("expected worsening trend, got %q", worsening.SeverityTrend)
		}
		if worsening.Confidence != 0.9 {
			t.Errorf("expected confidence 0.9, got %v", worsening.Confidence)
		}
	})

	t.Run("fluctuating severities yield no worsening verdict", func(t *testing.T) {
		entries := Timeline{
			{Timestamp: testBase, Symptom: "back pain", Severity: intPtr(5)},
			{Timestamp: testBase.Add(24 * time.Hour), Symptom: "back pain", Severity: intPtr(3)},
			{Timestamp: testBase.Add(48 * time.Hour), Symptom: "back pain", Severity: intPtr(6)},
			{Timestamp: testBase.Add(72 * time.Hour), Symptom: "back pain", Severity: intPtr(4)},
		}

		for _, p := range SummarizePatterns(entries) {
			if p.PatternType == "progressive_worsening" {
				t.Errorf("unexpected worsening pattern: %+v", p)
			}
		}
	})

	t.Run("recurring symptoms digest", func(t *testing.T) {
		entries := Timeline{
			{Timestamp: testBase, Symptom: "migraine"},
			{Timestamp: testBase.Add(24 * time.Hour), Symptom: "migraine"},
			{Timestamp: testBase.Add(48 * time.Hour), Symptom: "nausea"},
			{Timestamp: testBase.Add(72 * time.Hour), Symptom: "migraine"},
		}

		got := SummarizePatterns(entries)
		if len(got) != 1 {
			t.Fatalf("expected 1 pattern, got %d: %+v", len(got), got)
		}
		p := got[0]
		if p.PatternType != "cyclical_pattern" {
			t.Errorf("expected cyclical_pattern, got %q", p.PatternType)
		}
		if p.Description != "Recurring symptoms: migraine" {
			t.Errorf("unexpected description %q", p.Description)
		}
	})
}
