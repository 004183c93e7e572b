package timeline

import (
	"fmt"
	"strings"
	"time"
)

// SummarizePatterns produces the coarse rule-based pattern summary embedded
// in the narrative collaborator's prompt. It is intentionally rougher than
// the full detectors: adjacent-entry onset spans, a single progressive
// worsening verdict, and a recurring-symptom digest.
func SummarizePatterns(sorted Timeline) []Pattern {
	var patterns []Pattern

	if len(sorted) < 2 {
		return patterns
	}

	// Adjacent entries landing within an hour of each other
	var onsetStart, onsetEnd *time.Time
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Timestamp.Sub(sorted[i-1].Timestamp) <= time.Hour {
			if onsetStart == nil {
				onsetStart = &sorted[i-1].Timestamp
			}
			onsetEnd = &sorted[i].Timestamp
		}
	}
	if onsetStart != nil {
		patterns = append(patterns, Pattern{
			PatternType:  "rapid_onset",
			Description:  "Multiple symptoms appeared within 1 hour",
			Significance: "May indicate acute medical condition requiring urgent evaluation",
			StartTime:    *onsetStart,
			EndTime:      onsetEnd,
			Confidence:   0.8,
		})
	}

	// Progressive worsening: at least 70% of successive severity readings rise
	var severityTimes []time.Time
	var severities []int
	for _, e := range sorted {
		if e.Severity != nil {
			severityTimes = append(severityTimes, e.Timestamp)
			severities = append(severities, *e.Severity)
		}
	}
	if len(severities) >= 3 {
		increasing := 0
		for i := 1; i < len(severities); i++ {
			if severities[i] > severities[i-1] {
				increasing++
			}
		}
		if float64(increasing) >= float64(len(severities))*0.7 {
			end := severityTimes[len(severityTimes)-1]
			patterns = append(patterns, Pattern{
				PatternType:   "progressive_worsening",
				Description:   "Symptoms progressively worsening over time",
				Significance:  "Indicates condition may be deteriorating, requires medical attention",
				StartTime:     severityTimes[0],
				EndTime:       &end,
				SeverityTrend: "worsening",
				Confidence:    0.9,
			})
		}
	}

	// Symptoms recurring three or more times
	counts := make(map[string]int)
	var order []string
	for _, e := range sorted {
		if _, seen := counts[e.Symptom]; !seen {
			order = append(order, e.Symptom)
		}
		counts[e.Symptom]++
	}
	var recurring []string
	for _, symptom := range order {
		if counts[symptom] >= 3 {
			recurring = append(recurring, symptom)
		}
	}
	if len(recurring) > 0 {
		end := sorted[len(sorted)-1].Timestamp
		patterns = append(patterns, Pattern{
			PatternType:  "cyclical_pattern",
			Description:  fmt.Sprintf("Recurring symptoms: %s", strings.Join(recurring, ", ")),
			Significance: "May indicate chronic condition with flare-ups",
			StartTime:    sorted[0].Timestamp,
			EndTime:      &end,
			Confidence:   0.7,
		})
	}

	return patterns
}
