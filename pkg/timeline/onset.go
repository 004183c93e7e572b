package timeline

import "time"

const (
	rapidOnsetWindow     = time.Hour
	rapidOnsetMinEntries = 3
)

// DetectRapidOnset finds groups of three or more entries within a one-hour
// forward window of each entry. Windows are evaluated independently, so dense
// timelines yield multiple overlapping patterns; that is the contract, not a
// bug to deduplicate.
func DetectRapidOnset(sorted Timeline, rules RuleSet) []RapidOnsetPattern {
	var patterns []RapidOnsetPattern

	for i := range sorted {
		group := Timeline{sorted[i]}
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].Timestamp.Sub(sorted[i].Timestamp) > rapidOnsetWindow {
				break
			}
			group = append(group, sorted[j])
		}

		if len(group) < rapidOnsetMinEntries {
			continue
		}

		var severities []float64
		for _, e := range group {
			if e.Severity != nil {
				severities = append(severities, float64(*e.Severity))
			}
		}
		var avgSeverity *float64
		if len(severities) > 0 {
			avg := meanValues(severities)
			avgSeverity = &avg
		}

		emergencySymptoms := []string{}
		for _, e := range group {
			if rules.IsEmergencySymptom(e.Symptom) {
				emergencySymptoms = append(emergencySymptoms, e.Symptom)
			}
		}

		symptoms := make([]string, len(group))
		for k, e := range group {
			symptoms[k] = e.Symptom
		}

		urgency := "moderate"
		if len(emergencySymptoms) > 0 || (avgSeverity != nil && *avgSeverity >= 7) {
			urgency = "high"
		}

		start := group[0].Timestamp
		end := group[len(group)-1].Timestamp

		patterns = append(patterns, RapidOnsetPattern{
			Type:                 "rapid_onset",
			SymptomCount:         len(group),
			TimeframeMinutes:     int(end.Sub(start).Minutes()),
			Symptoms:             symptoms,
			AverageSeverity:      avgSeverity,
			EmergencySymptoms:    emergencySymptoms,
			ClinicalSignificance: rapidOnsetSignificance(len(group), emergencySymptoms),
			UrgencyLevel:         urgency,
			StartTime:            start,
			EndTime:              end,
		})
	}

	return patterns
}

func rapidOnsetSignificance(groupSize int, emergencySymptoms []string) string {
	switch {
	case len(emergencySymptoms) > 0:
		return "High clinical significance - emergency evaluation required"
	case groupSize >= 5:
		return "Moderate-high significance - urgent evaluation recommended"
	default:
		return "Moderate significance - medical evaluation advised"
	}
}
