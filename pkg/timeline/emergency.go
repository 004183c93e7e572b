package timeline

import "time"

const (
	escalationMinIncrease = 4
	escalationWindow      = 2 * time.Hour
	emergencyClusterMin   = 2
)

// DetectEmergencyPatterns evaluates two independent rules: rapid severity
// escalation between adjacent entries, and accumulation of emergency-keyword
// symptoms anywhere in the timeline.
func DetectEmergencyPatterns(sorted Timeline, rules RuleSet) []EmergencyPattern {
	var patterns []EmergencyPattern

	// Rule 1: severity jumping >= 4 points within <= 2 hours
	for i := 0; i < len(sorted)-1; i++ {
		current, next := sorted[i], sorted[i+1]
		if current.Severity == nil || next.Severity == nil {
			continue
		}
		increase := *next.Severity - *current.Severity
		diff := next.Timestamp.Sub(current.Timestamp)
		if increase >= escalationMinIncrease && diff <= escalationWindow {
			patterns = append(patterns, EmergencyPattern{
				Type:             "rapid_escalation",
				SeverityIncrease: increase,
				TimeframeHours:   diff.Hours(),
				Symptoms:         []string{current.Symptom, next.Symptom},
				Urgency:          "high",
				Recommendation:   "Immediate medical evaluation required",
			})
		}
	}

	// Rule 2: two or more emergency-keyword symptoms anywhere in the timeline
	var emergencySymptoms []string
	for _, e := range sorted {
		if rules.IsEmergencySymptom(e.Symptom) {
			emergencySymptoms = append(emergencySymptoms, e.Symptom)
		}
	}
	if len(emergencySymptoms) >= emergencyClusterMin {
		patterns = append(patterns, EmergencyPattern{
			Type:                  "emergency_symptom_cluster",
			EmergencySymptomCount: len(emergencySymptoms),
			EmergencySymptoms:     emergencySymptoms,
			Urgency:               "critical",
			Recommendation:        "Emergency medical attention required immediately",
		})
	}

	return patterns
}
