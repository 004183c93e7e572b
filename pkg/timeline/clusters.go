package timeline

import "time"

const (
	clusterWindow        = 4 * time.Hour
	clusterMinSymptoms   = 2
	clusterMinRecurrence = 2
	clusterOverlapRatio  = 0.8
)

// IdentifySymptomClusters finds groups of distinct symptoms co-occurring
// within a four-hour forward window, keeping only clusters whose symptom set
// (at 80% overlap) recurs at least twice across the whole timeline. Windows
// are scanned independently, so overlapping clusters are reported as-is.
func IdentifySymptomClusters(sorted Timeline, rules RuleSet) []SymptomCluster {
	var clusters []SymptomCluster

	for i := range sorted {
		symptoms := []string{sorted[i].Symptom}
		start := sorted[i].Timestamp
		end := sorted[i].Timestamp

		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].Timestamp.Sub(sorted[i].Timestamp) > clusterWindow {
				break
			}
			if !containsString(symptoms, sorted[j].Symptom) {
				symptoms = append(symptoms, sorted[j].Symptom)
				end = sorted[j].Timestamp
			}
		}

		if len(symptoms) < clusterMinSymptoms {
			continue
		}

		frequency := countClusterRecurrence(sorted, symptoms, clusterWindow)
		if frequency < clusterMinRecurrence {
			continue
		}

		clusters = append(clusters, SymptomCluster{
			Symptoms:             symptoms,
			StartTime:            start,
			EndTime:              end,
			Frequency:            frequency,
			ClinicalSignificance: clusterSignificance(symptoms, rules),
		})
	}

	return clusters
}

// countClusterRecurrence counts windows across the timeline containing at
// least 80% of the cluster's symptom set
func countClusterRecurrence(sorted Timeline, clusterSymptoms []string, window time.Duration) int {
	frequency := 0
	required := float64(len(clusterSymptoms)) * clusterOverlapRatio

	for i := range sorted {
		found := make(map[string]struct{})
		for j := i; j < len(sorted); j++ {
			if sorted[j].Timestamp.Sub(sorted[i].Timestamp) > window {
				break
			}
			if containsString(clusterSymptoms, sorted[j].Symptom) {
				found[sorted[j].Symptom] = struct{}{}
			}
		}
		if float64(len(found)) >= required {
			frequency++
		}
	}

	return frequency
}

func clusterSignificance(symptoms []string, rules RuleSet) string {
	if countCategoryMatches(symptoms, rules.Category("cardiovascular")) >= 2 {
		return "High significance - cardiovascular symptom cluster requires prompt evaluation"
	}
	if countCategoryMatches(symptoms, rules.Category("neurological")) >= 2 {
		return "High significance - neurological symptom cluster requires prompt evaluation"
	}
	return "Moderate significance - symptom cluster pattern noted"
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
