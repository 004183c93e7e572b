package timeline

const (
	cyclicalMinOccurrences = 3
	cyclicalMinIntervals   = 2
)

// DetectCyclicalPatterns finds symptoms recurring at roughly regular
// intervals: a symptom is cyclical when the sample variance of its
// inter-occurrence intervals stays below half the mean interval.
func DetectCyclicalPatterns(sorted Timeline) []CyclicalPattern {
	occurrences := make(map[string]Timeline)
	var order []string
	for _, e := range sorted {
		key := e.NormalizedSymptom()
		if _, seen := occurrences[key]; !seen {
			order = append(order, key)
		}
		occurrences[key] = append(occurrences[key], e)
	}

	var patterns []CyclicalPattern
	for _, symptom := range order {
		entries := occurrences[symptom]
		if len(entries) < cyclicalMinOccurrences {
			continue
		}

		intervals := make([]float64, 0, len(entries)-1)
		for i := 1; i < len(entries); i++ {
			intervals = append(intervals, entries[i].Timestamp.Sub(entries[i-1].Timestamp).Hours())
		}
		if len(intervals) < cyclicalMinIntervals {
			continue
		}

		avgInterval := meanValues(intervals)
		variance := sampleVariance(intervals)

		if variance >= avgInterval*0.5 {
			continue
		}

		consistency := "moderate"
		if variance < avgInterval*0.3 {
			consistency = "high"
		}

		patterns = append(patterns, CyclicalPattern{
			Type:                 "cyclical",
			Symptom:              symptom,
			OccurrenceCount:      len(entries),
			AverageIntervalHours: avgInterval,
			IntervalVariance:     variance,
			PatternConsistency:   consistency,
			ClinicalSignificance: cyclicalSignificance(avgInterval, len(entries)),
		})
	}

	return patterns
}

func cyclicalSignificance(intervalHours float64, occurrences int) string {
	switch {
	case intervalHours < 24 && occurrences >= 4:
		return "High significance - frequent recurring pattern may indicate acute condition"
	case intervalHours >= 24 && intervalHours <= 168: // daily to weekly
		return "Moderate significance - regular pattern suggests systematic evaluation needed"
	default:
		return "Low-moderate significance - document pattern for healthcare provider"
	}
}
