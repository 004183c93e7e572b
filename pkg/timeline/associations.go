package timeline

import (
	"fmt"
	"time"
)

const (
	associationWindow         = 24 * time.Hour
	associationMinOccurrences = 2
	associationMinConsistency = 0.3
)

// FindTemporalAssociations finds ordered symptom pairs where the second
// symptom repeatedly occurs within 24 hours of the first, keeping pairs whose
// delay timing is reasonably consistent.
func FindTemporalAssociations(sorted Timeline) []TemporalAssociation {
	delays := make(map[string][]float64)
	var order []string

	for i := 0; i < len(sorted)-1; i++ {
		current := sorted[i].NormalizedSymptom()
		for j := i + 1; j < len(sorted); j++ {
			diff := sorted[j].Timestamp.Sub(sorted[i].Timestamp)
			if diff > associationWindow {
				break
			}
			next := sorted[j].NormalizedSymptom()
			if next == current {
				continue
			}
			pair := fmt.Sprintf("%s -> %s", current, next)
			if _, seen := delays[pair]; !seen {
				order = append(order, pair)
			}
			delays[pair] = append(delays[pair], diff.Hours())
		}
	}

	var associations []TemporalAssociation
	for _, pair := range order {
		pairDelays := delays[pair]
		if len(pairDelays) < associationMinOccurrences {
			continue
		}

		avgDelay := meanValues(pairDelays)
		consistency := 0.0
		if avgDelay > 0 {
			consistency = 1 - sampleStdDev(pairDelays)/avgDelay
		}
		if consistency <= associationMinConsistency {
			continue
		}

		associations = append(associations, TemporalAssociation{
			Type:              "temporal_association",
			SymptomPair:       pair,
			OccurrenceCount:   len(pairDelays),
			AverageDelayHours: avgDelay,
			TimingConsistency: consistency,
			ClinicalRelevance: associationRelevance(avgDelay),
		})
	}

	return associations
}

func associationRelevance(delayHours float64) string {
	switch {
	case delayHours < 1:
		return "High relevance - immediate symptom progression"
	case delayHours < 6:
		return "Moderate relevance - short-term symptom development"
	default:
		return "Low-moderate relevance - document pattern"
	}
}
