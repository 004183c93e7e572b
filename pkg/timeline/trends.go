package timeline

import "math"

const (
	trendMinPoints   = 3
	stableSlopeBound = 0.1 // severity units per hour
)

// AnalyzeSeverityTrends groups severity-bearing entries by normalized symptom
// label and fits an ordinary least-squares line of severity over elapsed
// hours for every group with at least three points.
func AnalyzeSeverityTrends(sorted Timeline) []SeverityTrend {
	groups := make(map[string]Timeline)
	var order []string
	for _, e := range sorted {
		if e.Severity == nil {
			continue
		}
		key := e.NormalizedSymptom()
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], e)
	}

	var trends []SeverityTrend
	for _, symptom := range order {
		entries := groups[symptom]
		if len(entries) < trendMinPoints {
			continue
		}

		hours := make([]float64, len(entries))
		severities := make([]float64, len(entries))
		for i, e := range entries {
			hours[i] = e.Timestamp.Sub(entries[0].Timestamp).Hours()
			severities[i] = float64(*e.Severity)
		}

		slope := linearSlope(hours, severities)

		direction := "stable"
		if math.Abs(slope) >= stableSlopeBound {
			if slope > 0 {
				direction = "increasing"
			} else {
				direction = "decreasing"
			}
		}

		trends = append(trends, SeverityTrend{
			Symptom:                symptom,
			TrendDirection:         direction,
			Slope:                  slope,
			CorrelationCoefficient: pearsonCorrelation(hours, severities),
			Significance:           trendSignificance(direction, slope, severities),
		})
	}

	return trends
}

func trendSignificance(direction string, slope float64, severities []float64) string {
	maxSeverity := severities[0]
	for _, s := range severities[1:] {
		if s > maxSeverity {
			maxSeverity = s
		}
	}

	switch {
	case direction == "increasing" && maxSeverity >= 7:
		return "High significance - worsening severe symptom requires immediate attention"
	case direction == "increasing" && math.Abs(slope) > 1:
		return "Moderate-high significance - rapid worsening trend"
	case direction == "decreasing":
		return "Positive trend - symptom improving"
	default:
		return "Monitor for changes"
	}
}
