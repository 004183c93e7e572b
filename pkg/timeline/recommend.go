package timeline

import "fmt"

// GenerateRecommendations maps detected patterns and the risk verdict to a
// prioritized action list. Rules fire in a fixed sequence; the documentation
// entry is always appended last.
func GenerateRecommendations(
	rapidOnset []RapidOnsetPattern,
	trends []SeverityTrend,
	cyclical []CyclicalPattern,
	emergencies []EmergencyPattern,
	risk RiskAssessment,
) []Recommendation {
	var recommendations []Recommendation

	if len(emergencies) > 0 {
		recommendations = append(recommendations, Recommendation{
			Category:  "emergency",
			Action:    "Seek immediate emergency medical attention",
			Priority:  "critical",
			Timeline:  "Immediately",
			Reasoning: "Emergency patterns detected in symptom timeline",
		})
	}

	if len(rapidOnset) > 0 && len(emergencies) == 0 {
		recommendations = append(recommendations, Recommendation{
			Category:  "urgent",
			Action:    "Urgent medical evaluation recommended",
			Priority:  "high",
			Timeline:  "Within 2-4 hours",
			Reasoning: "Rapid onset of multiple symptoms requires prompt assessment",
		})
	}

	worsening := 0
	for _, trend := range trends {
		if trend.TrendDirection == "increasing" {
			worsening++
		}
	}
	if worsening > 0 && (risk.RiskLevel == "moderate" || risk.RiskLevel == "high") {
		recommendations = append(recommendations, Recommendation{
			Category:  "monitoring",
			Action:    "Close monitoring and medical follow-up for worsening symptoms",
			Priority:  "high",
			Timeline:  "Within 24 hours",
			Reasoning: fmt.Sprintf("Worsening trends detected in %d symptoms", worsening),
		})
	}

	if len(cyclical) > 0 {
		recommendations = append(recommendations, Recommendation{
			Category:  "follow_up",
			Action:    "Discuss recurring symptom patterns with healthcare provider",
			Priority:  "medium",
			Timeline:  "At next appointment",
			Reasoning: "Cyclical patterns may indicate underlying condition requiring management",
		})
	}

	recommendations = append(recommendations, Recommendation{
		Category:  "documentation",
		Action:    "Continue detailed symptom tracking with timestamps",
		Priority:  "medium",
		Timeline:  "Ongoing",
		Reasoning: "Timeline data provides valuable clinical information",
	})

	return recommendations
}
