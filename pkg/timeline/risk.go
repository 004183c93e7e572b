package timeline

import "fmt"

// Risk score contributions and level thresholds. These mirror the established
// scoring contract; changing them changes the observable risk output.
const (
	riskCriticalEmergency = 40
	riskHighEmergency     = 25
	riskHighRapidOnset    = 20
	riskModRapidOnset     = 10
	riskPerWorseningTrend = 5
	riskRecentSevere      = 15
	riskRecentModerate    = 8

	riskLevelCritical = 50
	riskLevelHigh     = 30
	riskLevelModerate = 15

	recentEntryCount = 5
)

// AssessRisk combines detector outputs into a single weighted-rule score.
// Rules are evaluated in a fixed order and each triggered rule appends one
// reason to RiskFactors; that ordering is part of the output contract.
func AssessRisk(
	sorted Timeline,
	rapidOnset []RapidOnsetPattern,
	trends []SeverityTrend,
	emergencies []EmergencyPattern,
) RiskAssessment {
	score := 0
	riskFactors := []string{}

	for _, pattern := range emergencies {
		switch pattern.Urgency {
		case "critical":
			score += riskCriticalEmergency
			riskFactors = append(riskFactors, "Critical emergency patterns detected")
		case "high":
			score += riskHighEmergency
			riskFactors = append(riskFactors, "High-urgency patterns detected")
		}
	}

	for _, pattern := range rapidOnset {
		if pattern.UrgencyLevel == "high" {
			score += riskHighRapidOnset
			riskFactors = append(riskFactors, "Rapid onset of multiple symptoms")
		} else {
			score += riskModRapidOnset
			riskFactors = append(riskFactors, "Moderate rapid onset pattern")
		}
	}

	worsening := 0
	for _, trend := range trends {
		if trend.TrendDirection == "increasing" {
			worsening++
		}
	}
	if worsening > 0 {
		score += worsening * riskPerWorseningTrend
		riskFactors = append(riskFactors, fmt.Sprintf("%d worsening symptom trends", worsening))
	}

	if maxRecent, ok := maxRecentSeverity(sorted); ok {
		if maxRecent >= 8 {
			score += riskRecentSevere
			riskFactors = append(riskFactors, "Recent severe symptoms (8+/10)")
		} else if maxRecent >= 6 {
			score += riskRecentModerate
			riskFactors = append(riskFactors, "Recent moderate-severe symptoms (6-7/10)")
		}
	}

	capped := score
	if capped > 100 {
		capped = 100
	}

	return RiskAssessment{
		RiskLevel:                      riskLevelFor(score),
		RiskScore:                      capped,
		RiskFactors:                    riskFactors,
		ImmediateAttentionRequired:     score >= riskLevelHigh,
		EmergencyEvaluationRecommended: score >= riskLevelCritical,
	}
}

// maxRecentSeverity returns the maximum severity among the most recent
// up-to-5 severity-bearing entries; ok is false when none carry a severity.
func maxRecentSeverity(sorted Timeline) (int, bool) {
	start := len(sorted) - recentEntryCount
	if start < 0 {
		start = 0
	}
	maxSeverity := 0
	found := false
	for _, e := range sorted[start:] {
		if e.Severity == nil {
			continue
		}
		if !found || *e.Severity > maxSeverity {
			maxSeverity = *e.Severity
		}
		found = true
	}
	return maxSeverity, found
}

func riskLevelFor(score int) string {
	switch {
	case score >= riskLevelCritical:
		return "critical"
	case score >= riskLevelHigh:
		return "high"
	case score >= riskLevelModerate:
		return "moderate"
	default:
		return "low"
	}
}
