package timeline

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// Entry represents a single reported symptom observation
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Symptom   string    `json:"symptom"`
	Severity  *int      `json:"severity,omitempty"` // 1-10 scale
	Location  string    `json:"location,omitempty"`
	Quality   string    `json:"quality,omitempty"`
	Duration  string    `json:"duration,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

// Timeline is a list of symptom entries
type Timeline []Entry

// SortedByTime returns a copy of the timeline sorted by timestamp.
// The sort is stable: entries with equal timestamps keep their input order.
func (t Timeline) SortedByTime() Timeline {
	sorted := make(Timeline, len(t))
	copy(sorted, t)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}

// NormalizedSymptom returns the lower-cased symptom label used as grouping key
func (e Entry) NormalizedSymptom() string {
	return strings.ToLower(e.Symptom)
}

// RapidOnsetPattern describes multiple symptoms appearing within a one-hour window
type RapidOnsetPattern struct {
	Type                 string    `json:"type"` // "rapid_onset"
	SymptomCount         int       `json:"symptom_count"`
	TimeframeMinutes     int       `json:"timeframe_minutes"`
	Symptoms             []string  `json:"symptoms"`
	AverageSeverity      *float64  `json:"average_severity"`
	EmergencySymptoms    []string  `json:"emergency_symptoms"`
	ClinicalSignificance string    `json:"clinical_significance"`
	UrgencyLevel         string    `json:"urgency_level"` // "high" or "moderate"
	StartTime            time.Time `json:"start_time"`
	EndTime              time.Time `json:"end_time"`
}

// SeverityTrend is a per-symptom slope estimate over elapsed hours
type SeverityTrend struct {
	Symptom                string  `json:"symptom"`
	TrendDirection         string  `json:"trend_direction"` // increasing, decreasing, stable
	Slope                  float64 `json:"slope"`           // severity units per hour
	CorrelationCoefficient float64 `json:"correlation_coefficient"`
	Significance           string  `json:"significance"`
}

// CyclicalPattern describes a symptom recurring at approximately regular intervals
type CyclicalPattern struct {
	Type                 string  `json:"type"` // "cyclical"
	Symptom              string  `json:"symptom"`
	OccurrenceCount      int     `json:"occurrence_count"`
	AverageIntervalHours float64 `json:"average_interval_hours"`
	IntervalVariance     float64 `json:"interval_variance"`
	PatternConsistency   string  `json:"pattern_consistency"` // "high" or "moderate"
	ClinicalSignificance string  `json:"clinical_significance"`
}

// SymptomCluster is a group of distinct symptoms co-occurring within a window
type SymptomCluster struct {
	Symptoms             []string  `json:"symptoms"`
	StartTime            time.Time `json:"start_time"`
	EndTime              time.Time `json:"end_time"`
	Frequency            int       `json:"frequency"`
	ClinicalSignificance string    `json:"clinical_significance"`
}

// TemporalAssociation records one symptom consistently following another
type TemporalAssociation struct {
	Type              string  `json:"type"`         // "temporal_association"
	SymptomPair       string  `json:"symptom_pair"` // "a -> b"
	OccurrenceCount   int     `json:"occurrence_count"`
	AverageDelayHours float64 `json:"average_delay_hours"`
	TimingConsistency float64 `json:"timing_consistency"`
	ClinicalRelevance string  `json:"clinical_relevance"`
}

// EmergencyPattern flags a timeline shape suggesting an emergency condition.
// Fields are populated per pattern type: rapid_escalation fills the severity
// and timeframe fields, emergency_symptom_cluster the count fields.
type EmergencyPattern struct {
	Type                  string   `json:"type"` // "rapid_escalation" or "emergency_symptom_cluster"
	SeverityIncrease      int      `json:"severity_increase,omitempty"`
	TimeframeHours        float64  `json:"timeframe_hours,omitempty"`
	Symptoms              []string `json:"symptoms,omitempty"`
	EmergencySymptomCount int      `json:"emergency_symptom_count,omitempty"`
	EmergencySymptoms     []string `json:"emergency_symptoms,omitempty"`
	Urgency               string   `json:"urgency"` // "high" or "critical"
	Recommendation        string   `json:"recommendation"`
}

// RiskAssessment is the aggregate verdict over all detected patterns
type RiskAssessment struct {
	RiskLevel                      string   `json:"risk_level"` // low, moderate, high, critical, unknown
	RiskScore                      int      `json:"risk_score"` // 0-100
	RiskFactors                    []string `json:"risk_factors"`
	ImmediateAttentionRequired     bool     `json:"immediate_attention_required"`
	EmergencyEvaluationRecommended bool     `json:"emergency_evaluation_recommended"`
}

// Recommendation is one prioritized action derived from the detected patterns
type Recommendation struct {
	Category  string `json:"category"` // emergency, urgent, monitoring, follow_up, documentation
	Action    string `json:"action"`
	Priority  string `json:"priority"` // critical, high, medium, low
	Timeline  string `json:"timeline"`
	Reasoning string `json:"reasoning"`
}

// Pattern is the generic pattern summary fed to the narrative collaborator
type Pattern struct {
	PatternType   string     `json:"pattern_type"`
	Description   string     `json:"description"`
	Significance  string     `json:"significance"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	SeverityTrend string     `json:"severity_trend,omitempty"` // improving, worsening, stable
	Confidence    float64    `json:"confidence"`
}

// DateRange spans the first and last entry of a sorted timeline
type DateRange struct {
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	DurationHours float64   `json:"duration_hours"`
}

// Metadata summarizes the analyzed timeline
type Metadata struct {
	TotalEntries   int        `json:"total_entries"`
	DateRange      *DateRange `json:"date_range"`
	UniqueSymptoms int        `json:"unique_symptoms"`
}

// PatternAnalysis groups all detector outputs
type PatternAnalysis struct {
	RapidOnset           []RapidOnsetPattern   `json:"rapid_onset"`
	SeverityTrends       []SeverityTrend       `json:"severity_trends"`
	CyclicalPatterns     []CyclicalPattern     `json:"cyclical_patterns"`
	SymptomClusters      []SymptomCluster      `json:"symptom_clusters"`
	TemporalAssociations []TemporalAssociation `json:"temporal_associations"`
	EmergencyIndicators  []EmergencyPattern    `json:"emergency_indicators"`
}

// Report is the single comprehensive output of one analysis call
type Report struct {
	Metadata        Metadata         `json:"timeline_metadata"`
	Patterns        PatternAnalysis  `json:"pattern_analysis"`
	Narrative       json.RawMessage  `json:"ai_analysis,omitempty"`
	Risk            RiskAssessment   `json:"risk_assessment"`
	Recommendations []Recommendation `json:"clinical_recommendations"`
}
