package timeline

import (
	"context"
	"encoding/json"
	"log/slog"
)

// NarrativeAnalyzer is the optional external collaborator producing a
// free-text analysis of the timeline. The payload is opaque to the engine.
type NarrativeAnalyzer interface {
	AnalyzeTimeline(ctx context.Context, sorted Timeline, currentSymptoms map[string]any) (json.RawMessage, error)
}

// Analyzer orchestrates the detectors, risk aggregation, recommendations and
// the optional narrative collaborator into one comprehensive report.
type Analyzer struct {
	rules     RuleSet
	narrative NarrativeAnalyzer
	logger    *slog.Logger
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithRuleSet overrides the default keyword tables
func WithRuleSet(rules RuleSet) Option {
	return func(a *Analyzer) { a.rules = rules }
}

// WithNarrative attaches the external narrative collaborator
func WithNarrative(n NarrativeAnalyzer) Option {
	return func(a *Analyzer) { a.narrative = n }
}

// WithLogger sets the analyzer's logger
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = logger }
}

// NewAnalyzer creates an Analyzer with the default rule set
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		rules:  DefaultRuleSet(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Rules returns the analyzer's keyword tables
func (a *Analyzer) Rules() RuleSet {
	return a.rules
}

// Analyze runs the full pipeline over a possibly-unsorted timeline. An empty
// timeline yields a well-defined empty report, never an error. The narrative
// collaborator failing degrades only the ai_analysis field.
func (a *Analyzer) Analyze(ctx context.Context, entries Timeline, currentSymptoms map[string]any) Report {
	if len(entries) == 0 {
		return emptyReport()
	}

	sorted := entries.SortedByTime()

	report := a.AnalyzeDeterministic(sorted)
	report.Narrative = a.runNarrative(ctx, sorted, currentSymptoms)
	return report
}

// AnalyzeDeterministic runs the detectors, risk aggregator and recommendation
// generator over an already-sorted timeline, leaving the narrative field
// unset. Callers that obtain the narrative elsewhere merge it themselves.
func (a *Analyzer) AnalyzeDeterministic(sorted Timeline) Report {
	rapidOnset := DetectRapidOnset(sorted, a.rules)
	trends := AnalyzeSeverityTrends(sorted)
	cyclical := DetectCyclicalPatterns(sorted)
	clusters := IdentifySymptomClusters(sorted, a.rules)
	associations := FindTemporalAssociations(sorted)
	emergencies := DetectEmergencyPatterns(sorted, a.rules)

	risk := AssessRisk(sorted, rapidOnset, trends, emergencies)
	recommendations := GenerateRecommendations(rapidOnset, trends, cyclical, emergencies, risk)

	return Report{
		Metadata: buildMetadata(sorted),
		Patterns: PatternAnalysis{
			RapidOnset:           rapidOnset,
			SeverityTrends:       trends,
			CyclicalPatterns:     cyclical,
			SymptomClusters:      clusters,
			TemporalAssociations: associations,
			EmergencyIndicators:  emergencies,
		},
		Risk:            risk,
		Recommendations: recommendations,
	}
}

func (a *Analyzer) runNarrative(ctx context.Context, sorted Timeline, currentSymptoms map[string]any) json.RawMessage {
	if a.narrative == nil {
		return FallbackNarrative("narrative analysis not configured")
	}
	payload, err := a.narrative.AnalyzeTimeline(ctx, sorted, currentSymptoms)
	if err != nil {
		a.logger.Warn("narrative analysis failed, using fallback", "error", err)
		return FallbackNarrative(err.Error())
	}
	return payload
}

// FallbackNarrative builds the degraded-quality narrative payload recorded
// when the collaborator fails or is absent
func FallbackNarrative(message string) json.RawMessage {
	payload, _ := json.Marshal(struct {
		Fallback bool   `json:"fallback"`
		Error    string `json:"error"`
	}{Fallback: true, Error: message})
	return payload
}

func buildMetadata(sorted Timeline) Metadata {
	unique := make(map[string]struct{})
	for _, e := range sorted {
		unique[e.NormalizedSymptom()] = struct{}{}
	}

	start := sorted[0].Timestamp
	end := sorted[len(sorted)-1].Timestamp

	return Metadata{
		TotalEntries: len(sorted),
		DateRange: &DateRange{
			Start:         start,
			End:           end,
			DurationHours: end.Sub(start).Hours(),
		},
		UniqueSymptoms: len(unique),
	}
}

func emptyReport() Report {
	return Report{
		Metadata: Metadata{},
		Patterns: PatternAnalysis{
			RapidOnset:           []RapidOnsetPattern{},
			SeverityTrends:       []SeverityTrend{},
			CyclicalPatterns:     []CyclicalPattern{},
			SymptomClusters:      []SymptomCluster{},
			TemporalAssociations: []TemporalAssociation{},
			EmergencyIndicators:  []EmergencyPattern{},
		},
		Narrative: json.RawMessage(`{"message":"No timeline data available"}`),
		Risk: RiskAssessment{
			RiskLevel:   "unknown",
			RiskScore:   0,
			RiskFactors: []string{},
		},
		Recommendations: []Recommendation{
			{
				Category:  "documentation",
				Action:    "Begin symptom timeline tracking",
				Priority:  "low",
				Timeline:  "Ongoing",
				Reasoning: "Timeline data improves clinical assessment",
			},
		},
	}
}
