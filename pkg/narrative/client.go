// Package narrative calls an OpenRouter-compatible chat completion API to
// produce the free-text clinical reading of a symptom timeline. The rule-based
// engine works without it; a failed or absent narrative only degrades the
// ai_analysis portion of the report.
package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/medtrail/symptom-timeline/pkg/timeline"
)

const (
	defaultMaxTokens   = 2000
	defaultTemperature = 0.3

	systemMessage = "You are a specialized medical AI assistant. Provide accurate, evidence-based analysis while emphasizing the need for professional medical consultation."
)

// Config holds the narrative API settings
type Config struct {
	BaseURL      string
	APIKey       string
	Model        string
	BackupModels []string
	Timeout      time.Duration
}

// Client talks to the chat completion endpoint. It implements
// timeline.NarrativeAnalyzer.
type Client struct {
	http   *resty.Client
	cfg    Config
	logger *slog.Logger
}

// NewClient creates a narrative client
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+cfg.APIKey).
		SetTimeout(cfg.Timeout)

	return &Client{http: c, cfg: cfg, logger: logger}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// timelineAnalysis is the combined narrative payload: the model's insights
// alongside the rule-based progression and trajectory summaries, so the field
// stays useful even when the model returns thin output.
type timelineAnalysis struct {
	TimelineSummary     string             `json:"timeline_summary"`
	IdentifiedPatterns  []timeline.Pattern `json:"identified_patterns"`
	AIInsights          map[string]any     `json:"ai_insights"`
	ProgressionAnalysis map[string]any     `json:"progression_analysis"`
	RiskTrajectory      map[string]any     `json:"risk_trajectory"`
	Recommendations     any                `json:"recommendations"`
}

// AnalyzeTimeline produces the narrative analysis payload for a sorted
// timeline. It returns an error when every configured model fails, leaving
// the fallback decision to the caller.
func (c *Client) AnalyzeTimeline(ctx context.Context, sorted timeline.Timeline, currentSymptoms map[string]any) (json.RawMessage, error) {
	if len(sorted) == 0 {
		return json.RawMessage(`{"message":"No timeline data available"}`), nil
	}

	patterns := timeline.SummarizePatterns(sorted)
	prompt := buildPrompt(buildContext(sorted, currentSymptoms), patterns)

	completion, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	insights, err := parseInsights(completion)
	if err != nil {
		return nil, err
	}

	summary, _ := insights["summary"].(string)
	if summary == "" {
		summary = "Timeline analysis completed"
	}
	recommendations := insights["recommendations"]
	if recommendations == nil {
		recommendations = []any{}
	}

	payload, err := json.Marshal(timelineAnalysis{
		TimelineSummary:     summary,
		IdentifiedPatterns:  patterns,
		AIInsights:          insights,
		ProgressionAnalysis: analyzeProgression(sorted),
		RiskTrajectory:      riskTrajectory(sorted),
		Recommendations:     recommendations,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal narrative payload: %w", err)
	}
	return payload, nil
}

// complete tries the primary model, then each backup model once
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	models := append([]string{c.cfg.Model}, c.cfg.BackupModels...)

	var lastErr error
	for _, model := range models {
		completion, err := c.callModel(ctx, model, prompt)
		if err == nil {
			return completion, nil
		}
		c.logger.Warn("narrative model failed", "model", model, "error", err)
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("all narrative models failed: %w", lastErr)
}

func (c *Client) callModel(ctx context.Context, model, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemMessage},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&reqBody).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("chat completion status %d: %s", resp.StatusCode(), resp.String())
	}

	var cr chatResponse
	if err := json.Unmarshal(resp.Body(), &cr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}
	return strings.TrimSpace(cr.Choices[0].Message.Content), nil
}

// parseInsights decodes the model's JSON, tolerating markdown code fences
func parseInsights(completion string) (map[string]any, error) {
	cleaned := strings.TrimSpace(completion)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var insights map[string]any
	if err := json.Unmarshal([]byte(cleaned), &insights); err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}
	return insights, nil
}

func buildContext(sorted timeline.Timeline, currentSymptoms map[string]any) string {
	var parts []string

	parts = append(parts, "SYMPTOM TIMELINE:")
	for _, entry := range sorted {
		line := fmt.Sprintf("- %s: %s", entry.Timestamp.Format("2006-01-02 15:04"), entry.Symptom)
		if entry.Location != "" {
			line += fmt.Sprintf(" at %s", entry.Location)
		}
		if entry.Severity != nil {
			line += fmt.Sprintf(" (severity: %d/10)", *entry.Severity)
		}
		parts = append(parts, line)
	}

	if len(currentSymptoms) > 0 {
		state, _ := json.Marshal(currentSymptoms)
		parts = append(parts, "\nCURRENT SYMPTOM STATE:", string(state))
	}

	if len(sorted) > 1 {
		duration := sorted[len(sorted)-1].Timestamp.Sub(sorted[0].Timestamp)
		parts = append(parts, fmt.Sprintf("\nTIMELINE DURATION: %s", duration))
	}

	return strings.Join(parts, "\n")
}

func buildPrompt(context string, patterns []timeline.Pattern) string {
	lines := make([]string, 0, len(patterns))
	for _, p := range patterns {
		lines = append(lines, fmt.Sprintf("- %s: %s", p.PatternType, p.Description))
	}
	patternSummary := strings.Join(lines, "\n")

	return fmt.Sprintf(`You are a medical AI specialist analyzing symptom timeline patterns. Analyze the progression and identify clinically significant patterns:

%s

IDENTIFIED PATTERNS:
%s

Provide comprehensive timeline analysis in JSON format:
{
    "summary": "Overall timeline assessment",
    "clinical_significance": "What this timeline pattern suggests",
    "progression_type": "acute|subacute|chronic|intermittent",
    "concerning_trends": ["specific worrying patterns"],
    "timeline_insights": [
        {
            "insight": "specific observation",
            "clinical_relevance": "why this matters medically",
            "urgency": "low|moderate|high"
        }
    ],
    "recommendations": [
        {
            "action": "specific recommendation",
            "timing": "when to act",
            "reasoning": "why this is recommended"
        }
    ],
    "differential_considerations": ["conditions suggested by timeline"],
    "red_flags": ["timeline patterns requiring urgent attention"],
    "confidence": 85
}

Focus on:
1. Symptom progression patterns
2. Time relationships between symptoms
3. Severity trends over time
4. Clinical significance of timing
5. Urgency of medical evaluation needed`, context, patternSummary)
}

// analyzeProgression summarizes severity direction and pacing across the
// whole timeline
func analyzeProgression(sorted timeline.Timeline) map[string]any {
	if len(sorted) < 2 {
		return map[string]any{"progression": "insufficient_data"}
	}

	var severities []int
	for _, e := range sorted {
		if e.Severity != nil {
			severities = append(severities, *e.Severity)
		}
	}

	trend := "unknown"
	if len(severities) >= 2 {
		switch {
		case severities[len(severities)-1] > severities[0]:
			trend = "worsening"
		case severities[len(severities)-1] < severities[0]:
			trend = "improving"
		default:
			trend = "stable"
		}
	}

	var intervals []float64
	for i := 1; i < len(sorted); i++ {
		intervals = append(intervals, sorted[i].Timestamp.Sub(sorted[i-1].Timestamp).Hours())
	}
	avgInterval := 0.0
	for _, iv := range intervals {
		avgInterval += iv
	}
	if len(intervals) > 0 {
		avgInterval /= float64(len(intervals))
	}

	result := map[string]any{
		"progression":            trend,
		"average_interval_hours": avgInterval,
		"total_duration_hours":   sorted[len(sorted)-1].Timestamp.Sub(sorted[0].Timestamp).Hours(),
	}
	if len(severities) > 0 {
		minSev, maxSev := severities[0], severities[0]
		for _, s := range severities[1:] {
			if s < minSev {
				minSev = s
			}
			if s > maxSev {
				maxSev = s
			}
		}
		result["severity_range"] = []int{minSev, maxSev}
	}
	return result
}

// riskTrajectory estimates current risk from recent severity and event pacing
func riskTrajectory(sorted timeline.Timeline) map[string]any {
	if len(sorted) == 0 {
		return map[string]any{"risk_trend": "unknown", "current_risk": "moderate"}
	}

	recent := sorted
	if len(sorted) >= 3 {
		recent = sorted[len(sorted)-3:]
	}
	sum, count := 0, 0
	for _, e := range recent {
		if e.Severity != nil {
			sum += *e.Severity
			count++
		}
	}
	avgRecent := 5.0
	if count > 0 {
		avgRecent = float64(sum) / float64(count)
	}

	rapidChanges := 0
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Timestamp.Sub(sorted[i-1].Timestamp) < time.Hour {
			rapidChanges++
		}
	}

	risk := "low"
	switch {
	case avgRecent >= 8 || rapidChanges >= 3:
		risk = "high"
	case avgRecent >= 6 || rapidChanges >= 2:
		risk = "moderate"
	}

	trend := "stable"
	if rapidChanges >= 2 {
		trend = "increasing"
	}

	return map[string]any{
		"current_risk":            risk,
		"risk_trend":              trend,
		"rapid_changes_count":     rapidChanges,
		"average_recent_severity": avgRecent,
	}
}
