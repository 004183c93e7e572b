package timeline

import "strings"

// SymptomCategory is a named set of keywords for one body system
type SymptomCategory struct {
	Name     string
	Keywords []string
}

// RuleSet holds the keyword tables the detectors match against. Keeping them
// in one value keeps the rule thresholds auditable and testable in isolation.
type RuleSet struct {
	EmergencyKeywords []string
	Categories        []SymptomCategory
}

// DefaultRuleSet returns the built-in keyword tables
func DefaultRuleSet() RuleSet {
	return RuleSet{
		EmergencyKeywords: []string{
			"chest pain", "difficulty breathing", "shortness of breath",
			"severe headache", "loss of consciousness", "seizure",
			"severe bleeding", "severe abdominal pain", "stroke symptoms",
			"heart palpitations", "severe allergic reaction", "overdose",
			"suicidal thoughts", "severe dizziness", "fainting",
		},
		Categories: []SymptomCategory{
			{Name: "cardiovascular", Keywords: []string{"chest pain", "palpitations", "shortness of breath", "swelling", "fatigue"}},
			{Name: "neurological", Keywords: []string{"headache", "dizziness", "confusion", "memory loss", "seizure", "weakness"}},
			{Name: "gastrointestinal", Keywords: []string{"nausea", "vomiting", "diarrhea", "abdominal pain", "constipation"}},
			{Name: "respiratory", Keywords: []string{"cough", "shortness of breath", "wheezing", "chest tightness"}},
			{Name: "musculoskeletal", Keywords: []string{"joint pain", "muscle pain", "stiffness", "swelling"}},
			{Name: "psychological", Keywords: []string{"anxiety", "depression", "mood changes", "sleep problems"}},
		},
	}
}

// IsEmergencySymptom reports whether the symptom text contains any emergency keyword
func (r RuleSet) IsEmergencySymptom(symptom string) bool {
	lowered := strings.ToLower(symptom)
	for _, keyword := range r.EmergencyKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// Category returns the keyword set for a named category, or nil if absent
func (r RuleSet) Category(name string) []string {
	for _, c := range r.Categories {
		if c.Name == name {
			return c.Keywords
		}
	}
	return nil
}

// countCategoryMatches counts symptoms containing at least one category keyword
func countCategoryMatches(symptoms []string, keywords []string) int {
	count := 0
	for _, symptom := range symptoms {
		lowered := strings.ToLower(symptom)
		for _, keyword := range keywords {
			if strings.Contains(lowered, keyword) {
				count++
				break
			}
		}
	}
	return count
}
