package hcl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtrail/symptom-timeline/pkg/timeline"
)

func TestParseRuleSetOverrides(t *testing.T) {
	hclContent := `
	# Extend the emergency list for an oncology deployment
	additional_emergency_keywords = ["neutropenic fever", lower("Tumor Lysis")]

	# Replace the built-in cardiovascular table
	category "cardiovascular" {
		keywords = ["chest pain", "palpitations", "orthopnea"]
	}

	# New category unknown to the defaults
	category "dermatological" {
		keywords = ["rash", "itching", "hives"]
	}
	`

	rules, err := ParseRuleSet(hclContent)
	require.NoError(t, err)

	defaults := timeline.DefaultRuleSet()

	// Additions extend rather than replace
	assert.Len(t, rules.EmergencyKeywords, len(defaults.EmergencyKeywords)+2)
	assert.Contains(t, rules.EmergencyKeywords, "neutropenic fever")
	assert.Contains(t, rules.EmergencyKeywords, "tumor lysis")
	assert.Contains(t, rules.EmergencyKeywords, "chest pain")

	// Replaced category
	assert.Equal(t, []string{"chest pain", "palpitations", "orthopnea"}, rules.Category("cardiovascular"))

	// Appended category
	assert.Equal(t, []string{"rash", "itching", "hives"}, rules.Category("dermatological"))

	// Untouched category keeps its defaults
	assert.Equal(t, defaults.Category("neurological"), rules.Category("neurological"))
}

func TestParseRuleSetReplacesEmergencyList(t *testing.T) {
	hclContent := `
	emergency_keywords = ["Cardiac Arrest", "anaphylaxis"]
	`

	rules, err := ParseRuleSet(hclContent)
	require.NoError(t, err)

	assert.Equal(t, []string{"cardiac arrest", "anaphylaxis"}, rules.EmergencyKeywords)
	assert.True(t, rules.IsEmergencySymptom("sudden CARDIAC ARREST at home"))
	assert.False(t, rules.IsEmergencySymptom("chest pain"))
}

func TestParseRuleSetEmpty(t *testing.T) {
	rules, err := ParseRuleSet("")
	require.NoError(t, err)
	assert.Equal(t, timeline.DefaultRuleSet(), rules)
}

func TestParseRuleSetErrors(t *testing.T) {
	t.Run("malformed HCL", func(t *testing.T) {
		_, err := ParseRuleSet(`category "broken" {`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse HCL")
	})

	t.Run("category without keywords", func(t *testing.T) {
		_, err := ParseRuleSet(`
		category "empty" {
			keywords = []
		}
		`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `category "empty" has no keywords`)
	})
}

func TestLoadRuleSetDefaultsOnEmptyPath(t *testing.T) {
	rules, err := LoadRuleSet("")
	require.NoError(t, err)
	assert.Equal(t, timeline.DefaultRuleSet(), rules)
}

func TestIsHCL(t *testing.T) {
	assert.True(t, IsHCL([]byte(`emergency_keywords = ["chest pain"]`)))
	assert.False(t, IsHCL([]byte(`{"emergency_keywords": ["chest pain"]}`)))
}
