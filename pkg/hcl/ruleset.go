// Package hcl loads detection rule-set overrides from HCL configuration
// files. Deployments tune the emergency keyword list and the body-system
// keyword tables without rebuilding; everything not overridden keeps its
// built-in value.
package hcl

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/medtrail/symptom-timeline/pkg/timeline"
)

// HCLRuleSet represents the rule-set override file structure
type HCLRuleSet struct {
	EmergencyKeywords           []string      `hcl:"emergency_keywords,optional"`
	AdditionalEmergencyKeywords []string      `hcl:"additional_emergency_keywords,optional"`
	Categories                  []HCLCategory `hcl:"category,block"`
}

// HCLCategory overrides or adds one named keyword category
type HCLCategory struct {
	Name     string   `hcl:"name,label"`
	Keywords []string `hcl:"keywords"`
}

// ParseRuleSet parses HCL content and merges it over the built-in rule set.
// An emergency_keywords attribute replaces the default list entirely;
// additional_emergency_keywords extends it. A category block replaces the
// matching built-in category, or appends a new one. All keywords are
// lowercased so matching stays case-insensitive.
func ParseRuleSet(hclContent string) (timeline.RuleSet, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL([]byte(hclContent), "ruleset.hcl")
	if diags.HasErrors() {
		return timeline.RuleSet{}, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}

	// Create evaluation context with helper functions
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
		Functions: map[string]function.Function{
			"lower": function.New(&function.Spec{
				Params: []function.Parameter{
					{
						Name: "text",
						Type: cty.String,
					},
				},
				Type: function.StaticReturnType(cty.String),
				Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
					return cty.StringVal(strings.ToLower(args[0].AsString())), nil
				},
			}),
		},
	}

	var hclRules HCLRuleSet
	diags = gohcl.DecodeBody(file.Body, evalCtx, &hclRules)
	if diags.HasErrors() {
		return timeline.RuleSet{}, fmt.Errorf("failed to decode HCL body: %s", diags.Error())
	}

	rules := timeline.DefaultRuleSet()

	if len(hclRules.EmergencyKeywords) > 0 {
		rules.EmergencyKeywords = lowerAll(hclRules.EmergencyKeywords)
	}
	if len(hclRules.AdditionalEmergencyKeywords) > 0 {
		rules.EmergencyKeywords = append(rules.EmergencyKeywords, lowerAll(hclRules.AdditionalEmergencyKeywords)...)
	}

	for _, hclCat := range hclRules.Categories {
		if len(hclCat.Keywords) == 0 {
			return timeline.RuleSet{}, fmt.Errorf("category %q has no keywords", hclCat.Name)
		}
		keywords := lowerAll(hclCat.Keywords)

		replaced := false
		for i, cat := range rules.Categories {
			if cat.Name == hclCat.Name {
				rules.Categories[i].Keywords = keywords
				replaced = true
				break
			}
		}
		if !replaced {
			rules.Categories = append(rules.Categories, timeline.SymptomCategory{
				Name:     hclCat.Name,
				Keywords: keywords,
			})
		}
	}

	return rules, nil
}

// LoadRuleSet reads and parses a rule-set override file. An empty path
// returns the built-in rule set.
func LoadRuleSet(path string) (timeline.RuleSet, error) {
	if path == "" {
		return timeline.DefaultRuleSet(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return timeline.RuleSet{}, fmt.Errorf("failed to read rule set file: %w", err)
	}
	return ParseRuleSet(string(content))
}

// IsHCL attempts to detect if the given content is in HCL format
func IsHCL(content []byte) bool {
	_, err := hclsyntax.ParseConfig(content, "", hcl.Pos{Line: 1, Column: 1})
	return err == nil
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
