// Command analyze runs the pattern analysis offline over a JSON file of
// symptom entries. Useful for inspecting what the detectors make of a
// timeline without a running service.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/medtrail/symptom-timeline/pkg/hcl"
	"github.com/medtrail/symptom-timeline/pkg/timeline"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	var (
		path        string
		rulesetPath string
		compact     bool
	)

	flag.StringVar(&path, "path", "", "Path to JSON file of symptom entries (required)")
	flag.StringVar(&rulesetPath, "ruleset", "", "Path to HCL rule-set override file")
	flag.BoolVar(&compact, "compact", false, "Emit compact JSON instead of indented")
	flag.Parse()

	if path == "" {
		logger.Error("Path parameter is required")
		flag.Usage()
		os.Exit(1)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("Failed to read entries file", "error", err)
		os.Exit(1)
	}

	var entries timeline.Timeline
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.Error("Failed to parse entries file", "error", err)
		os.Exit(1)
	}

	rules, err := hcl.LoadRuleSet(rulesetPath)
	if err != nil {
		logger.Error("Failed to load rule set", "error", err)
		os.Exit(1)
	}

	analyzer := timeline.NewAnalyzer(
		timeline.WithRuleSet(rules),
		timeline.WithLogger(logger),
	)

	report := analyzer.Analyze(context.Background(), entries, nil)

	var out []byte
	if compact {
		out, err = json.Marshal(report)
	} else {
		out, err = json.MarshalIndent(report, "", "  ")
	}
	if err != nil {
		logger.Error("Failed to encode report", "error", err)
		os.Exit(1)
	}

	fmt.Println(string(out))
}
