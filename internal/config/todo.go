package config

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/ludo-technologies/kuma/domain"
	"github.com/ludo-technologies/kuma/internal/constants"
	"github.com/ludo-technologies/kuma/internal/version"
	"gopkg.in/yaml.v3"
)

// todoTool is the part of a tool definition the todo file overrides
type todoTool struct {
	MaxScore      *float64 `yaml:"max_score,omitempty"`
	AllowFindings bool     `yaml:"allow_findings,omitempty"`
}

type todoDocument struct {
	Tools map[string]todoTool `yaml:"tools"`
}

// RenderTodo builds a configuration that tolerates every finding in
// results: scored tools get their max_score raised to the observed score,
// other tools get allow_findings. It returns ok=false when there is
// nothing to tolerate.
func RenderTodo(results []domain.ToolResult, generatedAt time.Time) (content []byte, ok bool, err error) {
	doc := todoDocument{Tools: map[string]todoTool{}}

	for _, result := range results {
		if result.Outcome != domain.ToolOutcomeFindings {
			continue
		}

		entry := doc.Tools[result.Tool]
		if result.Score != nil {
			ceiling := math.Ceil(*result.Score)
			if entry.MaxScore == nil || ceiling > *entry.MaxScore {
				entry.MaxScore = &ceiling
			}
		} else {
			entry.AllowFindings = true
		}
		doc.Tools[result.Tool] = entry
	}

	if len(doc.Tools) == 0 {
		return nil, false, nil
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# This configuration was generated by\n")
	fmt.Fprintf(&buf, "# `%s --auto-gen-config`\n", constants.ToolName)
	fmt.Fprintf(&buf, "# on %s using %s version %s.\n", generatedAt.Format(time.RFC3339), constants.ToolName, version.GetVersion())
	fmt.Fprintf(&buf, "# The point is for the user to remove these overrides once the\n")
	fmt.Fprintf(&buf, "# findings are fixed.\n\n")

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return nil, false, fmt.Errorf("failed to encode todo file: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, false, fmt.Errorf("failed to encode todo file: %w", err)
	}

	return buf.Bytes(), true, nil
}
