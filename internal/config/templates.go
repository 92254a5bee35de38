package config

import (
	"strconv"
	"strings"

	"github.com/ludo-technologies/kuma/internal/constants"
)

// Strictness represents the analysis strictness level
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// StrictnessPreset holds score ceilings for different strictness levels
type StrictnessPreset struct {
	MaxFlayScore int
	MaxFlogScore int
}

// GetStrictnessPresets returns presets for different strictness levels
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			MaxFlayScore: 200,
			MaxFlogScore: 30,
		},
		StrictnessStandard: {
			MaxFlayScore: DefaultMaxFlayScore,
			MaxFlogScore: DefaultMaxFlogScore,
		},
		StrictnessStrict: {
			MaxFlayScore: 0,
			MaxFlogScore: 10,
		},
	}
}

// GetFullConfigTemplate returns the documented config template as YAML.
// Built-in tools missing from enabled are written with enabled: false;
// a nil enabled list enables every built-in tool.
func GetFullConfigTemplate(strictness Strictness, enabled []string) string {
	preset, ok := GetStrictnessPresets()[strictness]
	if !ok {
		preset = GetStrictnessPresets()[StrictnessStandard]
	}

	isEnabled := func(tool string) string {
		if enabled == nil {
			return "true"
		}
		for _, name := range enabled {
			if name == tool {
				return "true"
			}
		}
		return "false"
	}

	return `# kuma Configuration
# Documentation: https://github.com/ludo-technologies/kuma
#
# Files named in inherit_from are merged first; values here win.
# inherit_from:
#   - ` + constants.TodoFileName + `

# Pass the extended rule set flag (-R) to tools that support it
extended_rules: false

# ============================================================================
# ANALYSIS SCOPE
# ============================================================================
analysis:
  # Explicitly named files must match one of these patterns (empty = any file)
  include: []

  # Targets matching these patterns are skipped. Patterns are relative to
  # the directory containing this file.
  exclude:
` + formatYAMLList(DefaultConfig().Analysis.Exclude, "    ") + `

  # Skip targets ignored by the .gitignore next to this file
  respect_gitignore: true

# ============================================================================
# TOOLS
# ============================================================================
# Tools run in this order: flay, flog, rubocop, then custom tools by name.
# Each receives the resolved targets as trailing arguments.
tools:
  # Code duplication
  flay:
    enabled: ` + isEnabled(constants.ToolFlay) + `
    command: flay
    args: []
    # The total score is compared against max_score
    score_pattern: '` + DefaultFlayScorePattern + `'
    max_score: ` + strconv.Itoa(preset.MaxFlayScore) + `

  # ABC complexity
  flog:
    enabled: ` + isEnabled(constants.ToolFlog) + `
    command: flog
    args: []
    # The method average is compared against max_score
    score_pattern: '` + DefaultFlogScorePattern + `'
    max_score: ` + strconv.Itoa(preset.MaxFlogScore) + `

  # Style checks
  rubocop:
    enabled: ` + isEnabled(constants.ToolRubocop) + `
    command: rubocop
    args: []
    # --format is forwarded through this flag
    format_flag: --format
    # -R is forwarded through this flag
    extended_rules_flag: -R
    # Exit codes meaning "offenses found"; other non-zero codes are errors
    findings_exit_codes: [1]
    # Report findings without failing the run
    allow_findings: false
`
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `# kuma Configuration (minimal)
# See full options: https://github.com/ludo-technologies/kuma

analysis:
  exclude:
    - vendor/**
    - tmp/**

tools:
  flay:
    max_score: ` + strconv.Itoa(DefaultMaxFlayScore) + `
  flog:
    max_score: ` + strconv.Itoa(DefaultMaxFlogScore) + `
  rubocop:
    enabled: true
`
}

// formatYAMLList formats a string slice as an indented YAML block sequence
func formatYAMLList(items []string, indent string) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, indent+"- "+item)
	}
	return strings.Join(lines, "\n")
}
