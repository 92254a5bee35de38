package config

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/ludo-technologies/kuma/internal/constants"
)

// Default score ceilings for the scored tools (standard strictness)
const (
	// DefaultMaxFlayScore is the highest total duplication score that still passes
	DefaultMaxFlayScore = 100

	// DefaultMaxFlogScore is the highest flog method average that still passes
	DefaultMaxFlogScore = 20
)

// Default score patterns. Each captures the number compared against max_score.
const (
	DefaultFlayScorePattern = `Total score \(lower is better\) = ([0-9]+(?:\.[0-9]+)?)`
	DefaultFlogScorePattern = `([0-9]+(?:\.[0-9]+)?): flog/method average`
)

// Config represents the configuration that applies to a set of targets
type Config struct {
	// InheritFrom lists configuration files merged underneath this one
	InheritFrom []string `json:"inherit_from,omitempty" mapstructure:"inherit_from" yaml:"inherit_from,omitempty"`

	// ExtendedRules enables the extended rule set for every target governed by this file
	ExtendedRules bool `json:"extended_rules" mapstructure:"extended_rules" yaml:"extended_rules"`

	// Analysis holds target selection configuration
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis" yaml:"analysis"`

	// Tools holds the external tool definitions keyed by name
	Tools map[string]ToolConfig `json:"tools" mapstructure:"tools" yaml:"tools"`

	// Path is the file this configuration was loaded from (empty for defaults)
	Path string `json:"-" mapstructure:"-" yaml:"-"`

	// BaseDir is the directory that include/exclude patterns are relative to
	BaseDir string `json:"-" mapstructure:"-" yaml:"-"`
}

// AnalysisConfig holds configuration for target selection
type AnalysisConfig struct {
	// Include restricts explicitly named files to these glob patterns (empty = any file)
	Include []string `json:"include" mapstructure:"include" yaml:"include"`

	// Exclude drops targets matching these glob patterns
	Exclude []string `json:"exclude" mapstructure:"exclude" yaml:"exclude"`

	// RespectGitignore drops targets ignored by the .gitignore in BaseDir
	RespectGitignore bool `json:"respect_gitignore" mapstructure:"respect_gitignore" yaml:"respect_gitignore"`
}

// ToolConfig describes how to invoke one external analysis tool and how
// to read its result
type ToolConfig struct {
	// Name is the key of the tool in the tools map
	Name string `json:"name" mapstructure:"-" yaml:"-"`

	Enabled bool     `json:"enabled" mapstructure:"enabled" yaml:"enabled"`
	Command string   `json:"command" mapstructure:"command" yaml:"command"`
	Args    []string `json:"args" mapstructure:"args" yaml:"args"`

	// Header is written to the output sink before the tool's output
	Header string `json:"header" mapstructure:"header" yaml:"header"`

	// FormatFlag receives the value of --format when set
	FormatFlag string `json:"format_flag,omitempty" mapstructure:"format_flag" yaml:"format_flag,omitempty"`

	// ExtendedRulesFlag is passed when the extended rule set is enabled
	ExtendedRulesFlag string `json:"extended_rules_flag,omitempty" mapstructure:"extended_rules_flag" yaml:"extended_rules_flag,omitempty"`

	// FindingsExitCodes are exit codes that mean "completed with findings"
	FindingsExitCodes []int `json:"findings_exit_codes" mapstructure:"findings_exit_codes" yaml:"findings_exit_codes"`

	// ScorePattern extracts a score from the output; exceeding MaxScore is a finding
	ScorePattern string  `json:"score_pattern,omitempty" mapstructure:"score_pattern" yaml:"score_pattern,omitempty"`
	MaxScore     float64 `json:"max_score" mapstructure:"max_score" yaml:"max_score"`

	// AllowFindings reports findings without failing the run
	AllowFindings bool `json:"allow_findings" mapstructure:"allow_findings" yaml:"allow_findings"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		ExtendedRules: false,
		Analysis: AnalysisConfig{
			Include: []string{},
			Exclude: []string{
				"vendor/**",
				"node_modules/**",
				"tmp/**",
				".git/**",
			},
			RespectGitignore: false,
		},
		Tools: map[string]ToolConfig{
			constants.ToolFlay: {
				Name:              constants.ToolFlay,
				Enabled:           true,
				Command:           "flay",
				Args:              []string{},
				Header:            "Flay",
				FindingsExitCodes: []int{},
				ScorePattern:      DefaultFlayScorePattern,
				MaxScore:          DefaultMaxFlayScore,
			},
			constants.ToolFlog: {
				Name:              constants.ToolFlog,
				Enabled:           true,
				Command:           "flog",
				Args:              []string{},
				Header:            "Flog",
				FindingsExitCodes: []int{},
				ScorePattern:      DefaultFlogScorePattern,
				MaxScore:          DefaultMaxFlogScore,
			},
			constants.ToolRubocop: {
				Name:              constants.ToolRubocop,
				Enabled:           true,
				Command:           "rubocop",
				Args:              []string{},
				Header:            "Rubocop",
				FormatFlag:        "--format",
				ExtendedRulesFlag: "-R",
				FindingsExitCodes: []int{1},
			},
		},
	}
}

// OrderedTools returns the configured tools in invocation order: built-in
// tools first in their fixed order, then custom tools sorted by name
func (c *Config) OrderedTools() []ToolConfig {
	tools := make([]ToolConfig, 0, len(c.Tools))
	seen := make(map[string]bool, len(c.Tools))

	for _, name := range constants.BuiltinTools {
		if tool, ok := c.Tools[name]; ok {
			tool.Name = name
			tools = append(tools, tool)
			seen[name] = true
		}
	}

	custom := make([]string, 0)
	for name := range c.Tools {
		if !seen[name] {
			custom = append(custom, name)
		}
	}
	sort.Strings(custom)

	for _, name := range custom {
		tool := c.Tools[name]
		tool.Name = name
		tools = append(tools, tool)
	}

	return tools
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	for _, tool := range c.OrderedTools() {
		if err := tool.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate validates a single tool definition
func (t *ToolConfig) Validate() error {
	if t.MaxScore < 0 {
		return fmt.Errorf("tools.%s.max_score must be >= 0, got %g", t.Name, t.MaxScore)
	}

	if t.ScorePattern != "" {
		re, err := regexp.Compile(t.ScorePattern)
		if err != nil {
			return fmt.Errorf("tools.%s.score_pattern is invalid: %w", t.Name, err)
		}
		if re.NumSubexp() < 1 {
			return fmt.Errorf("tools.%s.score_pattern must contain a capture group", t.Name)
		}
	}

	for _, code := range t.FindingsExitCodes {
		if code == 0 {
			return fmt.Errorf("tools.%s.findings_exit_codes cannot contain 0", t.Name)
		}
	}

	if !t.Enabled {
		return nil
	}

	if t.Command == "" {
		return fmt.Errorf("tools.%s.command must be set for an enabled tool", t.Name)
	}

	return nil
}

// ScoreRegexp compiles the tool's score pattern. It returns nil when the
// tool is not scored.
func (t *ToolConfig) ScoreRegexp() (*regexp.Regexp, error) {
	if t.ScorePattern == "" {
		return nil, nil
	}
	return regexp.Compile(t.ScorePattern)
}

// IsFindingsExitCode reports whether code means "completed with findings"
func (t *ToolConfig) IsFindingsExitCode(code int) bool {
	for _, c := range t.FindingsExitCodes {
		if c == code {
			return true
		}
	}
	return false
}

// HeaderText returns the header written before the tool's output
func (t *ToolConfig) HeaderText() string {
	if t.Header != "" {
		return t.Header
	}
	return t.Name
}
