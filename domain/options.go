package domain

import "strings"

// Options holds the command-line options of a single kuma invocation.
// It is built once by the entry point and never modified afterwards.
type Options struct {
	// Format is forwarded to every tool that declares a format flag
	Format string `json:"format,omitempty"`

	// ConfigPath is an explicit configuration file used for every target
	ConfigPath string `json:"config,omitempty"`

	// ExtendedRules enables the optional extended rule set (-R)
	ExtendedRules bool `json:"extended_rules,omitempty"`

	// AutoGenConfig writes a todo file that silences current findings
	AutoGenConfig bool `json:"auto_gen_config,omitempty"`

	// Only restricts the run to the named tools
	Only []string `json:"only,omitempty"`

	Version        bool `json:"version,omitempty"`
	VerboseVersion bool `json:"verbose_version,omitempty"`
	Debug          bool `json:"debug,omitempty"`
	JSON           bool `json:"json,omitempty"`
	NoProgress     bool `json:"no_progress,omitempty"`
}

// HasExitingOption reports whether an option that prints information and
// terminates before any analysis is set
func (o Options) HasExitingOption() bool {
	return o.Version || o.VerboseVersion
}

// Selects reports whether the named tool takes part in the run. Tool names
// are matched case-insensitively because configuration keys are lowercased.
func (o Options) Selects(tool string) bool {
	if len(o.Only) == 0 {
		return true
	}
	for _, name := range o.Only {
		if strings.EqualFold(name, tool) {
			return true
		}
	}
	return false
}
