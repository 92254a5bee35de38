package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ludo-technologies/kuma/domain"
	"github.com/ludo-technologies/kuma/internal/constants"
	"github.com/ludo-technologies/kuma/internal/logging"
	"github.com/spf13/viper"
)

// candidateFileNames are searched in every directory, in order of preference
var candidateFileNames = []string{
	constants.ConfigFileName,
	".kuma.yaml",
	".kuma.toml",
	".kuma.json",
}

var (
	knownTopLevelKeys = map[string]bool{
		"inherit_from":   true,
		"extended_rules": true,
		"analysis":       true,
		"tools":          true,
	}
	knownAnalysisKeys = map[string]bool{
		"include":           true,
		"exclude":           true,
		"respect_gitignore": true,
	}
	knownToolKeys = map[string]bool{
		"enabled":             true,
		"command":             true,
		"args":                true,
		"header":              true,
		"format_flag":         true,
		"extended_rules_flag": true,
		"findings_exit_codes": true,
		"score_pattern":       true,
		"max_score":           true,
		"allow_findings":      true,
	}
)

// Loader discovers and loads configuration files
type Loader struct {
	// Warn receives user-facing warnings about configuration files
	Warn io.Writer

	// Logger receives debug diagnostics
	Logger *slog.Logger

	// AutoGenConfig enables warnings that only matter when generating a todo file
	AutoGenConfig bool

	// HomeDir locates the user's home directory
	HomeDir func() (string, error)
}

// NewLoader creates a loader that writes warnings to warn
func NewLoader(warn io.Writer, logger *slog.Logger) *Loader {
	if warn == nil {
		warn = io.Discard
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Loader{
		Warn:    warn,
		Logger:  logger,
		HomeDir: os.UserHomeDir,
	}
}

// Defaults returns the built-in configuration rooted at the working directory
func (l *Loader) Defaults() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	cfg, err := decode(v)
	if err != nil {
		return nil, domain.NewConfigError("failed to decode default configuration", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, domain.NewConfigError("failed to determine working directory", err)
	}
	cfg.BaseDir = wd

	return cfg, nil
}

// LoadFile loads a configuration file, merges it over the inherited files
// and the built-in defaults, and validates the result
func (l *Loader) LoadFile(path string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, domain.NewConfigError("invalid configuration path "+path, err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return nil, domain.NewConfigError("configuration file not found: "+path, err)
	}

	own, err := l.readFile(absPath)
	if err != nil {
		return nil, err
	}

	merged := viper.New()
	setDefaults(merged)

	baseDir := filepath.Dir(absPath)
	for _, inherited := range own.GetStringSlice("inherit_from") {
		inheritedPath := inherited
		if !filepath.IsAbs(inheritedPath) {
			inheritedPath = filepath.Join(baseDir, inheritedPath)
		}

		if l.AutoGenConfig && filepath.Base(inheritedPath) == constants.LegacyTodoFileName {
			fmt.Fprintf(l.Warn, "Warning: %s inherits from %s. --auto-gen-config now writes %s; update inherit_from to use it.\n",
				absPath, constants.LegacyTodoFileName, constants.TodoFileName)
		}

		parent, err := l.readFile(inheritedPath)
		if err != nil {
			return nil, err
		}
		if err := merged.MergeConfigMap(parent.AllSettings()); err != nil {
			return nil, domain.NewConfigError("failed to merge "+inheritedPath, err)
		}
	}

	if err := merged.MergeConfigMap(own.AllSettings()); err != nil {
		return nil, domain.NewConfigError("failed to merge "+absPath, err)
	}

	cfg, err := decode(merged)
	if err != nil {
		return nil, domain.NewConfigError("failed to unmarshal "+absPath, err)
	}
	cfg.Path = absPath
	cfg.BaseDir = baseDir

	if err := cfg.Validate(); err != nil {
		return nil, domain.NewConfigError("invalid configuration in "+absPath, err)
	}

	l.Logger.Debug("loaded configuration", "path", absPath, "inherit_from", cfg.InheritFrom)
	return cfg, nil
}

// readFile reads a single file into its own viper instance and warns about
// parameters kuma does not recognize
func (l *Loader) readFile(path string) (*viper.Viper, error) {
	// A new viper instance per file keeps loads independent
	v := viper.New()
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, domain.NewConfigError("failed to read config file "+path, err)
	}

	for _, key := range unknownKeys(v) {
		fmt.Fprintf(l.Warn, "Warning: unrecognized parameter %s found in %s\n", key, path)
	}

	return v, nil
}

// FindConfigFile looks for a configuration file in dir and its ancestors,
// then in the user's home directory. It returns "" when none exists.
func (l *Loader) FindConfigFile(dir string) string {
	absDir, err := filepath.Abs(dir)
	if err == nil {
		volume := filepath.VolumeName(absDir)
		for current := absDir; ; current = filepath.Dir(current) {
			if found := searchConfigInDirectory(current); found != "" {
				return found
			}

			parent := filepath.Dir(current)
			if parent == current || current == volume ||
				(volume != "" && current == volume+string(filepath.Separator)) {
				break
			}
		}
	}

	if l.HomeDir != nil {
		if home, err := l.HomeDir(); err == nil && home != "" {
			if found := searchConfigInDirectory(home); found != "" {
				return found
			}
		}
	}

	return ""
}

// searchConfigInDirectory returns the first candidate file present in dir
func searchConfigInDirectory(dir string) string {
	for _, candidate := range candidateFileNames {
		path := filepath.Join(dir, candidate)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// setDefaults registers the built-in configuration as viper defaults so that
// files only need to name the values they change
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()

	v.SetDefault("extended_rules", def.ExtendedRules)
	v.SetDefault("analysis.include", def.Analysis.Include)
	v.SetDefault("analysis.exclude", def.Analysis.Exclude)
	v.SetDefault("analysis.respect_gitignore", def.Analysis.RespectGitignore)

	for name, tool := range def.Tools {
		prefix := "tools." + name + "."
		v.SetDefault(prefix+"enabled", tool.Enabled)
		v.SetDefault(prefix+"command", tool.Command)
		v.SetDefault(prefix+"args", tool.Args)
		v.SetDefault(prefix+"header", tool.Header)
		v.SetDefault(prefix+"format_flag", tool.FormatFlag)
		v.SetDefault(prefix+"extended_rules_flag", tool.ExtendedRulesFlag)
		v.SetDefault(prefix+"findings_exit_codes", tool.FindingsExitCodes)
		v.SetDefault(prefix+"score_pattern", tool.ScorePattern)
		v.SetDefault(prefix+"max_score", tool.MaxScore)
		v.SetDefault(prefix+"allow_findings", tool.AllowFindings)
	}
}

// decode unmarshals the merged settings and fills in custom tool defaults
func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	if cfg.Tools == nil {
		cfg.Tools = map[string]ToolConfig{}
	}

	builtin := DefaultConfig().Tools
	for name, tool := range cfg.Tools {
		tool.Name = name
		if _, ok := builtin[name]; !ok {
			// Custom tools are enabled unless the file says otherwise
			if !v.IsSet("tools." + name + ".enabled") {
				tool.Enabled = true
			}
			if tool.FindingsExitCodes == nil {
				tool.FindingsExitCodes = []int{1}
			}
		}
		if tool.Args == nil {
			tool.Args = []string{}
		}
		cfg.Tools[name] = tool
	}

	return cfg, nil
}

// unknownKeys returns the keys set in v that are not part of the schema
func unknownKeys(v *viper.Viper) []string {
	var unknown []string

	for _, key := range v.AllKeys() {
		parts := strings.Split(key, ".")
		if !knownTopLevelKeys[parts[0]] {
			unknown = append(unknown, key)
			continue
		}

		switch parts[0] {
		case "analysis":
			if len(parts) != 2 || !knownAnalysisKeys[parts[1]] {
				unknown = append(unknown, key)
			}
		case "tools":
			if len(parts) != 3 || !knownToolKeys[parts[2]] {
				unknown = append(unknown, key)
			}
		default:
			if len(parts) != 1 {
				unknown = append(unknown, key)
			}
		}
	}

	sort.Strings(unknown)
	return unknown
}
