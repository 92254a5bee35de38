package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/kuma/internal/constants"
	"gopkg.in/yaml.v3"
)

func TestGetFullConfigTemplate_ParsesAsYAML(t *testing.T) {
	for strictness := range GetStrictnessPresets() {
		t.Run(string(strictness), func(t *testing.T) {
			content := GetFullConfigTemplate(strictness, nil)

			var doc map[string]any
			if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
				t.Fatalf("Template is not valid YAML: %v", err)
			}
			for _, key := range []string{"analysis", "tools", "extended_rules"} {
				if _, ok := doc[key]; !ok {
					t.Errorf("Template missing key %s", key)
				}
			}
		})
	}
}

func TestGetFullConfigTemplate_LoadsCleanly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, constants.ConfigFileName)
	writeFile(t, path, GetFullConfigTemplate(StrictnessStrict, []string{constants.ToolRubocop}))

	loader, warnings := newTestLoader(t)
	cfg, err := loader.LoadFile(path)
	if err != nil {
		t.Fatalf("Generated template should load: %v", err)
	}
	if warnings.Len() != 0 {
		t.Errorf("Generated template should not produce warnings, got %q", warnings.String())
	}

	if cfg.Tools[constants.ToolFlay].Enabled || cfg.Tools[constants.ToolFlog].Enabled {
		t.Error("Only rubocop should be enabled")
	}
	if !cfg.Tools[constants.ToolRubocop].Enabled {
		t.Error("rubocop should be enabled")
	}

	strict := GetStrictnessPresets()[StrictnessStrict]
	if cfg.Tools[constants.ToolFlog].MaxScore != float64(strict.MaxFlogScore) {
		t.Errorf("Expected strict flog max_score %d, got %g", strict.MaxFlogScore, cfg.Tools[constants.ToolFlog].MaxScore)
	}

	// The score pattern survives the YAML round trip
	if cfg.Tools[constants.ToolFlay].ScorePattern != DefaultFlayScorePattern {
		t.Errorf("Unexpected flay score pattern %q", cfg.Tools[constants.ToolFlay].ScorePattern)
	}
}

func TestGetMinimalConfigTemplate(t *testing.T) {
	content := GetMinimalConfigTemplate()
	if !strings.Contains(content, "tools:") {
		t.Error("Minimal template should contain a tools section")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, constants.ConfigFileName)
	writeFile(t, path, content)

	loader, warnings := newTestLoader(t)
	if _, err := loader.LoadFile(path); err != nil {
		t.Fatalf("Minimal template should load: %v", err)
	}
	if warnings.Len() != 0 {
		t.Errorf("Minimal template should not produce warnings, got %q", warnings.String())
	}
}
