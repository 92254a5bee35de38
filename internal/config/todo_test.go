package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ludo-technologies/kuma/domain"
	"github.com/ludo-technologies/kuma/internal/constants"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestRenderTodo(t *testing.T) {
	results := []domain.ToolResult{
		{Tool: constants.ToolFlay, Outcome: domain.ToolOutcomeFindings, Score: floatPtr(120)},
		{Tool: constants.ToolFlay, Outcome: domain.ToolOutcomeFindings, Score: floatPtr(180.2)},
		{Tool: constants.ToolFlog, Outcome: domain.ToolOutcomeClean, Score: floatPtr(4)},
		{Tool: constants.ToolRubocop, Outcome: domain.ToolOutcomeFindings, ExitCode: 1},
		{Tool: "reek", Outcome: domain.ToolOutcomeFailed, ExitCode: 2},
	}

	content, ok, err := RenderTodo(results, time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("RenderTodo failed: %v", err)
	}
	if !ok {
		t.Fatal("Expected a todo document")
	}

	text := string(content)
	if !strings.HasPrefix(text, "# This configuration was generated by") {
		t.Errorf("Missing header in %q", text)
	}
	if strings.Contains(text, "flog") || strings.Contains(text, "reek") {
		t.Errorf("Only tools with findings belong in the todo file, got %q", text)
	}

	// The rendered file must load as a configuration layered over defaults
	dir := t.TempDir()
	path := filepath.Join(dir, constants.TodoFileName)
	writeFile(t, path, text)

	loader, warnings := newTestLoader(t)
	cfg, err := loader.LoadFile(path)
	if err != nil {
		t.Fatalf("Todo file should load: %v", err)
	}
	if warnings.Len() != 0 {
		t.Errorf("Todo file should not produce warnings, got %q", warnings.String())
	}
	if cfg.Tools[constants.ToolFlay].MaxScore != 181 {
		t.Errorf("Expected flay max_score raised to 181, got %g", cfg.Tools[constants.ToolFlay].MaxScore)
	}
	if !cfg.Tools[constants.ToolRubocop].AllowFindings {
		t.Error("rubocop findings should be allowed")
	}
	if cfg.Tools[constants.ToolFlog].MaxScore != DefaultMaxFlogScore {
		t.Error("flog should keep its default max_score")
	}
}

func TestRenderTodo_NothingToTolerate(t *testing.T) {
	results := []domain.ToolResult{
		{Tool: constants.ToolFlay, Outcome: domain.ToolOutcomeClean},
	}

	_, ok, err := RenderTodo(results, time.Now())
	if err != nil {
		t.Fatalf("RenderTodo failed: %v", err)
	}
	if ok {
		t.Error("Expected no todo document for a clean run")
	}
}
