package service

import (
	"encoding/json"
	"io"
	"time"

	"github.com/ludo-technologies/kuma/domain"
	"github.com/ludo-technologies/kuma/internal/version"
)

// WriteJSON writes data as JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// NewRunReport builds the machine-readable summary of a finished run
func NewRunReport(results []domain.ToolResult, errs []string, passed, aborted bool, exitCode int, duration time.Duration) domain.RunReport {
	if results == nil {
		results = []domain.ToolResult{}
	}
	if errs == nil {
		errs = []string{}
	}
	return domain.RunReport{
		Version:     version.GetVersion(),
		Commit:      version.GetCommit(),
		GeneratedAt: time.Now().Format(time.RFC3339),
		DurationMs:  duration.Milliseconds(),
		Passed:      passed,
		Aborted:     aborted,
		ExitCode:    exitCode,
		Tools:       results,
		Errors:      errs,
	}
}

// WriteRunReport renders the run report as JSON
func WriteRunReport(writer io.Writer, report domain.RunReport) error {
	if err := WriteJSON(writer, report); err != nil {
		return domain.NewOutputError("failed to write JSON report", err)
	}
	return nil
}
