package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ludo-technologies/kuma/domain"
	"github.com/ludo-technologies/kuma/internal/config"
)

var errScoreNotFound = errors.New("score not found in output")

// evaluateOutcome classifies a finished invocation from its exit status and,
// for scored tools, the number captured from its output. A non-nil error
// always comes with ToolOutcomeFailed.
func evaluateOutcome(tool config.ToolConfig, res *domain.CommandResult) (domain.ToolOutcome, *float64, error) {
	if tool.IsFindingsExitCode(res.ExitCode) {
		score, _ := parseScore(tool, res.Stdout)
		return domain.ToolOutcomeFindings, score, nil
	}

	if res.ExitCode != 0 {
		return domain.ToolOutcomeFailed, nil, exitStatusError(res)
	}

	score, err := parseScore(tool, res.Stdout)
	if err != nil {
		return domain.ToolOutcomeFailed, nil, err
	}
	if score != nil && *score > tool.MaxScore {
		return domain.ToolOutcomeFindings, score, nil
	}
	return domain.ToolOutcomeClean, score, nil
}

// parseScore extracts the score from stdout. It returns nil, nil for tools
// without a score pattern.
func parseScore(tool config.ToolConfig, stdout []byte) (*float64, error) {
	re, err := tool.ScoreRegexp()
	if err != nil {
		return nil, fmt.Errorf("invalid score pattern: %w", err)
	}
	if re == nil {
		return nil, nil
	}

	m := re.FindSubmatch(stdout)
	if len(m) < 2 {
		return nil, errScoreNotFound
	}

	score, err := strconv.ParseFloat(string(m[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("unparsable score %q: %w", m[1], err)
	}
	return &score, nil
}

func exitStatusError(res *domain.CommandResult) error {
	msg := fmt.Sprintf("exited with status %d", res.ExitCode)
	if res.ExitCode < 0 {
		msg = "terminated by signal"
	}
	if stderr := strings.TrimSpace(string(res.Stderr)); stderr != "" {
		msg += ": " + stderr
	}
	return errors.New(msg)
}
