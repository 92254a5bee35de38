package service

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/ludo-technologies/kuma/domain"
)

// ExecCommandRunner runs tools as child processes of kuma
type ExecCommandRunner struct{}

// NewExecCommandRunner creates a new process runner
func NewExecCommandRunner() *ExecCommandRunner {
	return &ExecCommandRunner{}
}

// Run starts the command and waits for it to finish. The context is only
// consulted before the process starts; a running tool is never killed so
// that an abort lets it complete.
func (r *ExecCommandRunner) Run(ctx context.Context, c domain.Command) (*domain.CommandResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := exec.Command(c.Name, c.Args...)
	cmd.Dir = c.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &domain.CommandResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return nil, err
	}

	return result, nil
}
