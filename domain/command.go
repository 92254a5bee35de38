package domain

import "context"

// Command describes an external process invocation
type Command struct {
	Name string
	Args []string
	Dir  string
}

// CommandResult holds what a finished process produced
type CommandResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// CommandRunner runs external processes. Run returns an error only when
// the process could not be started; a non-zero exit is reported through
// CommandResult.ExitCode.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (*CommandResult, error)
}
