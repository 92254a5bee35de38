package main

import "fmt"

// ExitError carries a process exit code out of a cobra command. An empty
// Message exits silently because the output has already been written.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Message
}

// fatalError is an unexpected failure during orchestration. It is reported
// with the stack captured where it was raised.
type fatalError struct {
	err   error
	stack []byte
}

func (e *fatalError) Error() string {
	return e.err.Error()
}

func (e *fatalError) Unwrap() error {
	return e.err
}
