package domain

import (
	"errors"
	"fmt"
)

// Error codes shared across kuma components
const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeFileNotFound = "FILE_NOT_FOUND"
	ErrCodeConfigError  = "CONFIG_ERROR"
	ErrCodeToolError    = "TOOL_ERROR"
	ErrCodeOutputError  = "OUTPUT_ERROR"
)

// DomainError represents a categorized error with an optional cause
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string, cause error) error {
	return DomainError{Code: code, Message: message, Cause: cause}
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string, cause error) error {
	return NewDomainError(ErrCodeFileNotFound, "file not found: "+path, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) error {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

// NewOutputError creates an output error
func NewOutputError(message string, cause error) error {
	return NewDomainError(ErrCodeOutputError, message, cause)
}

// ToolError represents a tool invocation that failed for reasons
// unrelated to reporting findings
type ToolError struct {
	Tool string
	Err  error
}

// Error implements the error interface
func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

// Unwrap returns the underlying error
func (e *ToolError) Unwrap() error {
	return e.Err
}

// NewToolError creates a ToolError for the named tool
func NewToolError(tool string, err error) error {
	return &ToolError{Tool: tool, Err: err}
}

// Code returns the error code of a tool failure
func (e *ToolError) Code() string {
	return ErrCodeToolError
}

// ErrorCode returns the code of the first DomainError or ToolError in err's
// chain, or "" for uncategorized errors
func ErrorCode(err error) string {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr.Code()
	}
	var domainErr DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}
