package adapter

import (
	"fmt"
	"strings"
)

// SpawnError means the process could not be started or did not finish
type SpawnError struct {
	Program string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to run %s: %v", e.Program, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// ExitError means the process ran and exited with a non-zero status.
// The message is the process's stderr.
type ExitError struct {
	Program string
	Code    int
	Stderr  string
}

func (e *ExitError) Error() string {
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		return msg
	}
	return fmt.Sprintf("%s exited with status %d", e.Program, e.Code)
}

// ParseError means the process succeeded but its output was rejected
type ParseError struct {
	Capability string
	Err        error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: invalid output: %v", e.Capability, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
