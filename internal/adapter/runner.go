package adapter

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// waitDelay bounds how long Run waits for output pipes after the process is killed
const waitDelay = time.Second

// LocalRunner executes commands on the agent's own host
type LocalRunner struct{}

// NewLocalRunner creates a runner for local processes
func NewLocalRunner() *LocalRunner {
	return &LocalRunner{}
}

// Run starts the program, waits for it and captures its output.
// The process is killed when ctx is done.
func (r *LocalRunner) Run(ctx context.Context, cmd Command) (CommandResult, error) {
	var stdout, stderr bytes.Buffer

	proc := exec.CommandContext(ctx, cmd.Program, cmd.Args...)
	proc.Stdout = &stdout
	proc.Stderr = &stderr
	proc.WaitDelay = waitDelay

	err := proc.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return CommandResult{}, ctxErr
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return CommandResult{}, err
		}
		return CommandResult{
			ExitCode: exitErr.ExitCode(),
			Stdout:   stdout.Bytes(),
			Stderr:   stderr.Bytes(),
		}, nil
	}

	return CommandResult{
		ExitCode: 0,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
	}, nil
}
