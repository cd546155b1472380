package adapter

import (
	"context"
	"fmt"
	"strings"

	"iqt/internal/domain"
)

// Args holds the string arguments of a field request
type Args map[string]string

// Get returns the named argument, or "" when absent
func (a Args) Get(name string) string {
	if a == nil {
		return ""
	}
	return a[name]
}

// Command is a program plus its argument list
type Command struct {
	Program string
	Args    []string
}

// String renders the command for logs
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Program
	}
	return c.Program + " " + strings.Join(c.Args, " ")
}

// CommandResult holds everything a finished process produced
type CommandResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Runner executes a command and waits for it to finish.
// A non-zero exit status is reported through CommandResult.ExitCode, not as an
// error; the error return is reserved for processes that could not run.
type Runner interface {
	Run(ctx context.Context, cmd Command) (CommandResult, error)
}

// Capability is the type-erased view of a CommandAdapter held by the Registry
type Capability interface {
	// Name returns the capability name, e.g. "ip.route"
	Name() string
	// Operations lists the operations the capability accepts
	Operations() []string
	// Invoke resolves one field request
	Invoke(ctx context.Context, runner Runner, op string, args Args) domain.FieldOutcome[any]
}

// BuildFunc derives the command for an operation from the field arguments
type BuildFunc func(op string, args Args) (Command, error)

// ParseFunc converts stdout of a successful command into a typed record
type ParseFunc[T any] func(stdout []byte) (T, error)

// CommandAdapter binds a command builder to a parser
type CommandAdapter[T any] struct {
	name       string
	operations []string
	build      BuildFunc
	parse      ParseFunc[T]
}

// NewCommandAdapter creates an adapter for the named capability
func NewCommandAdapter[T any](name string, operations []string, build BuildFunc, parse ParseFunc[T]) *CommandAdapter[T] {
	return &CommandAdapter[T]{
		name:       name,
		operations: operations,
		build:      build,
		parse:      parse,
	}
}

// Name returns the capability name
func (a *CommandAdapter[T]) Name() string {
	return a.name
}

// Operations returns the accepted operations
func (a *CommandAdapter[T]) Operations() []string {
	return append([]string(nil), a.operations...)
}

// Resolve runs the command for op and parses its output
func (a *CommandAdapter[T]) Resolve(ctx context.Context, runner Runner, op string, args Args) domain.FieldOutcome[T] {
	cmd, err := a.build(op, args)
	if err != nil {
		return domain.Fail[T](fmt.Errorf("%s: %w", a.name, err))
	}

	result, err := runner.Run(ctx, cmd)
	if err != nil {
		return domain.Fail[T](&SpawnError{Program: cmd.Program, Err: err})
	}

	if result.ExitCode != 0 {
		return domain.Fail[T](&ExitError{
			Program: cmd.Program,
			Code:    result.ExitCode,
			Stderr:  string(result.Stderr),
		})
	}

	record, err := a.parse(result.Stdout)
	if err != nil {
		return domain.Fail[T](&ParseError{Capability: a.name, Err: err})
	}
	return domain.Ok(record)
}

// Invoke implements Capability
func (a *CommandAdapter[T]) Invoke(ctx context.Context, runner Runner, op string, args Args) domain.FieldOutcome[any] {
	return domain.Erase(a.Resolve(ctx, runner, op, args))
}
