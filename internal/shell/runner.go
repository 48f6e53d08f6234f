// Package shell runs external commands for devsetup. Every subprocess the
// bootstrap starts goes through a Runner so that tests can substitute a fake.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	clierrors "github.com/ariel-frischer/devsetup/internal/errors"
	"github.com/ariel-frischer/devsetup/internal/logging"
)

// Command describes one external command.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory (default: current directory).
	Dir string
	// Env holds extra KEY=VALUE pairs appended to the inherited environment.
	Env    []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	parts := append([]string{c.Name}, c.Args...)
	return strings.Join(parts, " ")
}

// Runner runs commands and resolves executables.
type Runner interface {
	// Run runs cmd to completion, streaming its output.
	Run(ctx context.Context, cmd Command) error
	// Output runs cmd and returns its trimmed standard output.
	Output(ctx context.Context, cmd Command) (string, error)
	// LookPath resolves name the way a shell would.
	LookPath(name string) (string, error)
}

// ExecRunner is the os/exec backed Runner.
type ExecRunner struct {
	// Stdout and Stderr receive command output when the Command sets none.
	Stdout io.Writer
	Stderr io.Writer
	// Logger traces each command at debug level.
	Logger *logging.Logger
}

// NewExecRunner creates an ExecRunner writing to the process streams.
func NewExecRunner(logger *logging.Logger) *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr, Logger: logger}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	cmd := r.build(ctx, c)
	cmd.Stdout = firstWriter(c.Stdout, r.Stdout)
	cmd.Stderr = firstWriter(c.Stderr, r.Stderr)

	if err := cmd.Run(); err != nil {
		return clierrors.CommandFailed(c.String(), ExitStatus(err), err)
	}
	return nil
}

// Output implements Runner. Stderr is kept in the error when the command fails.
func (r *ExecRunner) Output(ctx context.Context, c Command) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := r.build(ctx, c)
	cmd.Stdout = &stdout
	if c.Stderr != nil {
		cmd.Stderr = io.MultiWriter(&stderr, c.Stderr)
	} else {
		cmd.Stderr = &stderr
	}

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = &outputError{err: err, stderr: msg}
		}
		return "", clierrors.CommandFailed(c.String(), ExitStatus(err), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// LookPath implements Runner.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (r *ExecRunner) build(ctx context.Context, c Command) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = c.Stdin
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	if r.Logger != nil && r.Logger.DebugEnabled() {
		if c.Dir != "" {
			r.Logger.Debugf("+ %s (in %s)", c, c.Dir)
		} else {
			r.Logger.Debugf("+ %s", c)
		}
	}
	return cmd
}

func firstWriter(ws ...io.Writer) io.Writer {
	for _, w := range ws {
		if w != nil {
			return w
		}
	}
	return io.Discard
}

type outputError struct {
	err    error
	stderr string
}

func (e *outputError) Error() string { return e.err.Error() + ": " + e.stderr }
func (e *outputError) Unwrap() error { return e.err }

// ExitStatus returns the exit status of a failed command, or -1 when err
// does not come from a process that ran.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
