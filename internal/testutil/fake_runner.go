package testutil

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	clierrors "github.com/ariel-frischer/devsetup/internal/errors"
	"github.com/ariel-frischer/devsetup/internal/shell"
)

// CallRecord is one command seen by a FakeRunner.
type CallRecord struct {
	Name      string
	Args      []string
	Dir       string
	Env       []string
	Stdin     string
	Timestamp time.Time
	ExitCode  int
	Error     error
}

// Line renders the call as a command line.
func (r CallRecord) Line() string {
	return strings.TrimSpace(r.Name + " " + strings.Join(r.Args, " "))
}

// Handler scripts the result of a matched command. stdout is written to the
// command's Stdout (or returned by Output).
type Handler func(cmd shell.Command) (stdout string, exitCode int)

type rule struct {
	prefix  string
	handler Handler
}

// FakeRunner is a shell.Runner that records commands instead of running them.
// Unmatched commands succeed with no output.
type FakeRunner struct {
	mu    sync.Mutex
	paths map[string]string
	rules []rule
	calls []CallRecord
	now   func() time.Time
}

var _ shell.Runner = (*FakeRunner)(nil)

// FakeRunnerBuilder configures a FakeRunner.
type FakeRunnerBuilder struct {
	t      testing.TB
	runner *FakeRunner
}

// NewFakeRunnerBuilder starts a FakeRunner with no commands on PATH.
func NewFakeRunnerBuilder(t testing.TB) *FakeRunnerBuilder {
	t.Helper()
	return &FakeRunnerBuilder{
		t: t,
		runner: &FakeRunner{
			paths: make(map[string]string),
			now:   time.Now,
		},
	}
}

// WithCommands makes names resolvable through LookPath.
func (b *FakeRunnerBuilder) WithCommands(names ...string) *FakeRunnerBuilder {
	for _, name := range names {
		b.runner.paths[name] = filepath.Join("/usr/bin", name)
	}
	return b
}

// WithHandler scripts every command whose line equals prefix or starts with
// prefix followed by a space. Later handlers win.
func (b *FakeRunnerBuilder) WithHandler(prefix string, h Handler) *FakeRunnerBuilder {
	b.runner.rules = append(b.runner.rules, rule{prefix: prefix, handler: h})
	return b
}

// WithOutput makes matching commands succeed printing stdout.
func (b *FakeRunnerBuilder) WithOutput(prefix, stdout string) *FakeRunnerBuilder {
	return b.WithHandler(prefix, func(shell.Command) (string, int) { return stdout, 0 })
}

// WithFailure makes matching commands exit with code.
func (b *FakeRunnerBuilder) WithFailure(prefix string, code int) *FakeRunnerBuilder {
	return b.WithHandler(prefix, func(shell.Command) (string, int) { return "", code })
}

// Build returns the configured runner.
func (b *FakeRunnerBuilder) Build() *FakeRunner {
	b.t.Helper()
	return b.runner
}

// Run implements shell.Runner.
func (f *FakeRunner) Run(_ context.Context, cmd shell.Command) error {
	stdout, err := f.dispatch(cmd)
	if stdout != "" && cmd.Stdout != nil {
		_, _ = io.WriteString(cmd.Stdout, stdout)
	}
	return err
}

// Output implements shell.Runner.
func (f *FakeRunner) Output(_ context.Context, cmd shell.Command) (string, error) {
	stdout, err := f.dispatch(cmd)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout), nil
}

// LookPath implements shell.Runner.
func (f *FakeRunner) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.paths[name]; ok {
		return p, nil
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

func (f *FakeRunner) dispatch(cmd shell.Command) (string, error) {
	record := CallRecord{
		Name: cmd.Name,
		Args: append([]string(nil), cmd.Args...),
		Dir:  cmd.Dir,
		Env:  append([]string(nil), cmd.Env...),
	}
	if cmd.Stdin != nil {
		data, _ := io.ReadAll(cmd.Stdin)
		record.Stdin = string(data)
	}

	var stdout string
	if h := f.match(record.Line()); h != nil {
		stdout, record.ExitCode = h(cmd)
	}
	if record.ExitCode != 0 {
		record.Error = clierrors.CommandFailed(record.Line(), record.ExitCode, fmt.Errorf("exit status %d", record.ExitCode))
	}

	f.mu.Lock()
	record.Timestamp = f.now()
	f.calls = append(f.calls, record)
	f.mu.Unlock()

	return stdout, record.Error
}

func (f *FakeRunner) match(line string) Handler {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.rules) - 1; i >= 0; i-- {
		p := f.rules[i].prefix
		if line == p || strings.HasPrefix(line, p+" ") {
			return f.rules[i].handler
		}
	}
	return nil
}

// Calls returns a copy of every recorded call in order.
func (f *FakeRunner) Calls() []CallRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]CallRecord(nil), f.calls...)
}

// CallLines returns the command line of every recorded call in order.
func (f *FakeRunner) CallLines() []string {
	calls := f.Calls()
	lines := make([]string, 0, len(calls))
	for _, c := range calls {
		lines = append(lines, c.Line())
	}
	return lines
}

// CallsMatching returns the calls whose line starts with prefix.
func (f *FakeRunner) CallsMatching(prefix string) []CallRecord {
	var out []CallRecord
	for _, c := range f.Calls() {
		if line := c.Line(); line == prefix || strings.HasPrefix(line, prefix+" ") {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded calls and keeps the scripted behavior.
func (f *FakeRunner) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}
