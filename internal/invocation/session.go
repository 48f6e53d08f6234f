package invocation

import (
	"fmt"
	"os"
	"strings"

	clierrors "github.com/ariel-frischer/devsetup/internal/errors"
)

// Environment markers set by the wrapper function.
const (
	EnvSourced      = "DEVSETUP_SOURCED"
	EnvShell        = "DEVSETUP_SHELL"
	EnvActivateFile = "DEVSETUP_ACTIVATE_FILE"
)

// Mode is how the current run was invoked.
type Mode int

const (
	// Executed is a plain process invocation.
	Executed Mode = iota
	// Sourced is an invocation through the shell-init wrapper function.
	Sourced
)

// String returns the mode name.
func (m Mode) String() string {
	if m == Sourced {
		return "sourced"
	}
	return "executed"
}

// Shell selects the syntax of deferred statements and wrapper scripts.
type Shell string

const (
	Posix      Shell = "posix"
	PowerShell Shell = "powershell"
)

// ParseShell maps a user-supplied name to a Shell.
func ParseShell(name string) (Shell, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "posix", "sh", "bash", "zsh", "dash":
		return Posix, nil
	case "powershell", "pwsh", "ps":
		return PowerShell, nil
	default:
		return "", clierrors.NewArgumentErrorWithUsage(
			fmt.Sprintf("unsupported shell: %s", name),
			"devsetup shell-init [posix|powershell]",
		)
	}
}

// Detect determines the invocation mode from the environment. Both the
// marker and an activation file are required; a stray DEVSETUP_SOURCED alone
// leaves nowhere to put statements.
func Detect(getenv func(string) string) Mode {
	if getenv(EnvSourced) == "1" && getenv(EnvActivateFile) != "" {
		return Sourced
	}
	return Executed
}

// Session is the immutable invocation context of one run plus the queue of
// statements the wrapper should evaluate in the caller's shell.
type Session struct {
	mode         Mode
	shell        Shell
	activateFile string
	statements   []string
}

// NewSession builds a Session from the environment.
func NewSession(getenv func(string) string) *Session {
	s := &Session{mode: Detect(getenv), shell: Posix}
	if s.mode == Sourced {
		s.activateFile = getenv(EnvActivateFile)
		if sh, err := ParseShell(getenv(EnvShell)); err == nil {
			s.shell = sh
		}
	}
	return s
}

// FromEnv builds a Session from the process environment.
func FromEnv() *Session {
	return NewSession(os.Getenv)
}

// Mode returns the invocation mode.
func (s *Session) Mode() Mode { return s.mode }

// Shell returns the wrapper's shell syntax.
func (s *Session) Shell() Shell { return s.shell }

// IsSourced reports whether the run can change the caller's environment.
func (s *Session) IsSourced() bool { return s.mode == Sourced }

// SafeExit ends the run with code. It never terminates the process: the
// returned error travels up to the CLI layer, which sets the process status.
// In Sourced mode the wrapper turns that status into `return`, so the user's
// shell survives.
func (s *Session) SafeExit(code int, cause error) error {
	return clierrors.NewExitError(code, cause)
}

// ExportPath queues appending dir to the caller's PATH. Callers check
// containment first (envpath.Ensure) so the statement is queued once.
func (s *Session) ExportPath(dir string) {
	if !s.IsSourced() {
		return
	}
	switch s.shell {
	case PowerShell:
		s.statements = append(s.statements,
			fmt.Sprintf("$env:PATH = $env:PATH + [IO.Path]::PathSeparator + %s", quotePowerShell(dir)))
	default:
		s.statements = append(s.statements,
			fmt.Sprintf("export PATH=\"$PATH\":%s", quotePosix(dir)))
	}
}

// Source queues running script inside the caller's shell.
func (s *Session) Source(script string) {
	if !s.IsSourced() {
		return
	}
	switch s.shell {
	case PowerShell:
		s.statements = append(s.statements, ". "+quotePowerShell(script))
	default:
		s.statements = append(s.statements, ". "+quotePosix(script))
	}
}

// Statements returns the queued statements in order.
func (s *Session) Statements() []string {
	return append([]string(nil), s.statements...)
}

// Flush writes the queued statements to the activation file. It is a no-op
// in Executed mode. The file is rewritten so a failed run leaves it empty
// apart from statements queued before the failure.
func (s *Session) Flush() error {
	if !s.IsSourced() {
		return nil
	}
	var b strings.Builder
	for _, stmt := range s.statements {
		b.WriteString(stmt)
		b.WriteString("\n")
	}
	if err := os.WriteFile(s.activateFile, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("writing activation file %s: %w", s.activateFile, err)
	}
	return nil
}

func quotePosix(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func quotePowerShell(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
