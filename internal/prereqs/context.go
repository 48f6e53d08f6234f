// Package prereqs verifies that the external commands devsetup shells out to
// are resolvable before any step mutates the project.
package prereqs

import (
	clierrors "github.com/ariel-frischer/devsetup/internal/errors"
)

// LookPathFunc resolves a command name to an executable path.
type LookPathFunc func(name string) (string, error)

// Status is the resolution result for one command.
type Status struct {
	Name  string
	Path  string
	Found bool
}

// RequireCommand returns a "missing dependency" Prerequisite error (exit 1)
// when name cannot be resolved.
func RequireCommand(lookPath LookPathFunc, name string) error {
	if _, err := lookPath(name); err != nil {
		cliErr := clierrors.MissingDependency(name)
		cliErr.Err = err
		return cliErr
	}
	return nil
}

// RequireCommands checks names in order and stops at the first missing one.
func RequireCommands(lookPath LookPathFunc, names ...string) error {
	for _, name := range names {
		if err := RequireCommand(lookPath, name); err != nil {
			return err
		}
	}
	return nil
}

// Check resolves every name without failing, for reporting.
func Check(lookPath LookPathFunc, names ...string) []Status {
	out := make([]Status, 0, len(names))
	for _, name := range names {
		path, err := lookPath(name)
		out = append(out, Status{Name: name, Path: path, Found: err == nil})
	}
	return out
}

// Commands returns the hard prerequisites: the interpreter followed by any
// extra commands, without duplicates.
func Commands(interpreter string, extra []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, name := range append([]string{interpreter}, extra...) {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
