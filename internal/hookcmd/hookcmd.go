// Package hookcmd implements the commands the installed git hooks call:
// a guard against committing to protected branches and a path header fixer
// for Python sources.
package hookcmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	clierrors "github.com/ariel-frischer/devsetup/internal/errors"
)

// BlockBranch fails when branch is one of protected. An empty branch
// (detached HEAD) is allowed.
func BlockBranch(branch string, protected []string) error {
	if branch == "" {
		return nil
	}
	for _, p := range protected {
		if branch == p {
			return clierrors.ProtectedBranchCommit(branch)
		}
	}
	return nil
}

// Header returns the "# <path>" line for path, where path is relative to
// repoRoot with forward slashes. Files outside repoRoot use their base name.
func Header(path, repoRoot string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel := filepath.Base(abs)
	if repoRoot != "" {
		if r, err := filepath.Rel(repoRoot, abs); err == nil && r != ".." && !strings.HasPrefix(r, ".."+string(filepath.Separator)) {
			rel = r
		}
	}
	return "# " + filepath.ToSlash(rel), nil
}

// EnsureHeader makes the first line of the file at path its header comment.
// An existing "# " first line is replaced when it differs; otherwise the
// header is inserted. It reports whether the file changed.
func EnsureHeader(path, repoRoot string) (bool, error) {
	header, err := Header(path, repoRoot)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	updated, changed := applyHeader(string(data), header)
	if !changed {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}

func applyHeader(content, header string) (string, bool) {
	first, rest, hasNewline := strings.Cut(content, "\n")
	eol := "\n"
	if strings.HasSuffix(first, "\r") {
		eol = "\r\n"
		first = strings.TrimSuffix(first, "\r")
	}

	if strings.HasPrefix(first, "# ") {
		if first == header {
			return content, false
		}
		if !hasNewline {
			return header + "\n", true
		}
		return header + eol + rest, true
	}
	return header + eol + content, true
}

// EnsureHeaders runs EnsureHeader for every .py file in paths and returns
// the ones it changed. Other files are ignored.
func EnsureHeaders(paths []string, repoRoot string) ([]string, error) {
	var changed []string
	for _, p := range paths {
		if !strings.HasSuffix(p, ".py") {
			continue
		}
		ok, err := EnsureHeader(p, repoRoot)
		if err != nil {
			return changed, err
		}
		if ok {
			changed = append(changed, p)
		}
	}
	return changed, nil
}
