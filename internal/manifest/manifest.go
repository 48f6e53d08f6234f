// Package manifest inspects and edits the project's pyproject.toml.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// State reports whether the manifest exists.
type State struct {
	Path   string
	Exists bool
}

// Stat returns the State of the manifest at path.
func Stat(path string) State {
	info, err := os.Stat(path)
	return State{Path: path, Exists: err == nil && !info.IsDir()}
}

type document struct {
	Tool struct {
		Poetry map[string]interface{} `toml:"poetry"`
	} `toml:"tool"`
}

var errOutsideTable = errors.New("package-mode is set outside the [tool.poetry] table; edit it by hand")

var (
	poetryHeader   = regexp.MustCompile(`^\s*\[\s*tool\s*\.\s*poetry\s*\]\s*(#.*)?$`)
	tableHeader    = regexp.MustCompile(`^\s*\[`)
	packageModeKey = regexp.MustCompile(`^\s*["']?package-mode["']?\s*=`)
)

// PackageMode returns the [tool.poetry] package-mode value and whether the
// key is set.
func PackageMode(data []byte) (enabled, present bool, err error) {
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return false, false, fmt.Errorf("parsing manifest: %w", err)
	}
	v, ok := doc.Tool.Poetry["package-mode"]
	if !ok {
		return true, false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, true, fmt.Errorf("package-mode must be a boolean, got %T", v)
	}
	return b, true, nil
}

// EnsurePackageModeDisabled sets package-mode = false under [tool.poetry] in
// the file at path. Comments and layout are kept. It reports whether the file
// changed.
func EnsurePackageModeDisabled(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	updated, changed, err := DisablePackageMode(data)
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	if !changed {
		return false, nil
	}
	if err := os.WriteFile(path, updated, info.Mode().Perm()); err != nil {
		return false, err
	}
	return true, nil
}

// DisablePackageMode returns data with package-mode = false under
// [tool.poetry]. The result is checked to parse with the value applied.
func DisablePackageMode(data []byte) ([]byte, bool, error) {
	enabled, present, err := PackageMode(data)
	if err != nil {
		return nil, false, err
	}
	if present && !enabled {
		return data, false, nil
	}

	lines := strings.Split(string(data), "\n")
	header := -1
	for i, line := range lines {
		if poetryHeader.MatchString(line) {
			header = i
			break
		}
	}

	const entry = "package-mode = false"
	switch {
	case header < 0 && present:
		return nil, false, errOutsideTable
	case header < 0:
		text := strings.TrimRight(string(data), "\n")
		if text != "" {
			text += "\n\n"
		}
		lines = strings.Split(text+"[tool.poetry]\n"+entry+"\n", "\n")
	case present:
		replaced := false
		for i := header + 1; i < len(lines) && !tableHeader.MatchString(lines[i]); i++ {
			if packageModeKey.MatchString(lines[i]) {
				lines[i] = entry
				replaced = true
				break
			}
		}
		if !replaced {
			return nil, false, errOutsideTable
		}
	default:
		lines = append(lines[:header+1], append([]string{entry}, lines[header+1:]...)...)
	}

	out := []byte(strings.Join(lines, "\n"))
	enabled, present, err = PackageMode(out)
	if err != nil {
		return nil, false, fmt.Errorf("edited manifest is invalid: %w", err)
	}
	if !present || enabled {
		return nil, false, fmt.Errorf("could not set package-mode in [tool.poetry]")
	}
	return out, true, nil
}
