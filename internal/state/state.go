// Package state reads and writes .devsetup/state.yml, the record of the last
// successful bootstrap run. The record is informational: `devsetup doctor`
// reports it, but no bootstrap step trusts it over the real filesystem.
package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// SchemaVersion is the current version of the state.yml schema.
const SchemaVersion = "1.0.0"

// DefaultFileName is the name of the state file inside .devsetup/.
const DefaultFileName = "state.yml"

// Record is the contents of .devsetup/state.yml.
type Record struct {
	// Version is the schema version for future compatibility.
	Version string `yaml:"version"`

	// DevsetupVersion is the version of devsetup that wrote the record.
	DevsetupVersion string `yaml:"devsetup_version"`

	PoetryExecutable string `yaml:"poetry_executable"`
	// PoetryState is "installed" when this devsetup run installed Poetry.
	PoetryState string `yaml:"poetry_state"`

	VenvPath string   `yaml:"venv_path,omitempty"`
	HooksDir string   `yaml:"hooks_dir,omitempty"`
	Hooks    []string `yaml:"hooks,omitempty"`

	// Requirements is the number of requirement lines imported.
	Requirements int `yaml:"requirements"`

	// Runs counts successful runs in this project.
	Runs int `yaml:"runs"`

	CreatedAt   time.Time `yaml:"created_at"`
	CompletedAt time.Time `yaml:"completed_at"`
}

// PathFor returns the state file path under projectDir.
func PathFor(projectDir string) string {
	return filepath.Join(projectDir, ".devsetup", DefaultFileName)
}

// LoadFrom reads the record at path.
// Returns an error wrapping os.ErrNotExist when there is none.
func LoadFrom(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing state YAML: %w", err)
	}
	return &rec, nil
}

// SaveTo writes the record to path, creating the parent directory.
func (r *Record) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	return nil
}

// NewRecord creates a Record for a run that completed at now.
func NewRecord(devsetupVersion string, now time.Time) *Record {
	return &Record{
		Version:         SchemaVersion,
		DevsetupVersion: devsetupVersion,
		CreatedAt:       now,
		CompletedAt:     now,
		Runs:            1,
	}
}

// Update writes rec to path, carrying over the creation time and run count
// from any record already there. A corrupt existing record is replaced.
func Update(path string, rec *Record) error {
	prev, err := LoadFrom(path)
	switch {
	case err == nil:
		if !prev.CreatedAt.IsZero() {
			rec.CreatedAt = prev.CreatedAt
		}
		rec.Runs = prev.Runs + 1
	case errors.Is(err, os.ErrNotExist):
	default:
		rec.Runs = 1
	}
	if rec.Version == "" {
		rec.Version = SchemaVersion
	}
	return rec.SaveTo(path)
}
