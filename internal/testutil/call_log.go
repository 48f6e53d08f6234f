package testutil

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// CallLogEntry is the YAML form of a CallRecord.
type CallLogEntry struct {
	Command   string   `yaml:"command"`
	Dir       string   `yaml:"dir,omitempty"`
	Env       []string `yaml:"env,omitempty"`
	Stdin     string   `yaml:"stdin,omitempty"`
	Timestamp string   `yaml:"timestamp"`
	Error     string   `yaml:"error,omitempty"`
	ExitCode  int      `yaml:"exit_code"`
}

// CallLog wraps []CallLogEntry for YAML serialization.
type CallLog struct {
	Entries []CallLogEntry `yaml:"entries"`
}

// WriteCallLog writes records to a YAML file, for inspecting a failed
// bootstrap test after the fact.
func WriteCallLog(path string, records []CallRecord) error {
	log := CallLog{Entries: make([]CallLogEntry, 0, len(records))}
	for _, r := range records {
		log.Entries = append(log.Entries, callRecordToEntry(r))
	}

	data, err := yaml.Marshal(log)
	if err != nil {
		return fmt.Errorf("marshaling call log to YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing call log to %s: %w", path, err)
	}
	return nil
}

func callRecordToEntry(r CallRecord) CallLogEntry {
	entry := CallLogEntry{
		Command:   r.Line(),
		Dir:       r.Dir,
		Env:       r.Env,
		Stdin:     r.Stdin,
		Timestamp: r.Timestamp.Format(time.RFC3339Nano),
		ExitCode:  r.ExitCode,
	}
	if r.Error != nil {
		entry.Error = r.Error.Error()
	}
	return entry
}

// ReadCallLog reads a YAML call log file.
func ReadCallLog(path string) (*CallLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading call log from %s: %w", path, err)
	}

	var log CallLog
	if err := yaml.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("unmarshaling call log YAML: %w", err)
	}
	return &log, nil
}

// Commands returns the command line of every entry.
func (log *CallLog) Commands() []string {
	out := make([]string, 0, len(log.Entries))
	for _, e := range log.Entries {
		out = append(out, e.Command)
	}
	return out
}

// HasError returns true if the entry has a non-empty error string.
func (e CallLogEntry) HasError() bool {
	return e.Error != ""
}
