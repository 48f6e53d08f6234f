package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndReadCallLog(t *testing.T) {
	ts := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	tests := map[string]struct {
		records      []CallRecord
		wantCommands []string
		wantError    string
		wantExitCode int
	}{
		"successful call": {
			records: []CallRecord{{
				Name:      "poetry",
				Args:      []string{"config", "virtualenvs.in-project", "true", "--local"},
				Dir:       "/project",
				Timestamp: ts,
			}},
			wantCommands: []string{"poetry config virtualenvs.in-project true --local"},
		},
		"failed call": {
			records: []CallRecord{{
				Name:      "poetry",
				Args:      []string{"add", "bogus"},
				Timestamp: ts,
				ExitCode:  1,
				Error:     errors.New("exit status 1"),
			}},
			wantCommands: []string{"poetry add bogus"},
			wantError:    "exit status 1",
			wantExitCode: 1,
		},
		"multiple calls keep order": {
			records: []CallRecord{
				{Name: "git", Args: []string{"--version"}, Timestamp: ts},
				{Name: "python3", Args: []string{"-"}, Stdin: "print(1)", Timestamp: ts},
			},
			wantCommands: []string{"git --version", "python3 -"},
		},
		"empty log": {
			records:      nil,
			wantCommands: []string{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "calls.yml")

			require.NoError(t, WriteCallLog(path, tt.records))
			log, err := ReadCallLog(path)
			require.NoError(t, err)

			assert.Equal(t, tt.wantCommands, log.Commands())
			if len(log.Entries) > 0 {
				first := log.Entries[0]
				assert.Equal(t, tt.wantError, first.Error)
				assert.Equal(t, tt.wantError != "", first.HasError())
				assert.Equal(t, tt.wantExitCode, first.ExitCode)
				assert.Equal(t, ts.Format(time.RFC3339Nano), first.Timestamp)
			}
		})
	}
}

func TestReadCallLogErrors(t *testing.T) {
	_, err := ReadCallLog(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("entries: [\n"), 0o644))
	_, err = ReadCallLog(bad)
	assert.Error(t, err)
}
