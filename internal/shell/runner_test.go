package shell

import (
	"bytes"
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clierrors "github.com/ariel-frischer/devsetup/internal/errors"
)

func TestExecRunner_FailureKeepsExitStatus(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	tests := map[string]struct {
		run  func(r *ExecRunner, cmd Command) error
		want int
	}{
		"run": {
			run:  func(r *ExecRunner, cmd Command) error { return r.Run(context.Background(), cmd) },
			want: 3,
		},
		"output": {
			run: func(r *ExecRunner, cmd Command) error {
				_, err := r.Output(context.Background(), cmd)
				return err
			},
			want: 3,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			r := &ExecRunner{Stdout: &out, Stderr: &out}

			err := tt.run(r, Command{Name: "sh", Args: []string{"-c", "echo nope >&2; exit 3"}})

			require.Error(t, err)
			assert.Equal(t, tt.want, ExitStatus(err))
			assert.Equal(t, tt.want, clierrors.ExitCode(err))
			assert.Contains(t, err.Error(), "command failed: sh -c")
		})
	}
}

func TestExitStatus(t *testing.T) {
	assert.Equal(t, 0, ExitStatus(nil))
	assert.Equal(t, -1, ExitStatus(assert.AnError))
}

func TestExecRunner_OutputTrims(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	r := &ExecRunner{}

	got, err := r.Output(context.Background(), Command{Name: "sh", Args: []string{"-c", "printf ' 1.8.3 \\n'"}})

	require.NoError(t, err)
	assert.Equal(t, "1.8.3", got)
}
