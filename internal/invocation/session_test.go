package invocation

import (
	"os"
	"path/filepath"
	"testing"

	clierrors "github.com/ariel-frischer/devsetup/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDetect(t *testing.T) {
	tests := map[string]struct {
		env  map[string]string
		want Mode
	}{
		"no markers":            {env: map[string]string{}, want: Executed},
		"marker without file":   {env: map[string]string{EnvSourced: "1"}, want: Executed},
		"marker must equal one": {env: map[string]string{EnvSourced: "true", EnvActivateFile: "/tmp/x"}, want: Executed},
		"wrapper invocation":    {env: map[string]string{EnvSourced: "1", EnvActivateFile: "/tmp/x"}, want: Sourced},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(envMap(tt.env)))
		})
	}
}

func TestSafeExitNeverTerminates(t *testing.T) {
	modes := map[string]map[string]string{
		"executed": {},
		"sourced":  {EnvSourced: "1", EnvActivateFile: filepath.Join(t.TempDir(), "activate")},
	}

	for name, env := range modes {
		t.Run(name, func(t *testing.T) {
			s := NewSession(envMap(env))

			for _, code := range []int{0, 1} {
				err := s.SafeExit(code, nil)
				require.Error(t, err, "SafeExit always hands the status back to the caller")
				assert.Equal(t, code, clierrors.ExitCode(err))
			}
		})
	}
}

func TestSessionQueuesStatementsOnlyWhenSourced(t *testing.T) {
	executed := NewSession(envMap(nil))
	executed.ExportPath("/home/me/.local/bin")
	executed.Source("/proj/.venv/bin/activate")
	assert.Empty(t, executed.Statements())
	assert.NoError(t, executed.Flush())

	file := filepath.Join(t.TempDir(), "activate")
	sourced := NewSession(envMap(map[string]string{EnvSourced: "1", EnvActivateFile: file}))
	sourced.ExportPath("/home/me/.local/bin")
	sourced.Source("/proj/it's/.venv/bin/activate")

	require.NoError(t, sourced.Flush())
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t,
		"export PATH=\"$PATH\":'/home/me/.local/bin'\n"+
			". '/proj/it'\\''s/.venv/bin/activate'\n",
		string(data))
}

func TestSessionPowerShellSyntax(t *testing.T) {
	file := filepath.Join(t.TempDir(), "activate.ps1")
	s := NewSession(envMap(map[string]string{
		EnvSourced:      "1",
		EnvActivateFile: file,
		EnvShell:        "powershell",
	}))
	assert.Equal(t, PowerShell, s.Shell())

	s.ExportPath(`C:\Users\me\AppData\Roaming\Python\Scripts`)
	s.Source(`C:\proj\.venv\Scripts\Activate.ps1`)

	assert.Equal(t, []string{
		`$env:PATH = $env:PATH + [IO.Path]::PathSeparator + 'C:\Users\me\AppData\Roaming\Python\Scripts'`,
		`. 'C:\proj\.venv\Scripts\Activate.ps1'`,
	}, s.Statements())
}

func TestParseShell(t *testing.T) {
	tests := map[string]struct {
		in      string
		want    Shell
		wantErr bool
	}{
		"default":  {in: "", want: Posix},
		"bash":     {in: "bash", want: Posix},
		"zsh":      {in: "ZSH", want: Posix},
		"pwsh":     {in: "pwsh", want: PowerShell},
		"unknown":  {in: "fish", wantErr: true},
		"whitespc": {in: " powershell ", want: PowerShell},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseShell(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
