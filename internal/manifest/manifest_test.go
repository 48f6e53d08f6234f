package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pyproject.toml")

	assert.Equal(t, State{Path: path, Exists: false}, Stat(path))
	require.NoError(t, os.WriteFile(path, []byte("[tool.poetry]\n"), 0o644))
	assert.True(t, Stat(path).Exists)
	assert.False(t, Stat(dir).Exists, "directories are not manifests")
}

func TestDisablePackageMode(t *testing.T) {
	tests := map[string]struct {
		input       string
		want        string
		wantChanged bool
		wantErr     bool
	}{
		"inserted under header": {
			input:       "[tool.poetry]\nname = \"demo\"\n\n[build-system]\nrequires = [\"poetry-core\"]\n",
			want:        "[tool.poetry]\npackage-mode = false\nname = \"demo\"\n\n[build-system]\nrequires = [\"poetry-core\"]\n",
			wantChanged: true,
		},
		"true is replaced": {
			input:       "# project\n[tool.poetry]\nname = \"demo\"\npackage-mode = true # lib\n",
			want:        "# project\n[tool.poetry]\nname = \"demo\"\npackage-mode = false\n",
			wantChanged: true,
		},
		"already disabled": {
			input: "[tool.poetry]\npackage-mode = false\n",
			want:  "[tool.poetry]\npackage-mode = false\n",
		},
		"table appended when missing": {
			input:       "[project]\nname = \"demo\"\n",
			want:        "[project]\nname = \"demo\"\n\n[tool.poetry]\npackage-mode = false\n",
			wantChanged: true,
		},
		"empty manifest": {
			input:       "",
			want:        "[tool.poetry]\npackage-mode = false\n",
			wantChanged: true,
		},
		"header with comment": {
			input:       "[tool.poetry] # settings\nname = \"demo\"\n",
			want:        "[tool.poetry] # settings\npackage-mode = false\nname = \"demo\"\n",
			wantChanged: true,
		},
		"invalid toml": {
			input:   "[tool.poetry\nname =",
			wantErr: true,
		},
		"non boolean value": {
			input:   "[tool.poetry]\npackage-mode = \"no\"\n",
			wantErr: true,
		},
		"dotted key elsewhere": {
			input:   "tool.poetry.package-mode = true\n",
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, changed, err := DisablePackageMode([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestEnsurePackageModeDisabledIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pyproject.toml")
	require.NoError(t, os.WriteFile(path, []byte("[tool.poetry]\nname = \"demo\"\n"), 0o600))

	changed, err := EnsurePackageModeDisabled(path)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = EnsurePackageModeDisabled(path)
	require.NoError(t, err)
	assert.False(t, changed, "second run leaves the file alone")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	enabled, present, err := PackageMode(data)
	require.NoError(t, err)
	assert.True(t, present)
	assert.False(t, enabled)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestEnsurePackageModeDisabledMissingFile(t *testing.T) {
	_, err := EnsurePackageModeDisabled(filepath.Join(t.TempDir(), "pyproject.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
