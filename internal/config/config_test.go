package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func loadIsolated(t *testing.T, projectDir string) (*Configuration, error) {
	t.Helper()
	return LoadWithOptions(LoadOptions{
		ProjectDir:     projectDir,
		UserConfigPath: filepath.Join(t.TempDir(), "missing.yml"),
		WarningWriter:  &bytes.Buffer{},
	})
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadIsolated(t, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultInstallerURL, cfg.InstallerURL)
	assert.Equal(t, "pyproject.toml", cfg.ManifestFile)
	assert.Equal(t, "requirements.txt", cfg.RequirementsFile)
	assert.Equal(t, "hooks", cfg.HooksDir)
	assert.True(t, cfg.InProjectVenv)
	assert.False(t, cfg.DisablePackageMode)
	assert.False(t, cfg.Debug)
	assert.Equal(t, []string{"s", "sim", "y", "yes"}, cfg.ConfirmAnswers)
	assert.Equal(t, []string{"main", "master"}, cfg.ProtectedBranches)
}

func TestLoadPriority(t *testing.T) {
	dir := t.TempDir()
	userPath := filepath.Join(t.TempDir(), "config.yml")
	writeFile(t, userPath, "manifest_file: user.toml\nhooks_dir: user-hooks\n")
	writeFile(t, ProjectConfigPath(dir), "hooks_dir: project-hooks\n")
	t.Setenv("DEVSETUP_REQUIREMENTS_FILE", "env.txt")

	cfg, err := LoadWithOptions(LoadOptions{ProjectDir: dir, UserConfigPath: userPath})
	require.NoError(t, err)

	assert.Equal(t, "user.toml", cfg.ManifestFile, "user config overrides defaults")
	assert.Equal(t, "project-hooks", cfg.HooksDir, "project config overrides user config")
	assert.Equal(t, "env.txt", cfg.RequirementsFile, "environment overrides files")
}

func TestLoadProjectJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, ProjectJSONConfigPath(dir), `{"disable_package_mode": true, "interpreter": "python3.12"}`)

	cfg, err := loadIsolated(t, dir)
	require.NoError(t, err)
	assert.True(t, cfg.DisablePackageMode)
	assert.Equal(t, "python3.12", cfg.Interpreter)
}

func TestLoadWarnsWhenBothProjectFilesExist(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, ProjectConfigPath(dir), "hooks_dir: from-yaml\n")
	writeFile(t, ProjectJSONConfigPath(dir), `{"hooks_dir": "from-json"}`)
	var warnings bytes.Buffer

	cfg, err := LoadWithOptions(LoadOptions{
		ProjectDir:     dir,
		SkipUserConfig: true,
		WarningWriter:  &warnings,
	})
	require.NoError(t, err)
	assert.Equal(t, "from-yaml", cfg.HooksDir)
	assert.Contains(t, warnings.String(), "both")
}

func TestLoadExplicitConfigPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yml")
	writeFile(t, path, "assume_yes: true\n")

	cfg, err := LoadWithOptions(LoadOptions{ProjectDir: t.TempDir(), ConfigPath: path, SkipUserConfig: true})
	require.NoError(t, err)
	assert.True(t, cfg.AssumeYes)

	_, err = LoadWithOptions(LoadOptions{ConfigPath: filepath.Join(t.TempDir(), "nope.yml"), SkipUserConfig: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestDebugToggle(t *testing.T) {
	tests := map[string]struct {
		value string
		want  bool
	}{
		"literal true":   {value: "true", want: true},
		"uppercase":      {value: "TRUE", want: false},
		"one":            {value: "1", want: false},
		"yes":            {value: "yes", want: false},
		"explicit false": {value: "false", want: false},
		"empty":          {value: "", want: false},
		"padded true":    {value: " true", want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("DEVSETUP_DEBUG", tt.value)
			cfg, err := loadIsolated(t, t.TempDir())
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Debug)
		})
	}
}

func TestEnvListValues(t *testing.T) {
	t.Setenv("DEVSETUP_REQUIRED_COMMANDS", "git, make  curl")
	t.Setenv("DEVSETUP_PROTECTED_BRANCHES", "trunk")

	cfg, err := loadIsolated(t, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, []string{"git", "make", "curl"}, cfg.RequiredCommands)
	assert.Equal(t, []string{"trunk"}, cfg.ProtectedBranches)
}

func TestWrapperMarkersAreNotConfigKeys(t *testing.T) {
	t.Setenv("DEVSETUP_SOURCED", "1")
	t.Setenv("DEVSETUP_SHELL", "posix")
	t.Setenv("DEVSETUP_ACTIVATE_FILE", "/tmp/x")

	key, value := envTransform("DEVSETUP_SOURCED", "1")
	assert.Empty(t, key)
	assert.Nil(t, value)

	_, err := loadIsolated(t, t.TempDir())
	require.NoError(t, err)
}

func TestValidateConfigValues(t *testing.T) {
	valid := func() *Configuration {
		return &Configuration{
			Interpreter:      "python3",
			InstallerURL:     DefaultInstallerURL,
			ManifestFile:     "pyproject.toml",
			RequirementsFile: "requirements.txt",
			HooksDir:         "hooks",
			ConfirmAnswers:   []string{"y"},
		}
	}

	tests := map[string]struct {
		mutate    func(*Configuration)
		wantField string
	}{
		"valid":               {mutate: func(*Configuration) {}},
		"empty interpreter":   {mutate: func(c *Configuration) { c.Interpreter = " " }, wantField: "interpreter"},
		"relative url":        {mutate: func(c *Configuration) { c.InstallerURL = "install.python-poetry.org" }, wantField: "installer_url"},
		"ftp url":             {mutate: func(c *Configuration) { c.InstallerURL = "ftp://example.com/x" }, wantField: "installer_url"},
		"no answers":          {mutate: func(c *Configuration) { c.ConfirmAnswers = nil }, wantField: "confirm_answers"},
		"blank answer":        {mutate: func(c *Configuration) { c.ConfirmAnswers = []string{""} }, wantField: "confirm_answers"},
		"command with spaces": {mutate: func(c *Configuration) { c.RequiredCommands = []string{"poetry run"} }, wantField: "required_commands"},
		"empty hooks dir":     {mutate: func(c *Configuration) { c.HooksDir = "" }, wantField: "hooks_dir"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := ValidateConfigValues(cfg, "config.yml")
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestValidateYAMLSyntax(t *testing.T) {
	tests := map[string]struct {
		content  string
		wantErr  bool
		wantLine bool
	}{
		"valid":      {content: "hooks_dir: hooks\n"},
		"empty":      {content: "   \n"},
		"bad indent": {content: "hooks_dir: hooks\n  manifest_file: x\n bad: [\n", wantErr: true, wantLine: true},
		"unclosed":   {content: "confirm_answers: [y, yes\n", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yml")
			writeFile(t, path, tt.content)
			err := ValidateYAMLSyntax(path)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, path, vErr.FilePath)
			if tt.wantLine {
				assert.Positive(t, vErr.Line)
			}
		})
	}

	assert.NoError(t, ValidateYAMLSyntax(filepath.Join(t.TempDir(), "missing.yml")))
}

func TestLoadRejectsInvalidProjectYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, ProjectConfigPath(dir), "hooks_dir: [unclosed\n")

	_, err := loadIsolated(t, dir)
	require.Error(t, err)
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestIsAffirmative(t *testing.T) {
	cfg := &Configuration{ConfirmAnswers: []string{"s", "sim", "y", "yes"}}

	tests := map[string]struct {
		answer string
		want   bool
	}{
		"s":          {answer: "s", want: true},
		"SIM":        {answer: "SIM", want: true},
		"Yes padded": {answer: "  Yes\n", want: true},
		"no":         {answer: "n", want: false},
		"empty":      {answer: "", want: false},
		"prefix":     {answer: "ye", want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.IsAffirmative(tt.answer))
		})
	}
}

func TestDefaultConfigTemplateParses(t *testing.T) {
	assert.NoError(t, ValidateYAMLSyntaxFromBytes([]byte(GetDefaultConfigTemplate()), "template"))
	assert.Contains(t, GetDefaultConfigTemplate(), "installer_url: "+DefaultInstallerURL)
}

func TestDefaultInterpreter(t *testing.T) {
	assert.Equal(t, "python", DefaultInterpreter("windows"))
	assert.Equal(t, "python3", DefaultInterpreter("linux"))
	assert.Equal(t, "python3", DefaultInterpreter("darwin"))
}
