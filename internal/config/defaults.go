package config

import "runtime"

// DefaultInstallerURL serves the official Poetry install script.
const DefaultInstallerURL = "https://install.python-poetry.org"

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# devsetup configuration
# Every key can be overridden with a DEVSETUP_<KEY> environment variable.

# Prerequisites
interpreter: ` + DefaultInterpreter(runtime.GOOS) + `              # Python runtime that runs the Poetry installer
required_commands: []                 # Extra commands that must be on PATH

# Poetry
installer_url: ` + DefaultInstallerURL + `
in_project_venv: true                 # poetry config virtualenvs.in-project true --local
disable_package_mode: false           # Write package-mode = false under [tool.poetry]

# Project files
manifest_file: pyproject.toml
requirements_file: requirements.txt   # Imported line by line with poetry add
hooks_dir: hooks                      # Copied into .git/hooks

# Prompts
assume_yes: false                     # Answer yes to every prompt
confirm_answers: [s, sim, y, yes]     # Accepted (case-insensitive) affirmative answers

# Hooks
protected_branches: [main, master]    # Refused by 'devsetup hook block-branch'
`
}

// DefaultInterpreter returns the Python command for goos.
func DefaultInterpreter(goos string) string {
	if goos == "windows" {
		return "python"
	}
	return "python3"
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"interpreter":       DefaultInterpreter(runtime.GOOS),
		"required_commands": []string{},
		"installer_url":     DefaultInstallerURL,
		"manifest_file":     "pyproject.toml",
		"requirements_file": "requirements.txt",
		"hooks_dir":         "hooks",
		"in_project_venv":   true,
		// disable_package_mode: the later script revision dropped this toggle,
		// so it is opt-in.
		"disable_package_mode": false,
		// confirm_answers: "s"/"sim" keep the Portuguese prompt convention of
		// the original scripts working next to "y"/"yes".
		"confirm_answers":    []string{"s", "sim", "y", "yes"},
		"assume_yes":         false,
		"protected_branches": []string{"main", "master"},
		"debug":              false,
	}
}
