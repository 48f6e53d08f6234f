// devsetup - Python development environment bootstrapper
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/devsetup

// Package config provides hierarchical configuration management for devsetup using koanf.
// Configuration is loaded with priority: environment variables (DEVSETUP_*) > project config
// (.devsetup/config.yml or .devsetup/config.json) > user config ($XDG_CONFIG_HOME/devsetup/config.yml)
// > defaults.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "DEVSETUP_"

// ConfigSource tracks where a configuration value came from
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceUser    ConfigSource = "user"
	SourceProject ConfigSource = "project"
	SourceEnv     ConfigSource = "env"
)

// Configuration represents the devsetup configuration
type Configuration struct {
	// Interpreter is the Python runtime used to run the Poetry installer.
	// Defaults to "python3" ("python" on Windows).
	Interpreter string `koanf:"interpreter" yaml:"interpreter" json:"interpreter"`
	// RequiredCommands are extra commands that must be on PATH before any step runs.
	RequiredCommands []string `koanf:"required_commands" yaml:"required_commands" json:"required_commands"`
	// InstallerURL is the endpoint serving the Poetry install script.
	InstallerURL string `koanf:"installer_url" yaml:"installer_url" json:"installer_url"`

	ManifestFile     string `koanf:"manifest_file" yaml:"manifest_file" json:"manifest_file"`
	RequirementsFile string `koanf:"requirements_file" yaml:"requirements_file" json:"requirements_file"`
	HooksDir         string `koanf:"hooks_dir" yaml:"hooks_dir" json:"hooks_dir"`

	// InProjectVenv sets virtualenvs.in-project for the project.
	InProjectVenv bool `koanf:"in_project_venv" yaml:"in_project_venv" json:"in_project_venv"`
	// DisablePackageMode writes package-mode = false to [tool.poetry].
	DisablePackageMode bool `koanf:"disable_package_mode" yaml:"disable_package_mode" json:"disable_package_mode"`

	// ConfirmAnswers are the case-insensitive answers accepted as "yes".
	ConfirmAnswers []string `koanf:"confirm_answers" yaml:"confirm_answers" json:"confirm_answers"`
	// AssumeYes skips confirmation prompts (can also be set via --yes).
	AssumeYes bool `koanf:"assume_yes" yaml:"assume_yes" json:"assume_yes"`

	// ProtectedBranches are refused by the block-branch hook.
	ProtectedBranches []string `koanf:"protected_branches" yaml:"protected_branches" json:"protected_branches"`

	// Debug enables debug logging and command tracing. Only the literal
	// value "true" enables it (DEVSETUP_DEBUG=true).
	Debug bool `koanf:"debug" yaml:"debug" json:"debug"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectDir is the project root holding .devsetup/ (default: current directory)
	ProjectDir string
	// ConfigPath overrides the project config file.
	ConfigPath string
	// UserConfigPath overrides the user config file (tests).
	UserConfigPath string
	// SkipUserConfig ignores the user config file.
	SkipUserConfig bool
	// WarningWriter receives warnings (default: os.Stderr)
	WarningWriter io.Writer
}

// Load loads configuration for the project in projectDir.
func Load(projectDir string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectDir: projectDir})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	if !opts.SkipUserConfig {
		if err := loadUserConfig(k, opts.UserConfigPath); err != nil {
			return nil, err
		}
	}

	if err := loadProjectConfig(k, opts, warningWriter); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads the user-level YAML config if it exists.
func loadUserConfig(k *koanf.Koanf, override string) error {
	path := override
	if path == "" {
		var err error
		if path, err = UserConfigPath(); err != nil {
			return nil
		}
	}
	if !fileExists(path) {
		return nil
	}
	if err := loadYAMLConfig(k, path, "user"); err != nil {
		return fmt.Errorf("loading user YAML config: %w", err)
	}
	return nil
}

// loadProjectConfig loads the project config. An explicit path is required to
// exist; otherwise config.yml is preferred over config.json and a warning is
// written when both are present.
func loadProjectConfig(k *koanf.Koanf, opts LoadOptions, warningWriter io.Writer) error {
	if opts.ConfigPath != "" {
		if !fileExists(opts.ConfigPath) {
			return fmt.Errorf("config file not found: %s", opts.ConfigPath)
		}
		if strings.EqualFold(filepath.Ext(opts.ConfigPath), ".json") {
			return loadJSONConfig(k, opts.ConfigPath, "project")
		}
		return loadYAMLConfig(k, opts.ConfigPath, "project")
	}

	yamlPath := ProjectConfigPath(opts.ProjectDir)
	jsonPath := ProjectJSONConfigPath(opts.ProjectDir)
	yamlExists := fileExists(yamlPath)
	jsonExists := fileExists(jsonPath)

	switch {
	case yamlExists:
		if err := loadYAMLConfig(k, yamlPath, "project"); err != nil {
			return fmt.Errorf("loading project YAML config: %w", err)
		}
		if jsonExists {
			fmt.Fprintf(warningWriter, "Warning: both %s and %s exist; using %s\n", yamlPath, jsonPath, yamlPath)
		}
	case jsonExists:
		if err := loadJSONConfig(k, jsonPath, "project"); err != nil {
			return fmt.Errorf("loading project JSON config: %w", err)
		}
	}
	return nil
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path, configType string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadJSONConfig loads a JSON config file
func loadJSONConfig(k *koanf.Koanf, path, configType string) error {
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals, validates, and applies final transformations
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.HooksDir = expandHomePath(cfg.HooksDir)

	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// listKeys are split on commas/whitespace when given through the environment.
var listKeys = map[string]bool{
	"required_commands":  true,
	"confirm_answers":    true,
	"protected_branches": true,
}

// envTransform converts environment variable names to config keys
// Example: DEVSETUP_HOOKS_DIR -> hooks_dir
// The marker variables set by the shell wrapper are not config keys.
func envTransform(name, value string) (string, interface{}) {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	switch key {
	case "sourced", "shell", "activate_file":
		return "", nil
	case "debug":
		// Only the literal "true" enables tracing; "1" or "TRUE" do not.
		return key, value == "true"
	}
	if listKeys[key] {
		return key, strings.FieldsFunc(value, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
	}
	return key, value
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}

// IsAffirmative reports whether answer is one of the configured confirmations.
func (c *Configuration) IsAffirmative(answer string) bool {
	answer = strings.TrimSpace(answer)
	for _, a := range c.ConfirmAnswers {
		if strings.EqualFold(answer, a) {
			return true
		}
	}
	return false
}
