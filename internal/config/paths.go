package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// ProjectConfigDirName is the per-project directory holding config and state.
const ProjectConfigDirName = ".devsetup"

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/devsetup/config.yml (respects XDG_CONFIG_HOME)
// - macOS: ~/Library/Application Support/devsetup/config.yml
// - Windows: %LOCALAPPDATA%\devsetup\config.yml
func UserConfigPath() (string, error) {
	return filepath.Join(xdg.ConfigHome, "devsetup", "config.yml"), nil
}

// ProjectConfigDir returns the project-level config directory under projectDir.
func ProjectConfigDir(projectDir string) string {
	return filepath.Join(projectDir, ProjectConfigDirName)
}

// ProjectConfigPath returns the project-level YAML config file under projectDir.
func ProjectConfigPath(projectDir string) string {
	return filepath.Join(ProjectConfigDir(projectDir), "config.yml")
}

// ProjectJSONConfigPath returns the project-level JSON config file under projectDir.
func ProjectJSONConfigPath(projectDir string) string {
	return filepath.Join(ProjectConfigDir(projectDir), "config.json")
}
