// Package poetry locates, installs and drives the Poetry package manager.
package poetry

import (
	"path/filepath"
)

// Paths is the per-user location of the Poetry executable.
type Paths struct {
	BinDir     string
	Executable string
}

// ResolvePaths computes the Poetry location for goos. POETRY_HOME wins; on
// Windows the installer uses %APPDATA%\Python\Scripts, elsewhere ~/.local/bin.
func ResolvePaths(goos string, getenv func(string) string, home string) Paths {
	exe := "poetry"
	if goos == "windows" {
		exe = "poetry.exe"
	}

	var binDir string
	switch {
	case getenv("POETRY_HOME") != "":
		binDir = filepath.Join(getenv("POETRY_HOME"), "bin")
	case goos == "windows":
		appData := getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		binDir = filepath.Join(appData, "Python", "Scripts")
	default:
		binDir = filepath.Join(home, ".local", "bin")
	}

	return Paths{BinDir: binDir, Executable: filepath.Join(binDir, exe)}
}

// ActivationScript returns the activation script beneath a virtualenv root.
func ActivationScript(goos, venv string) string {
	if goos == "windows" {
		return filepath.Join(venv, "Scripts", "Activate.ps1")
	}
	return filepath.Join(venv, "bin", "activate")
}
