package errors

import "fmt"

// Common error messages for the devsetup CLI.
// These templates ensure consistent, actionable error messages.

// MissingDependency creates an error for a command that is not on PATH.
func MissingDependency(name string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("missing dependency: %s", name),
		fmt.Sprintf("Install %s and make sure it is on your PATH", name),
		fmt.Sprintf("Verify with: %s --version", name),
	)
}

// PoetryInstallFailed creates an error when the installer ran but the
// executable is still missing.
func PoetryInstallFailed(executable string) *CLIError {
	return NewRuntimeError(
		fmt.Sprintf("poetry installation failed: %s not found after running the installer", executable),
		"Check the installer output above for errors",
		"Install manually: https://python-poetry.org/docs/#installation",
		"Or set POETRY_HOME to an existing installation",
	)
}

// InstallerDownloadFailed creates an error when the installer script cannot be fetched.
func InstallerDownloadFailed(url string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("downloading poetry installer from %s", url),
		"Check your network connection",
		"Override the endpoint with DEVSETUP_INSTALLER_URL",
	)
}

// CommandFailed creates an error for an external command that exited non-zero.
// A positive status becomes the exit code of the run.
func CommandFailed(command string, status int, err error) *CLIError {
	e := WrapWithMessage(err, Runtime,
		fmt.Sprintf("command failed: %s", command),
		"Re-run with DEVSETUP_DEBUG=true to trace every command",
	)
	if e != nil && status > 0 {
		e.Code = status
	}
	return e
}

// ManifestCreationCancelled creates the cancellation error used when the user
// declines to create the manifest.
func ManifestCreationCancelled(path string) *CLIError {
	return NewCancelledError(fmt.Sprintf("%s was not created; nothing to install", path))
}

// ConfigParseError creates an error for invalid config file format.
func ConfigParseError(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("failed to parse config file: %s", path),
		"Check the file for YAML or JSON syntax errors",
		"Print the effective configuration with: devsetup config show",
	)
}

// RequirementsImportFailed creates an error summarizing failed `poetry add` calls.
func RequirementsImportFailed(path string, failed int, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("%d requirement(s) from %s could not be added", failed, path),
		"Fix or remove the failing lines and run devsetup again",
	)
}

// DirectoryNotFound creates an error for missing directory.
func DirectoryNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("directory not found: %s", path),
		"Create the directory with: mkdir -p "+path,
		"Or check that the path is correct",
	)
}

// GitNotRepository creates an error when not in a git repository.
func GitNotRepository() *CLIError {
	return NewPrerequisiteError(
		"not a git repository",
		"Initialize with: git init",
		"Or navigate to an existing repository",
	)
}

// ProtectedBranchCommit creates the error raised by the block-branch hook.
func ProtectedBranchCommit(branch string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("direct commits to %q are not allowed", branch),
		"Create a feature branch: git switch -c <name>",
	)
}
