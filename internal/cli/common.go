package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/devsetup/internal/config"
	clierrors "github.com/ariel-frischer/devsetup/internal/errors"
	"github.com/ariel-frischer/devsetup/internal/git"
	"github.com/ariel-frischer/devsetup/internal/logging"
	"github.com/ariel-frischer/devsetup/internal/poetry"
	"github.com/ariel-frischer/devsetup/internal/shell"
)

// cmdContext is what every command needs before it can do anything.
type cmdContext struct {
	dir    string
	cfg    *config.Configuration
	logger *logging.Logger
}

// setup resolves the project directory, loads configuration and builds the
// logger for cmd.
func setup(cmd *cobra.Command) (*cmdContext, error) {
	dir, err := projectDir(cmd)
	if err != nil {
		return nil, err
	}

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectDir:    dir,
		ConfigPath:    configPath,
		WarningWriter: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Debug = true
	}

	logger := logging.New(logging.Options{
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
		Debug:  cfg.Debug,
	})
	if cfg.Debug {
		git.SetDebugLogger(logger.Debugf)
	}
	return &cmdContext{dir: dir, cfg: cfg, logger: logger}, nil
}

// projectDir returns the absolute --dir value, or the working directory.
func projectDir(cmd *cobra.Command) (string, error) {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", clierrors.WrapWithMessage(err, clierrors.Runtime, "getting working directory")
		}
		return wd, nil
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", clierrors.WrapWithMessage(err, clierrors.Argument, "resolving --dir")
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return "", clierrors.DirectoryNotFound(abs)
	}
	return abs, nil
}

// runner returns the subprocess runner, streaming output to cmd's streams.
func (c *cmdContext) runner(cmd *cobra.Command) *shell.ExecRunner {
	r := shell.NewExecRunner(c.logger)
	r.Stdout = cmd.OutOrStdout()
	r.Stderr = cmd.ErrOrStderr()
	return r
}

// poetryPaths resolves where Poetry lives on this machine.
func poetryPaths(goos string) (poetry.Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return poetry.Paths{}, clierrors.WrapWithMessage(err, clierrors.Runtime, "resolving home directory")
	}
	return poetry.ResolvePaths(goos, os.Getenv, home), nil
}
