package cli

import (
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/devsetup/internal/bootstrap"
	"github.com/ariel-frischer/devsetup/internal/build"
	"github.com/ariel-frischer/devsetup/internal/envpath"
	"github.com/ariel-frischer/devsetup/internal/invocation"
	"github.com/ariel-frischer/devsetup/internal/progress"
)

// runBootstrap runs the full pipeline for the root command.
func runBootstrap(cmd *cobra.Command, _ []string) error {
	c, err := setup(cmd)
	if err != nil {
		return err
	}
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		c.cfg.AssumeYes = true
	}

	paths, err := poetryPaths(runtime.GOOS)
	if err != nil {
		return err
	}

	env := &bootstrap.Env{
		ProjectDir: c.dir,
		Config:     c.cfg,
		Session:    invocation.FromEnv(),
		Runner:     c.runner(cmd),
		Logger:     c.logger,
		In:         cmd.InOrStdin(),
		Out:        cmd.OutOrStdout(),
		PathEnv:    envpath.OS{},
		Poetry:     paths,
		GOOS:       runtime.GOOS,
		Version:    build.Version,
	}
	if out, ok := cmd.OutOrStdout().(*os.File); ok {
		env.Progress = progress.NewIndicator(out, progress.DetectTerminalCapabilities(out))
	}

	c.logger.Debugf("%s, invocation mode: %s", build.String(), env.Session.Mode())
	return bootstrap.Run(cmd.Context(), env)
}
