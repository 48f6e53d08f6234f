package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	clierrors "github.com/ariel-frischer/devsetup/internal/errors"
	"github.com/ariel-frischer/devsetup/internal/health"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the project's development environment",
	Long: `Check that the interpreter, Poetry, pyproject.toml, the virtualenv and
the git hooks are in the state devsetup leaves them in.

Checks marked ✗ are required and make doctor exit 1. Checks marked ○ are
advisory.`,
	Example: `  # Check the current project
  devsetup doctor

  # Check another project
  devsetup doctor -C ../api`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	doctorCmd.GroupID = GroupGettingStarted
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	c, err := setup(cmd)
	if err != nil {
		return err
	}
	paths, err := poetryPaths(runtime.GOOS)
	if err != nil {
		return err
	}

	report := health.RunHealthChecks(cmd.Context(), health.Options{
		ProjectDir: c.dir,
		Config:     c.cfg,
		Poetry:     paths,
		Runner:     c.runner(cmd),
		GOOS:       runtime.GOOS,
	})
	fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))

	if !report.Passed {
		return clierrors.NewExitError(clierrors.ExitFailure, nil)
	}
	return nil
}
