package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	clierrors "github.com/ariel-frischer/devsetup/internal/errors"
)

// Command group IDs for help output.
const (
	GroupGettingStarted = "getting-started"
	GroupConfiguration  = "configuration"
	GroupHooks          = "hooks"
)

var rootCmd = &cobra.Command{
	Use:   "devsetup",
	Short: "Bootstrap a Poetry development environment",
	Long: `devsetup prepares a Python project for development in one command.

With no arguments it runs the full bootstrap:
  1. Check that the interpreter and required commands are on PATH
  2. Install Poetry when it is missing and put it on PATH
  3. Create pyproject.toml (after asking) when it does not exist
  4. Keep the virtualenv inside the project
  5. Install dependencies and import requirements.txt
  6. Activate the virtualenv (when run through the shell integration)
  7. Copy hooks/ into the git hooks directory

Running it again is safe: every step checks before it changes anything.

https://github.com/ariel-frischer/devsetup`,
	Example: `  # Bootstrap the project in the current directory
  devsetup

  # Bootstrap another project without prompting
  devsetup -C ../api --yes

  # Let devsetup export PATH and activate the virtualenv in this shell
  eval "$(devsetup shell-init)"
  devsetup

  # Check the environment
  devsetup doctor`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBootstrap,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupGettingStarted, Title: "Getting Started:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"},
		&cobra.Group{ID: GroupHooks, Title: "Git Hooks:"},
	)

	rootCmd.PersistentFlags().StringP("dir", "C", "", "Project directory (default: current directory)")
	rootCmd.PersistentFlags().String("config", "", "Project config file (default: .devsetup/config.yml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging and command tracing (same as DEVSETUP_DEBUG=true)")
	rootCmd.Flags().BoolP("yes", "y", false, "Create pyproject.toml without asking")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine())
	})
}

// Execute runs the command line and prints any error not already reported.
// The returned error carries the exit status; see errors.ExitCode.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	report(rootCmd, err)
	return err
}

// report prints err to the command's error stream. Errors that went through
// SafeExit were logged by the pipeline and are not printed twice.
func report(cmd *cobra.Command, err error) {
	if err == nil || clierrors.AsExitError(err) != nil {
		return
	}
	clierrors.FprintAny(cmd.ErrOrStderr(), err)
}
