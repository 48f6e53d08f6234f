package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	clierrors "github.com/ariel-frischer/devsetup/internal/errors"
	"github.com/ariel-frischer/devsetup/internal/invocation"
)

var shellInitCmd = &cobra.Command{
	Use:   "shell-init [posix|powershell]",
	Short: "Print the shell function that lets devsetup change your shell",
	Long: `Print a shell function named devsetup that wraps this binary.

A program cannot change the environment of the shell that started it. The
function runs devsetup, then sources the PATH export and virtualenv
activation devsetup left behind, so they land in your interactive shell.
A failed run returns its status from the function and never exits the shell.`,
	Example: `  # bash, zsh, dash
  eval "$(devsetup shell-init)"

  # PowerShell
  devsetup shell-init powershell | Out-String | Invoke-Expression`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"posix", "powershell"},
	RunE:      runShellInit,
}

func init() {
	shellInitCmd.GroupID = GroupGettingStarted
	rootCmd.AddCommand(shellInitCmd)
}

func runShellInit(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	sh, err := invocation.ParseShell(name)
	if err != nil {
		return err
	}

	bin, err := os.Executable()
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "locating the devsetup binary")
	}
	script, err := invocation.WrapperScript(sh, bin)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), script)
	return nil
}
