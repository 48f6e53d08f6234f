package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	clierrors "github.com/ariel-frischer/devsetup/internal/errors"
	"github.com/ariel-frischer/devsetup/internal/git"
	"github.com/ariel-frischer/devsetup/internal/hookcmd"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Commands for git hooks to call",
	Long: `Commands meant to be called from git hook scripts, for example in
hooks/pre-commit:

  #!/bin/sh
  devsetup hook block-branch || exit 1
  devsetup hook path-header $(git diff --cached --name-only --diff-filter=ACM)`,
}

var blockBranchCmd = &cobra.Command{
	Use:   "block-branch",
	Short: "Fail when the current branch is protected",
	Long: `Exit 1 when HEAD is on a protected branch (config protected_branches,
default main and master). A detached HEAD is allowed.`,
	Args: cobra.NoArgs,
	RunE: runBlockBranch,
}

var pathHeaderCmd = &cobra.Command{
	Use:   "path-header <files...>",
	Short: "Make the first line of each .py file its repository path",
	Long: `Make sure the first line of every given .py file is a comment holding its
path relative to the repository root, for example "# app/models/user.py".
An existing "# " first line is replaced; otherwise the header is inserted.
Other files are ignored.`,
	Example: `  devsetup hook path-header app/main.py app/models/user.py`,
	RunE:    runPathHeader,
}

func init() {
	hookCmd.GroupID = GroupHooks
	hookCmd.AddCommand(blockBranchCmd, pathHeaderCmd)
	rootCmd.AddCommand(hookCmd)
}

func runBlockBranch(cmd *cobra.Command, _ []string) error {
	c, err := setup(cmd)
	if err != nil {
		return err
	}
	branch, err := git.CurrentBranch(c.dir)
	if errors.Is(err, git.ErrNotRepository) {
		return clierrors.GitNotRepository()
	}
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "reading current branch")
	}
	return hookcmd.BlockBranch(branch, c.cfg.ProtectedBranches)
}

func runPathHeader(cmd *cobra.Command, args []string) error {
	c, err := setup(cmd)
	if err != nil {
		return err
	}
	root, err := git.RepositoryRoot(c.dir)
	if err != nil {
		c.logger.Debugf("no repository root (%v), using %s", err, c.dir)
		root = c.dir
	}

	changed, err := hookcmd.EnsureHeaders(args, root)
	for _, path := range changed {
		fmt.Fprintf(cmd.OutOrStdout(), "updated header: %s\n", path)
	}
	return err
}
