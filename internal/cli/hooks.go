package cli

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/devsetup/internal/hooks"
)

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Manage the project's git hooks",
}

var hooksInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Copy hooks/ into the git hooks directory",
	Long: `Copy every file in the hooks directory (config hooks_dir, default hooks/)
into .git/hooks, or core.hooksPath when it is set, and make them executable.

With --watch, keep running and reinstall whenever a file in the hooks
directory changes.`,
	Example: `  # Install once
  devsetup hooks install

  # Reinstall on every change while editing hooks
  devsetup hooks install --watch`,
	Args: cobra.NoArgs,
	RunE: runHooksInstall,
}

func init() {
	hooksCmd.GroupID = GroupHooks
	hooksInstallCmd.Flags().Bool("watch", false, "Reinstall when the hooks directory changes")
	hooksCmd.AddCommand(hooksInstallCmd)
	rootCmd.AddCommand(hooksCmd)
}

func runHooksInstall(cmd *cobra.Command, _ []string) error {
	c, err := setup(cmd)
	if err != nil {
		return err
	}
	opts := hooks.Options{
		Root:      c.dir,
		SourceDir: c.cfg.HooksDir,
		GOOS:      runtime.GOOS,
		Logger:    c.logger,
	}

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		c.logger.Infof("watching %s, press Ctrl-C to stop", c.cfg.HooksDir)
		return hooks.Watch(cmd.Context(), opts, func(res hooks.Result, err error) {
			if err != nil {
				c.logger.Errorf("reinstalling hooks: %v", err)
				return
			}
			c.logger.Infof("%d hook(s) installed in %s", len(res.Files), res.TargetDir)
		})
	}

	res, err := hooks.Install(opts)
	if err != nil {
		return err
	}
	if !res.Skipped {
		c.logger.Infof("%d hook(s) installed in %s", len(res.Files), res.TargetDir)
	}
	return nil
}
