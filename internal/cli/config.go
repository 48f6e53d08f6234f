package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/devsetup/internal/config"
	clierrors "github.com/ariel-frischer/devsetup/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage devsetup configuration",
	Long: `Manage devsetup configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (DEVSETUP_*)
  2. Project config (.devsetup/config.yml or .devsetup/config.json)
  3. User config (~/.config/devsetup/config.yml)
  4. Built-in defaults`,
	Example: `  # Show the effective configuration
  devsetup config show

  # Write a commented project config
  devsetup config init`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented project config to .devsetup/config.yml",
	Long: `Write a commented project config to .devsetup/config.yml.

An existing file is left unchanged unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	configCmd.GroupID = GroupConfiguration
	configShowCmd.Flags().Bool("json", false, "Print as JSON")
	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")
	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	c, err := setup(cmd)
	if err != nil {
		return err
	}

	var data []byte
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		data, err = json.MarshalIndent(c.cfg, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(c.cfg)
	}
	if err != nil {
		return fmt.Errorf("marshaling configuration: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	dir, err := projectDir(cmd)
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")
	out := cmd.OutOrStdout()
	path := config.ProjectConfigPath(dir)

	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(out, "%s %s already exists (use --force to overwrite)\n", color.YellowString("⚠"), path)
		return nil
	}

	if err := os.MkdirAll(config.ProjectConfigDir(dir), 0o755); err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "creating config directory")
	}
	if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "writing config file")
	}
	fmt.Fprintf(out, "%s created %s\n", color.GreenString("✓"), path)
	return nil
}
