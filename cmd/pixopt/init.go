package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/pixopt/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write an example config file",
	Long: `Write the example configuration to path, or to the default
location ($XDG_CONFIG_HOME/pixopt/config.toml) when no path is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInitCmd,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}

func runInitCmd(cmd *cobra.Command, args []string) error {
	path := config.DefaultPath()
	if len(args) > 0 {
		path = args[0]
	}

	force, _ := cmd.Flags().GetBool("force")
	err := config.WriteDefault(path, force)
	if errors.Is(err, config.ErrExists) {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
