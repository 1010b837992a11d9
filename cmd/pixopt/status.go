package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the pixoptd server",
	Args:  cobra.NoArgs,
	RunE:  runStatusCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)

	status, err := client.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), status)
	}

	events := "off"
	if status.Events {
		events = "on"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Server:   %s (%s)\nVersion:  %s\nEvents:   %s\n", serverURL, status.Status, status.Version, events)
	return nil
}
