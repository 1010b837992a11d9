package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vmunix/pixopt/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configCheckCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Validate configuration file",
	Long:  "Validates config.toml syntax, field values, and environment variable substitution without starting the server.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigCheck,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configCheckCmd)
}

func runConfigCheck(cmd *cobra.Command, args []string) error {
	path := configPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			return err
		}
		path = found
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var configErr *config.ConfigError
		if !errors.As(err, &configErr) {
			return fmt.Errorf("failed to load config: %w", err)
		}
		printConfigErrors(out, configErr)
		// The file parsed; show what it resolves to so the fix is easier to spot.
		if parsed, perr := config.LoadWithoutValidation(path); perr == nil {
			printConfigSummary(out, parsed)
		}
		return fmt.Errorf("configuration invalid")
	}

	printConfigSummary(out, cfg)
	printConfigWarnings(out, cfg.Warnings())
	fmt.Fprintln(out, "\nConfiguration valid!")
	return nil
}

func printConfigWarnings(w io.Writer, warns []string) {
	if len(warns) == 0 {
		return
	}
	fmt.Fprintln(w, "\nWarnings:")
	for _, msg := range warns {
		fmt.Fprintf(w, "  - %s\n", msg)
	}
}

func printConfigErrors(w io.Writer, e *config.ConfigError) {
	if len(e.Missing) > 0 {
		fmt.Fprintln(w, "Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Fprintf(w, "  - %s\n", m)
		}
		fmt.Fprintln(w)
	}

	if len(e.Errors) > 0 {
		fmt.Fprintln(w, "Validation errors:")
		for _, err := range e.Errors {
			fmt.Fprintf(w, "  - %s\n", err)
		}
		fmt.Fprintln(w)
	}
}

func printConfigSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Configuration Summary:")
	fmt.Fprintf(w, "  Server:   %s:%d (log: %s)\n", cfg.Server.Host, cfg.Server.Port, cfg.Server.LogLevel)
	fmt.Fprintf(w, "  Convert:  format %s, quality %d, suffix %q\n",
		cfg.Convert.Format, cfg.Convert.Quality, cfg.Convert.SuffixOrDefault())
	if cfg.Convert.OutputFolder != "" {
		fmt.Fprintf(w, "  Output:   %s\n", cfg.Convert.OutputFolder)
	}
	workers := "one per CPU"
	if cfg.Convert.Workers > 0 {
		workers = fmt.Sprint(cfg.Convert.Workers)
	}
	fmt.Fprintf(w, "  Workers:  %s\n", workers)
	fmt.Fprintf(w, "  Preview:  %dx%d at quality %d\n", cfg.Preview.MaxWidth, cfg.Preview.MaxHeight, cfg.Preview.Quality)
}
