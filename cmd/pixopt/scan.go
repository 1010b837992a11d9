package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vmunix/pixopt/internal/inventory"
)

var scanCmd = &cobra.Command{
	Use:   "scan <folder>",
	Short: "List the images in a folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runScanCmd,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().BoolP("recursive", "r", false, "Include subfolders")
	scanCmd.Flags().Bool("remote", false, "Scan on the server given by --server")
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	recursive := cfg.Scan.Recursive
	if cmd.Flags().Changed("recursive") {
		recursive, _ = cmd.Flags().GetBool("recursive")
	}

	var b backend
	if remote, _ := cmd.Flags().GetBool("remote"); remote {
		b = &remoteBackend{client: NewClient(serverURL)}
	} else {
		b = newLocalBackend(cfg.Convert.Workers, cfg.Scan.Extensions, newLogger(cmd.ErrOrStderr()))
	}

	res, err := b.Scan(cmd.Context(), args[0], recursive)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), res)
	}
	printScan(cmd.OutOrStdout(), res)
	return nil
}

func printScan(w io.Writer, res *inventory.Result) {
	if len(res.Images) == 0 {
		fmt.Fprintf(w, "No images in %s\n", res.Folder)
		return
	}

	var total int
	for _, img := range res.Images {
		fmt.Fprintf(w, "  %-32s %5dx%-5d %-5s %6d KB\n", img.Name, img.Width, img.Height, img.Format, img.SizeKB)
		total += img.SizeKB
	}
	fmt.Fprintf(w, "\n%d images, %d KB", len(res.Images), total)
	if res.Skipped > 0 {
		fmt.Fprintf(w, " (%d unreadable skipped)", res.Skipped)
	}
	fmt.Fprintln(w)
}
