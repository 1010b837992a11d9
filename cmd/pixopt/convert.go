package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/pixopt/internal/convert"
	"github.com/vmunix/pixopt/internal/inventory"
)

var convertCmd = &cobra.Command{
	Use:   "convert <path>...",
	Short: "Resize and re-encode images",
	Long: `Resize and re-encode image files.

Each path may be an image file or a folder; folders are expanded to the
images they contain. Defaults come from the config file and can be
overridden with flags.

Examples:
  pixopt convert ~/Pictures/trip --width 1600 --format webp
  pixopt convert a.png b.jpg --quality 70 --suffix -small
  pixopt convert ~/Pictures --overwrite --remote`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvertCmd,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	f := convertCmd.Flags()
	f.Int("width", 0, "Target width in pixels (0 keeps the original size)")
	f.Int("quality", 0, "Encoder quality 1-100 (default from config)")
	f.String("format", "", "Output format: original, webp, jpg, png (default from config)")
	f.String("suffix", "", "Suffix appended to output names (default from config)")
	f.String("output-folder", "", "Existing folder for converted files")
	f.Bool("overwrite", false, "Replace the source files")
	f.BoolP("recursive", "r", false, "Include subfolders")
	f.Int("workers", 0, "Parallel conversions (0 = one per CPU)")
	f.Bool("remote", false, "Convert on the server given by --server")
}

// convertSettings is the merged view of config defaults and flags.
type convertSettings struct {
	job       convert.Job
	opts      convert.Options
	recursive bool
	workers   int
	exts      []string
}

func resolveConvertSettings(cmd *cobra.Command) (*convertSettings, error) {
	cfg, err := loadSettings()
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()

	s := &convertSettings{
		opts: convert.Options{
			Suffix:       cfg.Convert.SuffixOrDefault(),
			OutputFolder: cfg.Convert.OutputFolder,
		},
		recursive: cfg.Scan.Recursive,
		workers:   cfg.Convert.Workers,
		exts:      cfg.Scan.Extensions,
	}
	s.job.Quality = cfg.Convert.Quality
	if s.job.Format, err = convert.ParseFormat(cfg.Convert.Format); err != nil {
		return nil, err
	}

	if flags.Changed("width") {
		s.job.Width, _ = flags.GetInt("width")
	}
	if flags.Changed("quality") {
		s.job.Quality, _ = flags.GetInt("quality")
	}
	if flags.Changed("format") {
		name, _ := flags.GetString("format")
		if s.job.Format, err = convert.ParseFormat(name); err != nil {
			return nil, err
		}
	}
	if flags.Changed("suffix") {
		s.opts.Suffix, _ = flags.GetString("suffix")
	}
	if flags.Changed("output-folder") {
		s.opts.OutputFolder, _ = flags.GetString("output-folder")
	}
	if flags.Changed("recursive") {
		s.recursive, _ = flags.GetBool("recursive")
	}
	if flags.Changed("workers") {
		s.workers, _ = flags.GetInt("workers")
	}
	s.opts.Overwrite, _ = flags.GetBool("overwrite")

	if err := s.job.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func runConvertCmd(cmd *cobra.Command, args []string) error {
	s, err := resolveConvertSettings(cmd)
	if err != nil {
		return err
	}

	var b backend
	if remote, _ := cmd.Flags().GetBool("remote"); remote {
		b = &remoteBackend{client: NewClient(serverURL)}
	} else {
		b = newLocalBackend(s.workers, s.exts, newLogger(cmd.ErrOrStderr()))
	}

	ctx := cmd.Context()
	jobs, err := collectJobs(cmd, b, args, s)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("no images found")
	}

	results, err := b.Convert(ctx, jobs, s.opts)
	if err != nil {
		return fmt.Errorf("convert failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		if err := printJSON(out, map[string]any{"results": results}); err != nil {
			return err
		}
	} else {
		printResults(out, results)
	}

	if failed := countStatus(results, convert.StatusError); failed > 0 {
		return fmt.Errorf("%d of %d conversions failed", failed, len(results))
	}
	return nil
}

// collectJobs expands folder arguments through the backend's scanner and
// turns every image into a job carrying the shared settings.
func collectJobs(cmd *cobra.Command, b backend, args []string, s *convertSettings) ([]convert.Job, error) {
	var jobs []convert.Job
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err == nil && info.IsDir() {
			res, err := b.Scan(cmd.Context(), arg, s.recursive)
			if err != nil {
				return nil, err
			}
			if res.Skipped > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: skipped %d unreadable file(s)\n", res.Folder, res.Skipped)
			}
			for _, img := range res.Images {
				jobs = append(jobs, jobFor(s.job, img))
			}
			continue
		}

		// Missing files still become jobs so they are reported per file.
		job := s.job
		job.Path = arg
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func jobFor(base convert.Job, img inventory.ImageInfo) convert.Job {
	job := base
	job.Path = img.Path
	job.Name = img.Name
	job.NoPath = img.NoPath
	return job
}

func printResults(w io.Writer, results []convert.Outcome) {
	for _, r := range results {
		switch r.Status {
		case convert.StatusOK:
			size := ""
			if r.SizeKB != nil {
				size = fmt.Sprintf(" (%d KB)", *r.SizeKB)
			}
			fmt.Fprintf(w, "  ok       %s -> %s%s\n", r.Name, r.Output, size)
		case convert.StatusSkipped:
			fmt.Fprintf(w, "  skipped  %s\n", r.Name)
		default:
			fmt.Fprintf(w, "  error    %s: %s\n", r.Name, r.Error)
		}
	}

	parts := []string{fmt.Sprintf("%d converted", countStatus(results, convert.StatusOK))}
	if n := countStatus(results, convert.StatusSkipped); n > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", n))
	}
	if n := countStatus(results, convert.StatusError); n > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", n))
	}
	fmt.Fprintf(w, "\n%s\n", strings.Join(parts, ", "))
}

func countStatus(results []convert.Outcome, status convert.Status) int {
	n := 0
	for _, r := range results {
		if r.Status == status {
			n++
		}
	}
	return n
}
