package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"specclean/internal/cache"
	"specclean/internal/config"
	"specclean/internal/driver"
	"specclean/internal/review"
	"specclean/internal/source"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [flags] <path>...",
	Short: "Normalize spec files into canonical style",
	Long: `Clean rewrites RPM spec files into a canonical, diff-friendly style:
fixed tag ordering, merged and sorted dependency groups, consistent macro
style and a standard copyright header. Pass "-" to read from stdin.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().StringP("output", "o", "", "write result to this path (single input only)")
	cleanCmd.Flags().Bool("inline", false, "rewrite the input file in place")
	cleanCmd.Flags().Bool("diff", false, "review changes in an external diff viewer before writing")
	cleanCmd.Flags().String("diff-prog", "", "external diff viewer to invoke (default vimdiff)")
	cleanCmd.Flags().Bool("minimal", false, "apply only the safe subset of normalization rules")
	cleanCmd.Flags().Bool("check", false, "report files that would change without writing")
	cleanCmd.Flags().Bool("stdout", false, "print cleaned content to stdout instead of writing files")
	cleanCmd.Flags().Bool("progress", false, "show an interactive progress view for batch runs")
	cleanCmd.Flags().Int("jobs", 0, "number of files to clean in parallel (0 = all CPUs)")
	cleanCmd.Flags().Bool("no-cache", false, "disable the check result cache")
}

func runClean(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	opts, useProgress, noCache, err := cleanOptions(cmd)
	if err != nil {
		return err
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}

	if opts.Stdout && opts.Check {
		return fmt.Errorf("clean: --stdout cannot be used with --check")
	}
	if opts.Inline && opts.Output != "" {
		return fmt.Errorf("clean: --inline cannot be used with --output")
	}

	if len(args) == 1 && args[0] == "-" {
		return cleanStdin(cmd, opts)
	}

	if opts.Check && !noCache {
		if c, cacheErr := cache.Open("specclean"); cacheErr == nil {
			opts.Cache = c
		}
	}

	var results []driver.CleanResult
	if useProgress && !quiet && isTerminal(os.Stdout) && !opts.Stdout && !opts.Diff {
		results, err = runCleanWithUI(cmd, args, opts)
	} else {
		results, err = driver.CleanPaths(cmd.Context(), args, opts)
	}
	if err != nil {
		return err
	}

	return renderCleanResults(results, opts, quiet)
}

func cleanOptions(cmd *cobra.Command) (driver.Options, bool, bool, error) {
	var opts driver.Options
	flags := cmd.Flags()

	var err error
	if opts.Output, err = flags.GetString("output"); err != nil {
		return opts, false, false, err
	}
	if opts.Inline, err = flags.GetBool("inline"); err != nil {
		return opts, false, false, err
	}
	if opts.Diff, err = flags.GetBool("diff"); err != nil {
		return opts, false, false, err
	}
	if opts.DiffProg, err = flags.GetString("diff-prog"); err != nil {
		return opts, false, false, err
	}
	if opts.Minimal, err = flags.GetBool("minimal"); err != nil {
		return opts, false, false, err
	}
	if opts.Check, err = flags.GetBool("check"); err != nil {
		return opts, false, false, err
	}
	if opts.Stdout, err = flags.GetBool("stdout"); err != nil {
		return opts, false, false, err
	}
	if opts.Jobs, err = flags.GetInt("jobs"); err != nil {
		return opts, false, false, err
	}
	useProgress, err := flags.GetBool("progress")
	if err != nil {
		return opts, false, false, err
	}
	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return opts, false, false, err
	}
	if opts.MaxDiagnostics, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return opts, false, false, err
	}

	// Project config fills in whatever the flags left at defaults.
	if cfg, ok, cfgErr := config.Load("."); cfgErr != nil {
		return opts, false, false, cfgErr
	} else if ok {
		if !flags.Changed("minimal") {
			opts.Minimal = cfg.Style.Minimal
		}
		if opts.DiffProg == "" {
			opts.DiffProg = cfg.Diff.Prog
		}
		opts.PadColumn = cfg.Style.PadColumn
	}
	if opts.DiffProg == "" {
		opts.DiffProg = review.DefaultProg
	}

	return opts, useProgress, noCache, nil
}

// cleanStdin handles the stream input form: content arrives on stdin and
// the result goes to stdout or the explicit output path. In-place mode is
// invalid for streams.
func cleanStdin(cmd *cobra.Command, opts driver.Options) error {
	sf, err := source.ReadStream("<stdin>", cmd.InOrStdin())
	if err != nil {
		return err
	}
	if opts.Inline {
		return fmt.Errorf("%s: %w", sf.Path, review.ErrInvalidTarget)
	}

	cleaned, _, err := driver.CleanStream(sf, opts)
	if err != nil {
		return err
	}
	if opts.Check {
		if !bytesEq(sf.Content, cleaned) {
			return fmt.Errorf("clean: formatting changes required")
		}
		return nil
	}
	if opts.Output != "" {
		return os.WriteFile(opts.Output, cleaned, 0o644)
	}
	_, err = cmd.OutOrStdout().Write(cleaned)
	return err
}

func renderCleanResults(results []driver.CleanResult, opts driver.Options, quiet bool) error {
	var hasErrors, hasChanges bool
	for _, res := range results {
		for _, warning := range res.Warnings {
			fmt.Fprintf(os.Stderr, "clean: %s: %s\n", res.Path, warning)
		}
		if res.Err != nil {
			hasErrors = true
			fmt.Fprintf(os.Stderr, "clean: %s: %v\n", res.Path, res.Err)
			continue
		}

		switch {
		case opts.Check:
			if res.Changed {
				hasChanges = true
				if !quiet {
					fmt.Fprintln(os.Stdout, res.Path)
				}
			}
		case res.Cleaned != nil:
			// Stdout mode, or the viewer fallback left output undelivered.
			_, _ = os.Stdout.Write(res.Cleaned)
		default:
			if res.Changed && !quiet {
				fmt.Fprintf(os.Stdout, "cleaned %s\n", res.Path)
			}
		}
	}

	if hasErrors {
		return fmt.Errorf("clean: failed to clean some files")
	}
	if opts.Check && hasChanges {
		return fmt.Errorf("clean: formatting changes required")
	}
	return nil
}

func bytesEq(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
