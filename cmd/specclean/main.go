package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"specclean/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "specclean",
	Short: "RPM spec file cleaner",
	Long:  `specclean normalizes RPM spec files into a canonical, diff-friendly style`,
}

// main registers subcommands and persistent flags, then executes the root
// command. If command execution returns an error, the process exits with
// status code 1.
func main() {
	rootCmd.Version = version.Colored()

	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether the file is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
