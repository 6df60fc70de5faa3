// Package cli implements the notionexport command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notionexport/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "notionexport",
	Short: "Export a Notion workspace tree to Markdown",
	Long: `notionexport crawls every page and database reachable from a root
Notion page and writes each one as a Markdown file, with links between
exported pages rewritten to relative paths and an _INDEX.md listing them all.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print progress and diagnostics to stderr")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. Errors implementing ExitCode() int carry
// the process exit status.
func Execute() error {
	return rootCmd.Execute()
}

// ExitError carries a non-zero exit status out of a command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit status.
func (e *ExitError) ExitCode() int {
	return e.Code
}
