package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notionexport/internal/linkcheck"
)

var verifyCmd = &cobra.Command{
	Use:   "verify DIR",
	Short: "Check that relative links in an export resolve",
	Long: `Parses every Markdown file under DIR and reports relative links whose
target file does not exist. Exits with status 1 when broken links are found.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	dir := args[0]

	broken, err := linkcheck.Check(dir)
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}

	out := cmd.OutOrStdout()
	st := newOutputStyles(out)
	if len(broken) == 0 {
		fmt.Fprintln(out, st.Success.Render("All links resolve."))
		return nil
	}

	for _, b := range broken {
		fmt.Fprintln(out, b.String())
	}
	return &ExitError{
		Code: 1,
		Err:  fmt.Errorf("%d broken links in %s", len(broken), dir),
	}
}
