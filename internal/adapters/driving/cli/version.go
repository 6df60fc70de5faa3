package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/notionexport/internal/connectors/notion"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("notionexport version %s (Notion API %s)\n", version, notion.DefaultVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
