package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notionexport/internal/adapters/driven/config/file"
	"github.com/custodia-labs/notionexport/internal/adapters/driven/filesystem"
	"github.com/custodia-labs/notionexport/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/notionexport/internal/connectors/notion"
	"github.com/custodia-labs/notionexport/internal/core/domain"
	"github.com/custodia-labs/notionexport/internal/core/ports/driven"
	"github.com/custodia-labs/notionexport/internal/core/ports/driving"
	"github.com/custodia-labs/notionexport/internal/core/services"
	"github.com/custodia-labs/notionexport/internal/logger"
	"github.com/custodia-labs/notionexport/internal/renderers/markdown"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a Notion page tree to Markdown",
	Long: `Crawls every page and database reachable from --root and writes one
Markdown file per document plus an _INDEX.md into the output directory.

The root may be a Notion URL, a 32-character id or a hyphenated UUID.
The integration token is read from --token, NOTION_TOKEN or the config file.

Exit status is 0 when everything was exported, 1 when some documents were
skipped and 2 when the run was aborted.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

// exporterFactory builds the export pipeline; tests replace it.
type exporterFactory func(s Settings) (driving.Exporter, func() error, error)

var newExporter exporterFactory = buildExporter

func init() {
	flags := exportCmd.Flags()
	flags.String("root", "", "root page or database (URL, id or UUID)")
	flags.String("out", DefaultOutputDir, "output directory")
	flags.Bool("no-rewrite-links", false, "keep links pointing at notion.so instead of local files")
	flags.String("token", "", "Notion integration token (default $"+envToken+")")
	flags.String("notion-version", notion.DefaultVersion, "Notion-Version header (default $"+envVersion+")")
	flags.Int("workers", services.DefaultWorkers, "concurrent document fetches")
	flags.String("order", string(driving.OrderBreadthFirst), "traversal order: bfs or dfs")
	flags.String("manifest", "", "record the run in this SQLite database")
	flags.String("config", "", "config directory (default ~/.notionexport)")
	_ = exportCmd.MarkFlagRequired("root")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	rootRef, _ := cmd.Flags().GetString("root")
	rootID, err := notion.NormaliseID(rootRef)
	if err != nil {
		return err
	}

	configDir, _ := cmd.Flags().GetString("config")
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger.Debug("Config: %s", store.Path())

	settings, err := resolveSettings(cmd, store, os.Getenv)
	if err != nil {
		return err
	}
	if settings.Token == "" {
		settings.Token = promptToken(os.Stdin, cmd.ErrOrStderr())
	}
	if settings.Token == "" {
		return fmt.Errorf("%w: set --token or %s", domain.ErrAuthRequired, envToken)
	}
	logger.Debug("Token: %s, Notion-Version: %s", maskToken(settings.Token), settings.NotionVersion)

	exporter, closeFn, err := newExporter(settings)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeFn(); err != nil {
			logger.Warn("closing: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	cmd.Printf("Exporting %s to %s...\n", rootID, settings.OutputDir)

	summary, runErr := exporter.Run(ctx, driving.ExportOptions{
		RootID:       rootID,
		RewriteLinks: settings.RewriteLinks,
		Workers:      settings.Workers,
		Order:        settings.Order,
	})
	if summary != nil {
		printSummary(cmd.OutOrStdout(), summary, settings.OutputDir)
	}
	return exportResult(summary, runErr)
}

// exportResult maps a finished run to the command error.
func exportResult(summary *domain.Summary, runErr error) error {
	if summary == nil {
		if runErr == nil {
			return nil
		}
		return &ExitError{Code: domain.StatusAborted.ExitCode(), Err: runErr}
	}
	switch summary.Status {
	case domain.StatusOK:
		return nil
	case domain.StatusPartial:
		return &ExitError{
			Code: summary.Status.ExitCode(),
			Err:  fmt.Errorf("export incomplete: %d skipped", len(summary.Skipped)),
		}
	default:
		if runErr == nil {
			runErr = errors.New("export aborted")
		}
		return &ExitError{Code: summary.Status.ExitCode(), Err: runErr}
	}
}

// buildExporter wires the Notion client, retry policy, Markdown renderer,
// output writer and optional manifest.
func buildExporter(s Settings) (driving.Exporter, func() error, error) {
	client, err := notion.NewClient(notion.Config{
		Token:             s.Token,
		Version:           s.NotionVersion,
		RequestsPerSecond: s.RequestsPerSecond,
	})
	if err != nil {
		return nil, nil, err
	}

	writer, err := filesystem.NewWriter(s.OutputDir)
	if err != nil {
		return nil, nil, err
	}

	var manifest driven.ManifestStore
	closeFn := func() error { return nil }
	if s.Manifest != "" {
		store, err := sqlite.NewStore(s.Manifest)
		if err != nil {
			return nil, nil, fmt.Errorf("opening manifest: %w", err)
		}
		manifest = store
		closeFn = store.Close
	}

	source := services.NewRetryingSource(client, notion.Classify, s.Retry)
	return services.NewExportService(source, markdown.New(), writer, manifest), closeFn, nil
}
