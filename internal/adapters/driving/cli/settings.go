package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/notionexport/internal/connectors/notion"
	"github.com/custodia-labs/notionexport/internal/core/domain"
	"github.com/custodia-labs/notionexport/internal/core/ports/driven"
	"github.com/custodia-labs/notionexport/internal/core/ports/driving"
	"github.com/custodia-labs/notionexport/internal/core/services"
)

// Config file keys.
const (
	keyToken             = "token"
	keyNotionVersion     = "notion_version"
	keyOutputDir         = "output_dir"
	keyRewriteLinks      = "rewrite_links"
	keyWorkers           = "workers"
	keyRequestsPerSecond = "requests_per_second"
	keyMaxAttempts       = "max_attempts"
	keyBaseDelayMS       = "base_delay_ms"
	keyMaxDelayMS        = "max_delay_ms"
	keyManifest          = "manifest"
	keyOrder             = "order"
)

// Environment variables.
const (
	envToken   = "NOTION_TOKEN"
	envVersion = "NOTION_VERSION"
)

// DefaultOutputDir is used when no output directory is configured.
const DefaultOutputDir = "notion_export"

// Settings is the fully resolved configuration of an export run.
type Settings struct {
	Token             string
	NotionVersion     string
	OutputDir         string
	RewriteLinks      bool
	Workers           int
	Order             driving.TraversalOrder
	RequestsPerSecond float64
	Retry             services.RetryPolicy
	Manifest          string
}

// defaultSettings returns the built-in defaults.
func defaultSettings() Settings {
	return Settings{
		NotionVersion:     notion.DefaultVersion,
		OutputDir:         DefaultOutputDir,
		RewriteLinks:      true,
		Workers:           services.DefaultWorkers,
		Order:             driving.OrderBreadthFirst,
		RequestsPerSecond: notion.DefaultRequestsPerSecond,
		Retry:             services.DefaultRetryPolicy(),
	}
}

// resolveSettings layers defaults, the config store, the environment and
// explicitly set flags, in increasing precedence.
func resolveSettings(cmd *cobra.Command, store driven.ConfigStore, getenv func(string) string) (Settings, error) {
	s := defaultSettings()

	if store != nil {
		applyStore(&s, store)
	}

	if v := getenv(envToken); v != "" {
		s.Token = v
	}
	if v := getenv(envVersion); v != "" {
		s.NotionVersion = v
	}

	flags := cmd.Flags()
	if flags.Changed("token") {
		s.Token, _ = flags.GetString("token")
	}
	if flags.Changed("notion-version") {
		s.NotionVersion, _ = flags.GetString("notion-version")
	}
	if flags.Changed("out") {
		s.OutputDir, _ = flags.GetString("out")
	}
	if flags.Changed("no-rewrite-links") {
		noRewrite, _ := flags.GetBool("no-rewrite-links")
		s.RewriteLinks = !noRewrite
	}
	if flags.Changed("workers") {
		s.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("order") {
		order, _ := flags.GetString("order")
		s.Order = driving.TraversalOrder(order)
	}
	if flags.Changed("manifest") {
		s.Manifest, _ = flags.GetString("manifest")
	}

	return s, s.validate()
}

func applyStore(s *Settings, store driven.ConfigStore) {
	if v := store.GetString(keyToken); v != "" {
		s.Token = v
	}
	if v := store.GetString(keyNotionVersion); v != "" {
		s.NotionVersion = v
	}
	if v := store.GetString(keyOutputDir); v != "" {
		s.OutputDir = v
	}
	if _, ok := store.Get(keyRewriteLinks); ok {
		s.RewriteLinks = store.GetBool(keyRewriteLinks)
	}
	if v := store.GetInt(keyWorkers); v > 0 {
		s.Workers = v
	}
	if v := store.GetString(keyOrder); v != "" {
		s.Order = driving.TraversalOrder(v)
	}
	if v := store.GetFloat(keyRequestsPerSecond); v > 0 {
		s.RequestsPerSecond = v
	}
	if v := store.GetInt(keyMaxAttempts); v > 0 {
		s.Retry.MaxAttempts = v
	}
	if v := store.GetInt(keyBaseDelayMS); v > 0 {
		s.Retry.BaseDelay = time.Duration(v) * time.Millisecond
	}
	if v := store.GetInt(keyMaxDelayMS); v > 0 {
		s.Retry.MaxDelay = time.Duration(v) * time.Millisecond
	}
	if v := store.GetString(keyManifest); v != "" {
		s.Manifest = v
	}
}

func (s Settings) validate() error {
	switch s.Order {
	case driving.OrderBreadthFirst, driving.OrderDepthFirst:
	default:
		return fmt.Errorf("%w: order must be %q or %q, got %q",
			domain.ErrInvalidInput, driving.OrderBreadthFirst, driving.OrderDepthFirst, s.Order)
	}
	if s.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(s.OutputDir) == "" {
		return fmt.Errorf("%w: output directory is empty", domain.ErrInvalidInput)
	}
	return nil
}

// promptToken asks for the integration secret without echo when stdin is a
// terminal. It returns "" when stdin is not interactive.
//
//nolint:errcheck // CLI helper, prompt write errors are ignored
func promptToken(in *os.File, out io.Writer) string {
	if !term.IsTerminal(int(in.Fd())) {
		return ""
	}
	fmt.Fprint(out, "Notion integration token: ")
	secret, err := term.ReadPassword(int(in.Fd()))
	fmt.Fprintln(out)
	if err == nil {
		return strings.TrimSpace(string(secret))
	}
	line, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(line)
}

// maskToken hides all but the edges of a secret.
func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
