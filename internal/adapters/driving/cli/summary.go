package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/notionexport/internal/core/domain"
)

// palette mirrors the colours used across the command output.
var palette = struct {
	Primary, Muted, Success, Warning, Error lipgloss.Color
}{
	Primary: lipgloss.Color("#7C3AED"),
	Muted:   lipgloss.Color("#6C7086"),
	Success: lipgloss.Color("#A6E3A1"),
	Warning: lipgloss.Color("#F9E2AF"),
	Error:   lipgloss.Color("#F38BA8"),
}

// outputStyles holds styles bound to one writer's colour profile.
type outputStyles struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// newOutputStyles detects colour support on w; plain writers get no escapes.
func newOutputStyles(w io.Writer) outputStyles {
	r := lipgloss.NewRenderer(w)
	return outputStyles{
		Title:   r.NewStyle().Bold(true).Foreground(palette.Primary),
		Muted:   r.NewStyle().Foreground(palette.Muted),
		Success: r.NewStyle().Foreground(palette.Success),
		Warning: r.NewStyle().Foreground(palette.Warning),
		Error:   r.NewStyle().Foreground(palette.Error),
	}
}

func (s outputStyles) status(status domain.RunStatus) lipgloss.Style {
	switch status {
	case domain.StatusOK:
		return s.Success
	case domain.StatusPartial:
		return s.Warning
	default:
		return s.Error
	}
}

//nolint:errcheck // terminal output
func printSummary(w io.Writer, summary *domain.Summary, outputDir string) {
	st := newOutputStyles(w)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n", st.Title.Render("Export"), st.status(summary.Status).Render(summary.Status.String()))
	fmt.Fprintf(w, "  Documents discovered: %d\n", len(summary.Documents))
	fmt.Fprintf(w, "  Files written:        %d\n", len(summary.Files))
	if summary.IndexPath != "" {
		fmt.Fprintf(w, "  Index:                %s\n", filepath.Join(outputDir, summary.IndexPath))
	}
	if !summary.FinishedAt.IsZero() {
		elapsed := summary.FinishedAt.Sub(summary.StartedAt).Round(100 * time.Millisecond)
		fmt.Fprintf(w, "  %s\n", st.Muted.Render(fmt.Sprintf("Run %s in %s", summary.RunID, elapsed)))
	}

	if len(summary.Skipped) > 0 {
		fmt.Fprintf(w, "\n%s\n", st.Warning.Render(fmt.Sprintf("Skipped (%d):", len(summary.Skipped))))
		for _, skip := range summary.Skipped {
			label := skip.Title
			if label == "" {
				label = skip.ID
			} else {
				label = fmt.Sprintf("%s (%s)", skip.Title, skip.ID)
			}
			line := fmt.Sprintf("  - %s: %s", label, skip.Reason)
			if skip.Detail != "" {
				line += " " + st.Muted.Render(skip.Detail)
			}
			fmt.Fprintln(w, line)
		}
	}

	if summary.Err != nil {
		fmt.Fprintf(w, "\n%s %v\n", st.Error.Render("Aborted:"), summary.Err)
	}
}
