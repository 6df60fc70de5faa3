package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/notionexport/internal/core/domain"
	"github.com/custodia-labs/notionexport/internal/core/ports/driven"
	"github.com/custodia-labs/notionexport/internal/logger"
)

const (
	// IndexFileName is the name of the index document.
	IndexFileName = "_INDEX.md"

	// indexTitle heads the index document.
	indexTitle = "Notion Export Index"

	// notionBaseURL is used to synthesise links to documents without a URL.
	notionBaseURL = "https://www.notion.so/"
)

// NotionURL synthesises the public URL of a document from its id.
func NotionURL(id string) string {
	return notionBaseURL + compactID(id)
}

// ExportWriter is the render phase: it renders every exportable registry
// entry and writes it under its slug, followed by an index.
type ExportWriter struct {
	renderer     driven.Renderer
	writer       driven.FileWriter
	rewriteLinks bool
}

// NewExportWriter creates an export writer.
func NewExportWriter(renderer driven.Renderer, writer driven.FileWriter, rewriteLinks bool) *ExportWriter {
	return &ExportWriter{
		renderer:     renderer,
		writer:       writer,
		rewriteLinks: rewriteLinks,
	}
}

// ExportAll writes one file per exportable document and the index.
// Per-document write failures are recorded in summary and do not stop
// the rest of the export. It returns the files written.
func (w *ExportWriter) ExportAll(registry *Registry, summary *domain.Summary) []domain.ExportedFile {
	logger.Section("Export")

	resolver := &registryResolver{
		registry: registry,
		rewrite:  w.rewriteLinks,
		ext:      w.renderer.Extension(),
	}

	var (
		written []domain.ExportedFile
		indexed []domain.DocumentNode
	)
	for _, node := range registry.Snapshot() {
		if node.Failure != nil {
			summary.AddSkip(domain.Skip{
				ID:     node.ID,
				Title:  node.Title,
				Reason: node.Failure.Kind,
				Detail: node.Failure.Error(),
			})
			continue
		}
		if !node.Exportable() {
			continue
		}

		path := node.Slug + w.renderer.Extension()
		content := w.document(&node, resolver)
		if err := w.writer.Write(path, []byte(content)); err != nil {
			logger.Warn("write %s: %v", path, err)
			summary.AddSkip(domain.Skip{
				ID:     node.ID,
				Title:  node.Title,
				Reason: domain.FailureWrite,
				Detail: err.Error(),
			})
			continue
		}

		logger.Debug("wrote %s", path)
		written = append(written, domain.ExportedFile{ID: node.ID, Title: node.DisplayTitle(), Path: path})
		indexed = append(indexed, node)
	}

	if err := w.writer.Write(IndexFileName, []byte(w.index(indexed))); err != nil {
		logger.Warn("write %s: %v", IndexFileName, err)
		summary.AddSkip(domain.Skip{
			ID:     IndexFileName,
			Title:  indexTitle,
			Reason: domain.FailureWrite,
			Detail: err.Error(),
		})
	} else {
		summary.IndexPath = IndexFileName
	}

	summary.Files = append(summary.Files, written...)
	return written
}

// document renders a single document with its header.
func (w *ExportWriter) document(node *domain.DocumentNode, resolver domain.LinkResolver) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<!-- Exported from Notion page: %s -->\n", node.ID)
	fmt.Fprintf(&b, "# %s\n\n", node.DisplayTitle())
	b.WriteString(w.renderer.Render(node.Blocks, resolver))
	return b.String()
}

// index renders the index document. nodes arrive sorted by title, then id.
func (w *ExportWriter) index(nodes []domain.DocumentNode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", indexTitle)
	for i := range nodes {
		fmt.Fprintf(&b, "- [%s](./%s%s)\n",
			domain.EscapeLinkText(nodes[i].DisplayTitle()), nodes[i].Slug, w.renderer.Extension())
	}
	return b.String()
}

// registryResolver resolves references against the registry.
type registryResolver struct {
	registry *Registry
	rewrite  bool
	ext      string
}

// Href returns a relative path for exported targets, otherwise the
// original reference. With rewriting disabled it always returns the
// original reference.
func (r *registryResolver) Href(ref domain.DocumentRef) string {
	node, known := r.registry.Get(ref.ID)
	if r.rewrite && known && node.Exportable() {
		return "./" + node.Slug + r.ext
	}
	switch {
	case ref.URL != "":
		return ref.URL
	case known && node.URL != "":
		return node.URL
	default:
		return NotionURL(ref.ID)
	}
}

// Label prefers the registry title over the reference's hint.
func (r *registryResolver) Label(ref domain.DocumentRef) string {
	if node, ok := r.registry.Get(ref.ID); ok && strings.TrimSpace(node.Title) != "" {
		return node.Title
	}
	if strings.TrimSpace(ref.Title) != "" {
		return ref.Title
	}
	return "Linked page"
}
