package domain

import "strings"

// Kind distinguishes pages from collections.
type Kind string

const (
	// KindPage is a single page with a block tree.
	KindPage Kind = "page"

	// KindCollection is a database whose members are pages.
	KindCollection Kind = "collection"
)

// Accessibility records the outcome of the first fetch attempt for a document.
type Accessibility string

const (
	// AccessUnknown means the document has been discovered but not fetched yet.
	AccessUnknown Accessibility = "unknown"

	// AccessAccessible means the document was fetched successfully.
	AccessAccessible Accessibility = "accessible"

	// AccessForbidden means the integration may not read the document.
	AccessForbidden Accessibility = "forbidden"

	// AccessNotFound means the document does not exist or was deleted.
	AccessNotFound Accessibility = "not_found"

	// AccessFailed means fetching gave up after transient failures.
	AccessFailed Accessibility = "failed"
)

// DocumentRef is a reference to another document found during traversal.
type DocumentRef struct {
	// ID is the canonical document identifier.
	ID string

	// Title is a best-effort display title. It is only authoritative
	// when TitleKnown is set (e.g. taken from a collection listing).
	Title string

	// TitleKnown marks Title as the document's own title rather than a hint.
	TitleKnown bool

	// Kind is the expected kind of the target, if the reference says so.
	Kind Kind

	// URL is the original external reference, if one was seen.
	URL string
}

// DocumentNode is one entry in the registry.
type DocumentNode struct {
	// ID is the stable external identifier and registry key.
	ID string

	// Title is the display title. Used for naming, never as a key.
	Title string

	// Kind is page or collection.
	Kind Kind

	// Accessibility is set once a fetch has been attempted.
	Accessibility Accessibility

	// URL is the original external location of the document.
	URL string

	// Blocks is the cached content tree, nil if never fetched or inaccessible.
	Blocks []ContentBlock

	// Slug is the output name stem, empty while the title is still pending.
	Slug string

	// Failure describes why the document was not fetched, if it was not.
	Failure *FetchError
}

// Exportable reports whether the document will be written by the export phase.
func (n *DocumentNode) Exportable() bool {
	return n.Accessibility == AccessAccessible && len(n.Blocks) > 0 && n.Slug != ""
}

// DisplayTitle returns the title or a placeholder when none is known.
func (n *DocumentNode) DisplayTitle() string {
	if t := strings.TrimSpace(n.Title); t != "" {
		return t
	}
	return "Untitled"
}
