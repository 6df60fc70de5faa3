package domain

import "strings"

// LinkResolver turns references to other documents into link targets.
// The export phase supplies one backed by the registry.
type LinkResolver interface {
	// Href returns the link target for a reference: a relative path when
	// the target is exported, otherwise its original external reference.
	Href(ref DocumentRef) string

	// Label returns display text for a reference whose block carries none.
	Label(ref DocumentRef) string
}

var linkTextEscaper = strings.NewReplacer(`\`, `\\`, `[`, `\[`, `]`, `\]`)

// EscapeLinkText escapes the characters that would end Markdown link text.
func EscapeLinkText(s string) string {
	return linkTextEscaper.Replace(s)
}
