// Package markdown renders content block trees as Markdown.
//
// Rendering is pure: it works only on cached blocks and a
// [domain.LinkResolver], and never touches the network. Constructs that
// Markdown cannot express are rendered as embedded HTML: toggles become
// <details> elements and tables become <table> fragments, since table
// cells may carry rich content that pipe tables cannot.
//
// Every reference to another document, inline or block-level, goes
// through the resolver, so the same output is produced whether the
// target was exported or not; only the link target differs.
package markdown
