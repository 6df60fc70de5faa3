package services

import "github.com/custodia-labs/notionexport/internal/core/domain"

// References is the result of scanning a block tree.
type References struct {
	// Documents are internal references in order of first appearance.
	Documents []domain.DocumentRef

	// External are URLs seen in inline links and bookmarks, verbatim.
	External []string
}

// ExtractReferences walks a block tree, including nested children and
// inline spans, and collects references to other documents: inline
// mentions, link-to-page blocks and child-document blocks. External
// URLs are collected separately and never treated as documents.
func ExtractReferences(blocks []domain.ContentBlock) References {
	x := &extractor{
		seenDocs: make(map[string]int),
		seenURLs: make(map[string]struct{}),
	}
	x.walk(blocks)
	return x.refs
}

type extractor struct {
	refs     References
	seenDocs map[string]int
	seenURLs map[string]struct{}
}

func (x *extractor) walk(blocks []domain.ContentBlock) {
	for i := range blocks {
		b := &blocks[i]

		if b.ReferencesDocument() {
			ref := *b.Ref
			if ref.Title == "" {
				ref.Title = b.Title
			}
			x.addDoc(ref)
		}

		x.spans(b.RichText)
		x.spans(b.Caption)
		for _, cell := range b.Cells {
			x.spans(cell)
		}

		if b.Type == domain.BlockBookmark || b.Type == domain.BlockEmbed || b.Type == domain.BlockLinkPreview {
			x.addURL(b.URL)
		}

		x.walk(b.Children)
	}
}

func (x *extractor) spans(spans []domain.RichText) {
	for _, s := range spans {
		if s.Ref != nil && s.Ref.ID != "" {
			ref := *s.Ref
			if ref.Title == "" {
				ref.Title = s.Text
			}
			x.addDoc(ref)
			continue
		}
		x.addURL(s.Link)
	}
}

func (x *extractor) addDoc(ref domain.DocumentRef) {
	if idx, ok := x.seenDocs[ref.ID]; ok {
		// Keep the first reference but fill in what it lacked.
		existing := &x.refs.Documents[idx]
		if existing.Title == "" {
			existing.Title = ref.Title
		}
		if existing.URL == "" {
			existing.URL = ref.URL
		}
		if existing.Kind == "" {
			existing.Kind = ref.Kind
		}
		return
	}
	x.seenDocs[ref.ID] = len(x.refs.Documents)
	x.refs.Documents = append(x.refs.Documents, ref)
}

func (x *extractor) addURL(url string) {
	if url == "" {
		return
	}
	if _, ok := x.seenURLs[url]; ok {
		return
	}
	x.seenURLs[url] = struct{}{}
	x.refs.External = append(x.refs.External, url)
}
