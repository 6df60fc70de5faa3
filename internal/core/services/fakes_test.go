package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/custodia-labs/notionexport/internal/core/domain"
	"github.com/custodia-labs/notionexport/internal/core/ports/driven"
)

// docID returns a canonical id whose short slug suffix is unique per n.
func docID(n int) string {
	return fmt.Sprintf("%08x-0000-4000-8000-%012x", n, n)
}

// fakeSource is an in-memory driven.Source.
type fakeSource struct {
	mu       sync.Mutex
	docs     map[string]driven.RawDocument
	children map[string][][]domain.ContentBlock
	members  map[string][][]domain.DocumentRef
	errs     map[string][]error // consumed in order by Fetch
	listErrs map[string]error   // returned by ListChildren
	fetches  map[string]int
	lists    map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		docs:     make(map[string]driven.RawDocument),
		children: make(map[string][][]domain.ContentBlock),
		members:  make(map[string][][]domain.DocumentRef),
		errs:     make(map[string][]error),
		listErrs: make(map[string]error),
		fetches:  make(map[string]int),
		lists:    make(map[string]int),
	}
}

// page adds a page whose children arrive in one listing.
func (f *fakeSource) page(id, title string, blocks ...domain.ContentBlock) *fakeSource {
	return f.pagePaged(id, title, blocks)
}

// pagePaged adds a page whose children arrive across several listings.
func (f *fakeSource) pagePaged(id, title string, pages ...[]domain.ContentBlock) *fakeSource {
	f.docs[id] = driven.RawDocument{ID: id, Kind: domain.KindPage, Title: title, URL: "https://www.notion.so/" + compactID(id)}
	f.children[id] = pages
	return f
}

// blockChildren sets the children listing of a nested block.
func (f *fakeSource) blockChildren(blockID string, blocks ...domain.ContentBlock) *fakeSource {
	f.children[blockID] = [][]domain.ContentBlock{blocks}
	return f
}

// collection adds a collection whose members arrive across listings.
func (f *fakeSource) collection(id, title string, pages ...[]domain.DocumentRef) *fakeSource {
	f.docs[id] = driven.RawDocument{ID: id, Kind: domain.KindCollection, Title: title}
	f.members[id] = pages
	return f
}

// fail queues errors returned by successive fetches of id.
func (f *fakeSource) fail(id string, errs ...error) *fakeSource {
	f.errs[id] = append(f.errs[id], errs...)
	return f
}

func (f *fakeSource) Fetch(_ context.Context, id string) (*driven.RawDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fetches[id]++
	if queued := f.errs[id]; len(queued) > 0 {
		err := queued[0]
		f.errs[id] = queued[1:]
		return nil, err
	}
	doc, ok := f.docs[id]
	if !ok {
		return nil, &domain.FetchError{Kind: domain.FailureNotFound, Ref: id, Attempts: 1, Err: domain.ErrNotFound}
	}
	return &doc, nil
}

func (f *fakeSource) ListChildren(_ context.Context, blockID, cursor string) (*driven.Page[domain.ContentBlock], error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lists[blockID]++
	if err := f.listErrs[blockID]; err != nil {
		return nil, err
	}
	return paginate(f.children[blockID], cursor)
}

func (f *fakeSource) ListMembers(_ context.Context, collectionID, cursor string) (*driven.Page[domain.DocumentRef], error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lists[collectionID]++
	return paginate(f.members[collectionID], cursor)
}

func (f *fakeSource) fetchCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches[id]
}

// paginate serves pages[cursor]; cursors are page indexes.
func paginate[T any](pages [][]T, cursor string) (*driven.Page[T], error) {
	idx := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil {
			return nil, fmt.Errorf("bad cursor %q", cursor)
		}
		idx = n
	}
	if idx >= len(pages) {
		return &driven.Page[T]{}, nil
	}
	page := &driven.Page[T]{Items: append([]T(nil), pages[idx]...)}
	if idx+1 < len(pages) {
		page.NextCursor = strconv.Itoa(idx + 1)
	}
	return page, nil
}

// recordingWriter is an in-memory driven.FileWriter.
type recordingWriter struct {
	mu     sync.Mutex
	files  map[string]string
	order  []string
	failOn map[string]error
}

func newRecordingWriter() *recordingWriter {
	return &recordingWriter{
		files:  make(map[string]string),
		failOn: make(map[string]error),
	}
}

func (w *recordingWriter) Write(path string, content []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.failOn[path]; err != nil {
		return err
	}
	w.files[path] = string(content)
	w.order = append(w.order, path)
	return nil
}

// stubRenderer renders block titles and resolved links line by line.
type stubRenderer struct{}

func (stubRenderer) Extension() string { return ".md" }

func (stubRenderer) Render(blocks []domain.ContentBlock, resolver domain.LinkResolver) string {
	var out string
	for _, b := range blocks {
		switch {
		case b.Ref != nil:
			out += fmt.Sprintf("[%s](%s)\n", resolver.Label(*b.Ref), resolver.Href(*b.Ref))
		default:
			out += domain.PlainText(b.RichText) + "\n"
		}
	}
	return out
}

// Block builders.

func para(text string) domain.ContentBlock {
	return domain.ContentBlock{Type: domain.BlockParagraph, RichText: []domain.RichText{{Text: text}}}
}

func linkTo(id string) domain.ContentBlock {
	return domain.ContentBlock{
		ID:   "link-" + id,
		Type: domain.BlockLinkToPage,
		Ref:  &domain.DocumentRef{ID: id, Kind: domain.KindPage},
	}
}

func childPage(id, title string) domain.ContentBlock {
	return domain.ContentBlock{
		ID:          id,
		Type:        domain.BlockChildPage,
		Title:       title,
		HasChildren: true,
		Ref:         &domain.DocumentRef{ID: id, Title: title, Kind: domain.KindPage},
	}
}

func mention(id, text string) domain.ContentBlock {
	return domain.ContentBlock{
		Type: domain.BlockParagraph,
		RichText: []domain.RichText{
			{Text: "see "},
			{Text: text, Ref: &domain.DocumentRef{ID: id, Title: text}},
		},
	}
}

func member(id, title string) domain.DocumentRef {
	return domain.DocumentRef{ID: id, Title: title, TitleKnown: true, Kind: domain.KindPage}
}

func fetchErr(kind domain.FailureKind) error {
	return &domain.FetchError{Kind: kind, Attempts: 1, Err: kind.Sentinel()}
}
