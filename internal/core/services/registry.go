package services

import (
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/notionexport/internal/core/domain"
)

// Registry is the shared map of discovered documents. Entries are never
// removed; their accessibility moves from unknown to a final state once.
// It also owns the visited set so that check-and-mark is atomic with
// entry creation.
type Registry struct {
	mu      sync.RWMutex
	nodes   map[string]*domain.DocumentNode
	visited map[string]struct{}
	slugs   map[string]string // slug -> owning id
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		nodes:   make(map[string]*domain.DocumentNode),
		visited: make(map[string]struct{}),
		slugs:   make(map[string]string),
	}
}

// Claim ensures an entry exists for ref and marks it visited.
// It returns true only for the first caller for a given id; every other
// caller must not fetch the document.
func (r *Registry) Claim(ref domain.DocumentRef) bool {
	if ref.ID == "" {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.ensureLocked(ref)
	if _, seen := r.visited[ref.ID]; seen {
		return false
	}
	r.visited[ref.ID] = struct{}{}
	return true
}

// Ensure creates a placeholder entry for ref if none exists and records
// any new information the reference carries. It does not mark it visited.
func (r *Registry) Ensure(ref domain.DocumentRef) {
	if ref.ID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLocked(ref)
}

// ensureLocked creates or enriches an entry (caller must hold lock).
func (r *Registry) ensureLocked(ref domain.DocumentRef) *domain.DocumentNode {
	node, ok := r.nodes[ref.ID]
	if !ok {
		node = &domain.DocumentNode{
			ID:            ref.ID,
			Kind:          ref.Kind,
			Accessibility: domain.AccessUnknown,
		}
		r.nodes[ref.ID] = node
	}

	if node.URL == "" && ref.URL != "" {
		node.URL = ref.URL
	}
	if node.Kind == "" && ref.Kind != "" {
		node.Kind = ref.Kind
	}

	// A slug marks the title as authoritative. Until then a listing title
	// replaces any hint, and among hints the smallest wins, so the result
	// is the same whichever path reached the node first.
	switch {
	case node.Slug != "" || node.Accessibility == domain.AccessAccessible:
	case ref.TitleKnown:
		node.Title = ref.Title
		r.assignSlugLocked(node)
	case ref.Title != "" && (node.Title == "" || ref.Title < node.Title):
		node.Title = ref.Title
	}
	return node
}

// assignSlugLocked gives node its slug once its title is authoritative.
// When two ids coincide on the short slug the smaller id keeps it and the
// other takes the long form, so the outcome does not depend on discovery
// order. Slugs are settled before the render phase reads them.
func (r *Registry) assignSlugLocked(node *domain.DocumentNode) {
	if node.Slug != "" {
		return
	}
	slug := Slug(node.Title, node.ID)
	owner, taken := r.slugs[slug]
	if taken && owner != node.ID {
		if node.ID > owner {
			slug = LongSlug(node.Title, node.ID)
		} else {
			other := r.nodes[owner]
			other.Slug = LongSlug(other.Title, other.ID)
			r.slugs[other.Slug] = other.ID
		}
	}
	node.Slug = slug
	r.slugs[slug] = node.ID
}

// MarkAccessible records a successful fetch: the authoritative title,
// kind, URL and the cached block tree.
func (r *Registry) MarkAccessible(doc domain.DocumentNode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	node := r.ensureLocked(domain.DocumentRef{ID: doc.ID})
	node.Accessibility = domain.AccessAccessible
	node.Title = doc.Title
	if doc.Kind != "" {
		node.Kind = doc.Kind
	}
	if doc.URL != "" {
		node.URL = doc.URL
	}
	node.Blocks = doc.Blocks
	node.Failure = nil
	r.assignSlugLocked(node)
}

// MarkFailed records a failed fetch. The block tree stays absent.
func (r *Registry) MarkFailed(id string, ferr *domain.FetchError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	node := r.ensureLocked(domain.DocumentRef{ID: id})
	node.Accessibility = ferr.Kind.Accessibility()
	node.Blocks = nil
	node.Failure = ferr
}

// Get returns a copy of the entry for id.
func (r *Registry) Get(id string) (domain.DocumentNode, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	node, ok := r.nodes[id]
	if !ok {
		return domain.DocumentNode{}, false
	}
	return *node, true
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}

// Snapshot returns copies of all entries sorted by lowercase title, then id.
func (r *Registry) Snapshot() []domain.DocumentNode {
	r.mu.RLock()
	out := make([]domain.DocumentNode, 0, len(r.nodes))
	for _, node := range r.nodes {
		out = append(out, *node)
	}
	r.mu.RUnlock()

	SortNodes(out)
	return out
}

// SortNodes sorts nodes by lowercase display title, then id.
func SortNodes(nodes []domain.DocumentNode) {
	sort.Slice(nodes, func(i, j int) bool {
		ti := strings.ToLower(nodes[i].DisplayTitle())
		tj := strings.ToLower(nodes[j].DisplayTitle())
		if ti != tj {
			return ti < tj
		}
		return nodes[i].ID < nodes[j].ID
	})
}
