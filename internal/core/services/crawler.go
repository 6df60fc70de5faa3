package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/notionexport/internal/core/domain"
	"github.com/custodia-labs/notionexport/internal/core/ports/driven"
	"github.com/custodia-labs/notionexport/internal/core/ports/driving"
	"github.com/custodia-labs/notionexport/internal/logger"
)

// DefaultWorkers is the default number of concurrent document fetches.
const DefaultWorkers = 3

// Crawler discovers every document reachable from a root and caches
// their block trees in a Registry.
type Crawler struct {
	source  driven.Source
	workers int
	order   driving.TraversalOrder
	pick    func(n int) int
}

// NewCrawler creates a crawler over source. The source should already
// classify its errors (see RetryingSource).
func NewCrawler(source driven.Source) *Crawler {
	return &Crawler{
		source:  source,
		workers: DefaultWorkers,
		order:   driving.OrderBreadthFirst,
	}
}

// WithWorkers sets the number of concurrent fetches.
func (c *Crawler) WithWorkers(n int) *Crawler {
	if n > 0 {
		c.workers = n
	}
	return c
}

// WithOrder sets the traversal order.
func (c *Crawler) WithOrder(order driving.TraversalOrder) *Crawler {
	if order != "" {
		c.order = order
	}
	return c
}

// WithPicker overrides the traversal order with a function choosing the
// index of the next pending document out of n.
func (c *Crawler) WithPicker(pick func(n int) int) *Crawler {
	c.pick = pick
	return c
}

// visitResult is what a worker reports after visiting one document.
type visitResult struct {
	ref        domain.DocumentRef
	discovered []domain.DocumentRef
	fatal      error
}

// Discover walks the reference graph from root. It returns the populated
// registry; a non-nil error means a fatal failure aborted the walk, in
// which case the registry holds what was discovered so far.
func (c *Crawler) Discover(ctx context.Context, root domain.DocumentRef) (*Registry, error) {
	registry := NewRegistry()
	if root.ID == "" {
		return registry, fmt.Errorf("%w: empty root reference", domain.ErrInvalidInput)
	}

	logger.Section("Discovery")

	jobs := make(chan domain.DocumentRef)
	results := make(chan visitResult)
	for range c.workers {
		go func() {
			for ref := range jobs {
				results <- c.visit(ctx, registry, ref)
			}
		}()
	}
	defer close(jobs)

	registry.Claim(root)
	queue := []domain.DocumentRef{root}
	inflight := 0
	done := ctx.Done()

	var abortErr error
	for len(queue) > 0 || inflight > 0 {
		if abortErr == nil && ctx.Err() != nil {
			abortErr = ctx.Err()
			queue = nil
		}

		var (
			send chan domain.DocumentRef
			next domain.DocumentRef
			idx  int
		)
		if len(queue) > 0 && abortErr == nil {
			idx = c.next(len(queue))
			next = queue[idx]
			send = jobs
		}

		select {
		case send <- next:
			queue = append(queue[:idx], queue[idx+1:]...)
			inflight++

		case res := <-results:
			inflight--
			if res.fatal != nil {
				if abortErr == nil {
					abortErr = res.fatal
					logger.Warn("aborting discovery: %v", res.fatal)
				}
				queue = nil
				continue
			}
			if abortErr != nil {
				continue
			}
			for _, ref := range res.discovered {
				if registry.Claim(ref) {
					queue = append(queue, ref)
				}
			}

		case <-done:
			done = nil
			if abortErr == nil {
				abortErr = ctx.Err()
			}
			queue = nil
		}
	}

	if abortErr != nil {
		return registry, fmt.Errorf("%w: %w", domain.ErrAborted, abortErr)
	}
	logger.Info("Discovered %d documents", registry.Len())
	return registry, nil
}

// next picks the index of the next pending document.
func (c *Crawler) next(n int) int {
	if c.pick != nil {
		if i := c.pick(n); i >= 0 && i < n {
			return i
		}
	}
	if c.order == driving.OrderDepthFirst {
		return n - 1
	}
	return 0
}

// visit fetches one document and records the outcome in the registry.
func (c *Crawler) visit(ctx context.Context, registry *Registry, ref domain.DocumentRef) visitResult {
	res := visitResult{ref: ref}

	raw, err := c.source.Fetch(ctx, ref.ID)
	if err != nil {
		res.fatal = c.fail(registry, ref, err)
		return res
	}
	if raw.Kind == "" {
		raw.Kind = domain.KindPage
	}
	logger.Debug("Visited %s (%s)", raw.Title, ref.ID)

	var blocks []domain.ContentBlock
	switch raw.Kind {
	case domain.KindCollection:
		members, err := c.listMembers(ctx, ref.ID)
		if err != nil {
			res.fatal = c.fail(registry, ref, err)
			return res
		}
		for i := range members {
			registry.Ensure(members[i])
			blocks = append(blocks, domain.ContentBlock{
				ID:    members[i].ID,
				Type:  domain.BlockChildPage,
				Title: members[i].Title,
				Ref:   &members[i],
			})
		}
		res.discovered = members

	default:
		blocks, err = c.fetchTree(ctx, ref.ID)
		if err != nil {
			res.fatal = c.fail(registry, ref, err)
			return res
		}
		res.discovered = ExtractReferences(blocks).Documents
	}

	registry.MarkAccessible(domain.DocumentNode{
		ID:     ref.ID,
		Title:  raw.Title,
		Kind:   raw.Kind,
		URL:    raw.URL,
		Blocks: blocks,
	})
	return res
}

// fail records a non-fatal failure and returns the error if it is fatal.
func (c *Crawler) fail(registry *Registry, ref domain.DocumentRef, err error) error {
	var fe *domain.FetchError
	if !errors.As(err, &fe) {
		fe = &domain.FetchError{Kind: domain.KindOf(err), Ref: ref.ID, Attempts: 1, Err: err}
	}
	if fe.Kind.Fatal() {
		return fe
	}
	registry.MarkFailed(ref.ID, fe)
	logger.Warn("skipping %s: %s", ref.ID, fe.Kind)
	return nil
}

// listMembers enumerates a collection across pagination.
func (c *Crawler) listMembers(ctx context.Context, collectionID string) ([]domain.DocumentRef, error) {
	var (
		members []domain.DocumentRef
		cursor  string
	)
	for {
		page, err := c.source.ListMembers(ctx, collectionID, cursor)
		if err != nil {
			return nil, err
		}
		for _, m := range page.Items {
			if m.Kind == "" {
				m.Kind = domain.KindPage
			}
			members = append(members, m)
		}
		if !page.HasMore() {
			return members, nil
		}
		cursor = page.NextCursor
	}
}

// fetchTree fetches the children of blockID across pagination and
// recursively the children of nested blocks. Nested blocks the
// integration cannot read are kept without children.
func (c *Crawler) fetchTree(ctx context.Context, blockID string) ([]domain.ContentBlock, error) {
	var (
		blocks []domain.ContentBlock
		cursor string
	)
	for {
		page, err := c.source.ListChildren(ctx, blockID, cursor)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, page.Items...)
		if !page.HasMore() {
			break
		}
		cursor = page.NextCursor
	}

	for i := range blocks {
		b := &blocks[i]
		if !b.DescendsIntoChildren() || b.ID == "" || len(b.Children) > 0 {
			continue
		}
		children, err := c.fetchTree(ctx, b.ID)
		if err != nil {
			if domain.KindOf(err).Inaccessible() {
				logger.Warn("skipping children of block %s: %v", b.ID, err)
				continue
			}
			return nil, err
		}
		b.Children = children
	}
	return blocks, nil
}
