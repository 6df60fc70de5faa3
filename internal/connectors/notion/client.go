package notion

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jomei/notionapi"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/notionexport/internal/core/domain"
	"github.com/custodia-labs/notionexport/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.Source = (*Client)(nil)

// Client wraps the notionapi client with pacing and conversion.
type Client struct {
	api         *notionapi.Client
	rateLimiter *RateLimiter
	pageSize    int
}

// NewClient creates a Notion client. Requests are authenticated by an
// oauth2 transport drawing on cfg.TokenSource (or the static cfg.Token) and
// paced by a shared RateLimiter.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	limiter := NewRateLimiter(cfg.Transport, cfg.RequestsPerSecond, cfg.Burst)
	httpClient := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.ReuseTokenSource(nil, authSource{cfg.tokenSource()}),
			Base:   limiter,
		},
	}

	// The bearer header comes from the oauth2 transport, not notionapi.
	api := notionapi.NewClient("",
		notionapi.WithHTTPClient(httpClient),
		notionapi.WithVersion(cfg.Version),
	)

	return &Client{
		api:         api,
		rateLimiter: limiter,
		pageSize:    cfg.PageSize,
	}, nil
}

// authSource marks token failures as authentication errors.
type authSource struct {
	src oauth2.TokenSource
}

func (a authSource) Token() (*oauth2.Token, error) {
	tok, err := a.src.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthRequired, err)
	}
	if tok == nil || tok.AccessToken == "" {
		return nil, fmt.Errorf("%w: token source returned no token", domain.ErrAuthRequired)
	}
	return tok, nil
}

// Fetch retrieves a page, or a database if the id is not a readable page.
func (c *Client) Fetch(ctx context.Context, id string) (*driven.RawDocument, error) {
	page, err := c.api.Page.Get(ctx, notionapi.PageID(id))
	if err == nil {
		return &driven.RawDocument{
			ID:    canonicalID(string(page.ID)),
			Kind:  domain.KindPage,
			Title: pageTitle(page),
			URL:   page.URL,
		}, nil
	}
	if !IsNotFound(err) {
		return nil, fmt.Errorf("get page: %w", err)
	}

	db, dbErr := c.api.Database.Get(ctx, notionapi.DatabaseID(id))
	switch {
	case dbErr == nil:
	case IsNotFound(dbErr):
		// An id that is neither is a missing page.
		return nil, fmt.Errorf("get page: %w", err)
	default:
		return nil, fmt.Errorf("get database: %w", dbErr)
	}
	return &driven.RawDocument{
		ID:    canonicalID(string(db.ID)),
		Kind:  domain.KindCollection,
		Title: strings.TrimSpace(plainText(db.Title)),
		URL:   db.URL,
	}, nil
}

// ListChildren lists one page of child blocks.
func (c *Client) ListChildren(
	ctx context.Context, blockID, cursor string,
) (*driven.Page[domain.ContentBlock], error) {
	resp, err := c.api.Block.GetChildren(ctx, notionapi.BlockID(blockID), &notionapi.Pagination{
		StartCursor: notionapi.Cursor(cursor),
		PageSize:    c.pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}

	page := &driven.Page[domain.ContentBlock]{
		Items: make([]domain.ContentBlock, 0, len(resp.Results)),
	}
	for _, b := range resp.Results {
		page.Items = append(page.Items, convertBlock(b))
	}
	if resp.HasMore {
		if resp.NextCursor == "" {
			return nil, fmt.Errorf("list children of %s: %w", blockID, ErrMissingCursor)
		}
		page.NextCursor = string(resp.NextCursor)
	}
	return page, nil
}

// ListMembers lists one page of database rows.
func (c *Client) ListMembers(
	ctx context.Context, collectionID, cursor string,
) (*driven.Page[domain.DocumentRef], error) {
	resp, err := c.api.Database.Query(ctx, notionapi.DatabaseID(collectionID), &notionapi.DatabaseQueryRequest{
		StartCursor: notionapi.Cursor(cursor),
		PageSize:    c.pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("query database: %w", err)
	}

	page := &driven.Page[domain.DocumentRef]{
		Items: make([]domain.DocumentRef, 0, len(resp.Results)),
	}
	for i := range resp.Results {
		row := &resp.Results[i]
		page.Items = append(page.Items, domain.DocumentRef{
			ID:         canonicalID(string(row.ID)),
			Title:      pageTitle(row),
			TitleKnown: true,
			Kind:       domain.KindPage,
			URL:        row.URL,
		})
	}
	if resp.HasMore {
		if resp.NextCursor == "" {
			return nil, fmt.Errorf("query database %s: %w", collectionID, ErrMissingCursor)
		}
		page.NextCursor = string(resp.NextCursor)
	}
	return page, nil
}

// pageTitle returns the plain text of a page's title property.
func pageTitle(page *notionapi.Page) string {
	for _, prop := range page.Properties {
		if title, ok := prop.(*notionapi.TitleProperty); ok {
			return strings.TrimSpace(plainText(title.Title))
		}
	}
	return ""
}

func plainText(rts []notionapi.RichText) string {
	var b strings.Builder
	for _, rt := range rts {
		b.WriteString(rt.PlainText)
	}
	return b.String()
}
