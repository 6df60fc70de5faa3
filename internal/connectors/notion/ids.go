package notion

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/notionexport/internal/core/domain"
)

// hexID matches a compact 32-character id at the end of a string.
var hexID = regexp.MustCompile(`([0-9a-fA-F]{32})$`)

// NormaliseID accepts a Notion URL, a 32-character hex id or a hyphenated
// UUID and returns the canonical lowercase UUID.
func NormaliseID(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: empty Notion id", domain.ErrInvalidInput)
	}

	candidate := value
	if u, err := url.Parse(value); err == nil && (u.Scheme != "" || strings.HasPrefix(value, "/")) {
		candidate = u.Path
	}
	candidate = strings.TrimRight(candidate, "/")
	if i := strings.LastIndex(candidate, "/"); i >= 0 {
		candidate = candidate[i+1:]
	}

	m := hexID.FindStringSubmatch(strings.ReplaceAll(candidate, "-", ""))
	if m == nil {
		return "", fmt.Errorf("%w: no Notion id in %q", domain.ErrInvalidInput, value)
	}

	id, err := uuid.Parse(m[1])
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return id.String(), nil
}

// canonicalID normalises ids returned by the API, keeping the raw value
// if it does not parse.
func canonicalID(raw string) string {
	if id, err := NormaliseID(raw); err == nil {
		return id
	}
	return strings.ToLower(raw)
}

// PageRefFromHref recognises inline links that point at Notion pages:
// relative "/<id>" hrefs and notion.so or notion.site URLs.
// It returns the page id and an absolute URL for the link.
func PageRefFromHref(href string) (id string, absolute string, ok bool) {
	u, err := url.Parse(href)
	if err != nil {
		return "", "", false
	}

	switch {
	case u.Scheme == "" && u.Host == "" && strings.HasPrefix(u.Path, "/"):
		absolute = "https://www.notion.so" + href
	case isNotionHost(u.Host):
		absolute = href
	default:
		return "", "", false
	}

	id, err = NormaliseID(u.Path)
	if err != nil {
		return "", "", false
	}
	return id, absolute, true
}

func isNotionHost(host string) bool {
	host = strings.ToLower(host)
	return host == "notion.so" || strings.HasSuffix(host, ".notion.so") ||
		host == "notion.site" || strings.HasSuffix(host, ".notion.site")
}
