package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	// slugSeparator separates the title part from the id suffix.
	slugSeparator = "--"

	// slugIDLength is the number of id characters in a short slug.
	slugIDLength = 10

	// slugMaxTitle caps the title part of a slug.
	slugMaxTitle = 80
)

// Slugify turns a title into a lowercase, URL-safe string.
// Letters are folded to ASCII where a decomposition exists; every run of
// other characters collapses to a single hyphen.
func Slugify(title string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range norm.NFKD.String(title) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(unicode.ToLower(r))
		default:
			pendingDash = true
		}
		if b.Len() >= slugMaxTitle {
			break
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// compactID strips hyphens from an id and lowercases it.
func compactID(id string) string {
	return strings.ToLower(strings.ReplaceAll(id, "-", ""))
}

// Slug derives the output name stem for a document from its title and id.
func Slug(title, id string) string {
	short := compactID(id)
	if len(short) > slugIDLength {
		short = short[:slugIDLength]
	}
	return slugBase(title) + slugSeparator + short
}

// LongSlug is the collision fallback; it carries the whole id.
func LongSlug(title, id string) string {
	return slugBase(title) + slugSeparator + compactID(id)
}

func slugBase(title string) string {
	if base := Slugify(title); base != "" {
		return base
	}
	return "untitled"
}
