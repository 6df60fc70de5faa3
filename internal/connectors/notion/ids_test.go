package notion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notionexport/internal/core/domain"
)

const (
	compact   = "0123456789abcdef0123456789abcdef"
	canonical = "01234567-89ab-cdef-0123-456789abcdef"
)

func TestNormaliseID(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"compact", compact},
		{"hyphenated", canonical},
		{"upper case", "01234567-89AB-CDEF-0123-456789ABCDEF"},
		{"padded", "  " + compact + "\n"},
		{"page url", "https://www.notion.so/acme/Roadmap-" + compact},
		{"url with query", "https://www.notion.so/Roadmap-" + compact + "?pvs=4"},
		{"trailing slash", "https://acme.notion.site/" + compact + "/"},
		{"relative path", "/Roadmap-" + compact},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NormaliseID(tt.input)
			require.NoError(t, err)
			assert.Equal(t, canonical, id)
		})
	}
}

func TestNormaliseID_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "not-an-id", "https://www.notion.so/Roadmap", "0123456789abcdef"} {
		t.Run(input, func(t *testing.T) {
			_, err := NormaliseID(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestPageRefFromHref(t *testing.T) {
	tests := []struct {
		name     string
		href     string
		wantOK   bool
		absolute string
	}{
		{"relative", "/" + compact, true, "https://www.notion.so/" + compact},
		{"notion.so", "https://www.notion.so/Page-" + compact, true, "https://www.notion.so/Page-" + compact},
		{"notion.site", "https://acme.notion.site/Page-" + compact, true, "https://acme.notion.site/Page-" + compact},
		{"foreign host", "https://example.com/" + compact, false, ""},
		{"notion without id", "https://www.notion.so/pricing", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, absolute, ok := PageRefFromHref(tt.href)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, canonical, id)
				assert.Equal(t, tt.absolute, absolute)
			}
		})
	}
}
