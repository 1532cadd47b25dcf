package validator

import (
	"strings"
	"testing"

	"github.com/gamassss/slinkr/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_CreateLinkRequest(t *testing.T) {
	tests := []struct {
		name      string
		req       domain.CreateLinkRequest
		wantField string
		wantMsg   string
	}{
		{
			name: "valid without slug",
			req:  domain.CreateLinkRequest{URL: "example.com", Title: "Example"},
		},
		{
			name: "valid with slug",
			req:  domain.CreateLinkRequest{URL: "https://example.com", Title: "Example", Slug: "my-link-2"},
		},
		{
			name:      "missing url",
			req:       domain.CreateLinkRequest{Title: "Example"},
			wantField: "URL",
			wantMsg:   "URL is required",
		},
		{
			name:      "missing title",
			req:       domain.CreateLinkRequest{URL: "https://example.com"},
			wantField: "Title",
			wantMsg:   "Title is required",
		},
		{
			name:      "slug with invalid characters",
			req:       domain.CreateLinkRequest{URL: "https://example.com", Title: "t", Slug: "no/slashes"},
			wantField: "Slug",
			wantMsg:   "Slug may only contain letters, digits and hyphens",
		},
		{
			name:      "slug too long",
			req:       domain.CreateLinkRequest{URL: "https://example.com", Title: "t", Slug: strings.Repeat("a", 65)},
			wantField: "Slug",
			wantMsg:   "Slug must be at most 64 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.req)

			if tt.wantField == "" {
				assert.Empty(t, errs)
				return
			}

			require.Len(t, errs, 1)
			assert.Equal(t, tt.wantField, errs[0].Field)
			assert.Equal(t, tt.wantMsg, errs[0].Message)
		})
	}
}

func TestValidate_UpdateLinkRequestRequiresSlug(t *testing.T) {
	errs := Validate(domain.UpdateLinkRequest{URL: "https://example.com", Title: "t"})

	require.Len(t, errs, 1)
	assert.Equal(t, "Slug", errs[0].Field)
}
