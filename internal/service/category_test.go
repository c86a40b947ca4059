package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/haierkeys/locket-service/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestSuggestCategory(t *testing.T) {
	tests := []struct {
		name string
		url  string
		hint string
		want domain.Category
	}{
		{"youtube", "https://www.youtube.com/watch?v=x", "", domain.CategoryWatch},
		{"vimeo upper case", "https://VIMEO.com/123", "", domain.CategoryWatch},
		{"github", "https://github.com/foo/bar", "", domain.CategoryTools},
		{"docs subdomain", "https://docs.example.com", "", domain.CategoryReference},
		{"docs path", "https://example.com/docs/intro", "", domain.CategoryReference},
		{"plain post", "https://example.com/post", "", domain.CategoryRead},
		{"npm", "https://npm.im/left-pad", "", domain.CategoryTools},
		{"watch beats tools", "https://youtube.com/github.com", "", domain.CategoryWatch},
		{"hint overrides markers", "https://www.youtube.com/watch?v=x", "tools", domain.CategoryTools},
		{"invalid hint ignored", "https://github.com/foo/bar", "video", domain.CategoryTools},
		{"hint must be exact", "https://example.com/post", "Watch", domain.CategoryRead},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuggestCategory(tt.url, tt.hint))
		})
	}
}

func TestFallbackTitle(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/cool-article", "Cool Article"},
		{"https://example.com/blog/my_first-post.html", "My First Post"},
		{"https://example.com/index.php", "Index"},
		{"https://www.example.com/", "Example.com"},
		{"https://www.example.com/ab", "Example.com"},
		{"https://example.com/a/0", "Example.com"},
		{"https://example.com/posts/0/", "Posts"},
		{"mailto:", "Unknown"},
		{"%zz", "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, FallbackTitle(tt.url))
		})
	}
}

func TestProperty_SuggestCategoryHintWins(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	hosts := gen.OneConstOf("youtube.com", "docs.go.dev", "github.com", "example.com", "api.stripe.com")

	properties.Property("a valid hint always wins", prop.ForAll(
		func(host, path string, idx int) bool {
			hint := domain.Categories[idx]
			return SuggestCategory("https://"+host+"/"+path, hint.String()) == hint
		},
		hosts,
		gen.AlphaString(),
		gen.IntRange(0, len(domain.Categories)-1),
	))

	properties.Property("result is always a valid category", prop.ForAll(
		func(s, hint string) bool {
			return SuggestCategory(s, hint).Valid()
		},
		gen.AnyString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestProperty_CleanTitle(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	pieces := gen.SliceOf(gen.OneGenOf(
		gen.AlphaString(),
		gen.OneConstOf(" ", "  ", "\n", "\t", " \n\t ", "&amp;", "&lt;"),
	))

	properties.Property("cleaned titles are trimmed, single spaced and bounded", prop.ForAll(
		func(parts []string) bool {
			out := CleanTitle(strings.Join(parts, ""))
			return out == strings.TrimSpace(out) &&
				!strings.Contains(out, "  ") &&
				!strings.ContainsAny(out, "\n\t") &&
				utf8.RuneCountInString(out) <= maxTitleRunes
		},
		pieces,
	))

	properties.TestingRun(t)
}

func TestCleanTitle(t *testing.T) {
	assert.Equal(t, "Testing & Dev Multiple Spaces", CleanTitle("  Testing &amp; Dev\n  Multiple   Spaces  "))
	assert.Equal(t, "", CleanTitle(" \n\t "))
	assert.Equal(t, maxTitleRunes, utf8.RuneCountInString(CleanTitle(strings.Repeat("é", 400))))
}
