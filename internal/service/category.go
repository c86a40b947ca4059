package service

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/haierkeys/locket-service/internal/domain"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const maxTitleRunes = 255

var (
	watchMarkers     = []string{"youtube.com", "vimeo.com", "twitch.tv"}
	referenceMarkers = []string{"docs.", "/docs/", "api.", "developer."}
	toolMarkers      = []string{"github.com", "npm.", "packagist.org"}

	slugReplacer = strings.NewReplacer("-", " ", "_", " ", ".html", " ", ".php", " ")
)

// parseHint accepts only the exact persisted names.
func parseHint(hint string) (domain.Category, bool) {
	c, ok := domain.ParseCategory(hint)
	if !ok || c.String() != hint {
		return domain.CategoryInvalid, false
	}
	return c, true
}

// SuggestCategory picks a category: a valid hint wins, then URL markers, then read.
func SuggestCategory(rawURL, hint string) domain.Category {
	if c, ok := parseHint(hint); ok {
		return c
	}

	u := strings.ToLower(rawURL)
	switch {
	case containsAny(u, watchMarkers):
		return domain.CategoryWatch
	case containsAny(u, referenceMarkers):
		return domain.CategoryReference
	case containsAny(u, toolMarkers):
		return domain.CategoryTools
	}
	return domain.CategoryRead
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// FallbackTitle derives a title from the URL alone, used until the page title is fetched.
// 取路径最后一段, 否则取域名
func FallbackTitle(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "Unknown"
	}

	if path := u.Path; path != "" && path != "/" {
		if last := lastSegment(path); last != "" {
			title := cases.Title(language.Und, cases.NoLower).String(slugReplacer.Replace(last))
			if len(title) > 3 {
				return truncateRunes(strings.TrimSpace(title), maxTitleRunes)
			}
		}
	}

	if host := u.Hostname(); host != "" {
		return truncateRunes(upperFirst(strings.ReplaceAll(host, "www.", "")), maxTitleRunes)
	}
	return "Unknown"
}

func lastSegment(path string) string {
	parts := strings.Split(path, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if p := parts[i]; p != "" && p != "0" {
			return p
		}
	}
	return ""
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
