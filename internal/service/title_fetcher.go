package service

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
)

var (
	titlePattern = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	spaceRun     = regexp.MustCompile(`\s+`)
)

// FetchResult is what one page fetch produced.
type FetchResult struct {
	StatusCode  int
	ContentType string
	BodyLength  int
	RawTitle    string
	Title       string // cleaned, empty when the page had no usable title
	Preview     string // first bytes of the body, for debugging
}

// HTTPStatusError reports a non-2xx response.
type HTTPStatusError struct {
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected http status %d", e.StatusCode)
}

// TitleFetcher fetches a page and extracts its title.
type TitleFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*FetchResult, error)
}

type httpTitleFetcher struct {
	client *http.Client
	config FetcherConfig
}

// NewTitleFetcher 创建标题抓取器; client 为空时按配置超时新建
func NewTitleFetcher(client *http.Client, config *ServiceConfig) TitleFetcher {
	cfg := config.fetcher()
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &httpTitleFetcher{client: client, config: cfg}
}

// Fetch GETs rawURL with the bot user agent. A non-2xx response returns the result and an *HTTPStatusError.
func (f *httpTitleFetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodyBytes))
	if err != nil {
		return nil, err
	}

	res := &FetchResult{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		BodyLength:  len(body),
		Preview:     preview(body, 1000),
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return res, &HTTPStatusError{StatusCode: resp.StatusCode}
	}

	res.RawTitle, res.Title = ExtractTitle(string(body))
	return res, nil
}

// ExtractTitle finds the first <title> element and returns it raw and cleaned.
func ExtractTitle(doc string) (raw string, title string) {
	m := titlePattern.FindStringSubmatch(doc)
	if m == nil {
		return "", ""
	}
	return m[1], CleanTitle(m[1])
}

// CleanTitle decodes entities, trims, collapses whitespace runs and caps the length.
func CleanTitle(raw string) string {
	t := spaceRun.ReplaceAllString(html.UnescapeString(raw), " ")
	t = truncateRunes(strings.TrimSpace(t), maxTitleRunes)
	return strings.TrimSpace(t)
}

func preview(body []byte, n int) string {
	if len(body) > n {
		body = body[:n]
	}
	return string(body)
}
