// Package fetch performs the HTTP transport for the verifier: JSON index
// documents and binary report downloads. It centralizes the request
// headers the election endpoints expect.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 60 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests. The
// election endpoints sit behind a CDN that rejects obviously non-browser
// agents.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Result holds the raw content from a URL fetch.
type Result struct {
	URL         string
	Body        []byte
	ContentType string
	StatusCode  int
}

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		Headers: map[string]string{
			"accept-language": "en-GB,en-US;q=0.9,en;q=0.8,ro;q=0.7",
			"cache-control":   "no-cache",
		},
	}
}

// Get retrieves the raw content of a URL.
func Get(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	client := &http.Client{Timeout: opts.Timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}

	req.Header.Set("User-Agent", opts.UserAgent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	result := &Result{
		URL:         urlStr,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode != http.StatusOK {
		return result, &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	return result, nil
}

// JSON fetches a URL and decodes its body into v. An HTML interstitial
// in place of the expected JSON (CDN consent or challenge pages) is
// reported as an error; callers can retry through the browser fallback.
func JSON(ctx context.Context, urlStr string, opts *Options, v any) error {
	result, err := Get(ctx, urlStr, opts)
	if err != nil {
		return err
	}
	if IsInterstitial(result) {
		return &Error{URL: urlStr, Message: "expected JSON, got an HTML page"}
	}
	if err := json.Unmarshal(result.Body, v); err != nil {
		return &Error{URL: urlStr, Message: "failed to decode JSON", Cause: err}
	}
	return nil
}

// IsInterstitial reports whether the response looks like an HTML page
// served in place of JSON content.
func IsInterstitial(result *Result) bool {
	if strings.Contains(result.ContentType, "text/html") {
		return true
	}
	trimmed := strings.TrimSpace(string(result.Body))
	return strings.HasPrefix(trimmed, "<")
}

// Download fetches a URL's binary content into path. The download is
// idempotent by filename: when path already exists it returns without
// touching the network. The file is written through a temp name and
// renamed so a failed download never leaves a partial file behind.
func Download(ctx context.Context, urlStr, path string, opts *Options) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	result, err := Get(ctx, urlStr, opts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &Error{URL: urlStr, Message: "failed to create target directory", Cause: err}
	}

	tmp := path + ".part"
	if err := os.WriteFile(tmp, result.Body, 0o644); err != nil {
		return &Error{URL: urlStr, Message: "failed to write file", Cause: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		return &Error{URL: urlStr, Message: "failed to finalize file", Cause: err}
	}
	return nil
}
