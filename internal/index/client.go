package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andrei/pv-verifier/internal/fetch"
)

// browserTimeout bounds one headless-browser page load.
const browserTimeout = 90 * time.Second

// Client fetches index documents from the election results site.
type Client struct {
	// BaseURL is the election root, e.g.
	// https://prezenta.roaep.ro/prezidentiale24112024
	BaseURL string
	// Options carries the transport headers; nil uses the defaults.
	Options *fetch.Options
	// Timestamp is the run-scoped cache-busting query value appended to
	// every index URL.
	Timestamp int64
	// UseBrowser enables the headless-browser fallback when an index
	// endpoint serves an HTML challenge instead of JSON.
	UseBrowser bool
	// Verbose enables transport-level logging.
	Verbose bool
}

// NewClient builds an index client with a fresh run timestamp.
func NewClient(baseURL string, opts *fetch.Options) *Client {
	return &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		Options:   opts,
		Timestamp: time.Now().Unix(),
	}
}

// CountiesURL returns the counties list endpoint.
func (c *Client) CountiesURL() string {
	return fmt.Sprintf("%s/data/json/sicpv/lists/counties.json?_=%d", c.BaseURL, c.Timestamp)
}

// CountyIndexURL returns the report index endpoint for a county code.
func (c *Client) CountyIndexURL(code string) string {
	return fmt.Sprintf("%s/data/json/sicpv/pv/pv_%s.json?_=%d", c.BaseURL, strings.ToLower(code), c.Timestamp)
}

// DocumentURL resolves a work item's document URL. Index items carry
// URLs relative to the site root; listing-scraped items carry absolute
// URLs and pass through unchanged.
func (c *Client) DocumentURL(item WorkItem) string {
	if strings.Contains(item.URL, "://") {
		return item.URL
	}
	return c.BaseURL + "/" + strings.TrimLeft(item.URL, "/")
}

// Counties fetches and validates the counties list.
func (c *Client) Counties(ctx context.Context) ([]County, error) {
	data, err := c.getJSON(ctx, c.CountiesURL())
	if err != nil {
		return nil, err
	}
	return ParseCounties(data)
}

// CountyIndex fetches and validates one county's report index.
func (c *Client) CountyIndex(ctx context.Context, code string) (*CountyIndex, error) {
	data, err := c.getJSON(ctx, c.CountyIndexURL(code))
	if err != nil {
		return nil, err
	}
	return ParseCountyIndex(data)
}

// getJSON fetches raw JSON bytes, falling back to the headless browser
// when the endpoint answers with an HTML interstitial.
func (c *Client) getJSON(ctx context.Context, url string) ([]byte, error) {
	var raw json.RawMessage
	err := fetch.JSON(ctx, url, c.Options, &raw)
	if err == nil {
		return raw, nil
	}

	var fetchErr *fetch.Error
	if c.UseBrowser && errors.As(err, &fetchErr) {
		if browserErr := fetch.BrowserJSON(ctx, url, browserTimeout, c.Verbose, &raw); browserErr == nil {
			return raw, nil
		}
	}
	return nil, err
}
