package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// SheetClient reads one tab of the workbook as header-keyed rows.
type SheetClient interface {
	FetchTab(ctx context.Context, tab string) ([]Row, error)
	// Origin identifies where tabs come from; it is part of the cache key.
	Origin() string
}

// HTTPSheetClient reads tabs from the workbook's JSON endpoint with GET <url>?tab=<tab>.
type HTTPSheetClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSheetClient returns a client for the given endpoint.
func NewHTTPSheetClient(baseURL string, timeout time.Duration) *HTTPSheetClient {
	return &HTTPSheetClient{baseURL: baseURL, client: &http.Client{Timeout: timeout}}
}

// Origin implements SheetClient.
func (c *HTTPSheetClient) Origin() string { return c.baseURL }

// FetchTab implements SheetClient.
func (c *HTTPSheetClient) FetchTab(ctx context.Context, tab string) ([]Row, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid source url: %w", err)
	}
	q := u.Query()
	q.Set("tab", tab)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch tab %q: %w", tab, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetch tab %q: unexpected status %s", tab, resp.Status)
	}
	return decodeRows(tab, resp.Body)
}

// DirSheetClient reads tabs from <dir>/<tab>.json, for offline runs and tests.
type DirSheetClient struct {
	dir string
}

// NewDirSheetClient returns a client over a directory of tab exports.
func NewDirSheetClient(dir string) *DirSheetClient {
	return &DirSheetClient{dir: dir}
}

// Origin implements SheetClient.
func (c *DirSheetClient) Origin() string { return "dir:" + c.dir }

// FetchTab implements SheetClient.
func (c *DirSheetClient) FetchTab(ctx context.Context, tab string) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(c.dir, tab+".json"))
	if err != nil {
		return nil, fmt.Errorf("open tab %q: %w", tab, err)
	}
	defer func() { _ = f.Close() }()
	return decodeRows(tab, f)
}

// decodeRows expects a JSON array of objects.
func decodeRows(tab string, r io.Reader) ([]Row, error) {
	var rows []Row
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode tab %q: %w", tab, err)
	}
	return rows, nil
}
