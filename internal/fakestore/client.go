// Package fakestore is the HTTP client for the remote catalog API. It
// exposes the four read-only operations the catalog store depends on and
// owns all transport detail: paths, headers, status handling, JSON decoding.
// No retries; a failed call surfaces as a single error for the caller to
// reconcile.
package fakestore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shopfront/internal/catalog"
)

// DefaultBaseURL is the public fakestore API.
const DefaultBaseURL = "https://fakestoreapi.com"

// Client talks to a fakestore-compatible catalog API. It satisfies
// catalog.Client.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *zap.Logger
}

// New creates a client for the given base URL. An empty baseURL falls back
// to DefaultBaseURL; a nil logger is replaced with a no-op logger.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Products fetches the full product list.
func (c *Client) Products(ctx context.Context) ([]catalog.Product, error) {
	var out []catalog.Product
	if err := c.get(ctx, "/products", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProductByID fetches a single product.
func (c *Client) ProductByID(ctx context.Context, id int) (catalog.Product, error) {
	var out catalog.Product
	if err := c.get(ctx, "/products/"+strconv.Itoa(id), &out); err != nil {
		return catalog.Product{}, err
	}
	return out, nil
}

// Categories fetches the flat category list.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.get(ctx, "/products/categories", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProductsByCategory fetches the products in one category. The category name
// is path-escaped; fakestore categories contain spaces ("men's clothing").
func (c *Client) ProductsByCategory(ctx context.Context, category string) ([]catalog.Product, error) {
	var out []catalog.Product
	if err := c.get(ctx, "/products/category/"+url.PathEscape(category), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// get performs one GET against the API and decodes the JSON body into out.
// Every request carries a fresh X-Request-ID so a flaky call can be matched
// to its log line.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("catalog request %s: %w", path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Warn("catalog request failed",
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return fmt.Errorf("catalog request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Warn("catalog request rejected",
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("catalog request %s: unexpected status %s", path, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("catalog response %s: %w", path, err)
	}

	c.logger.Debug("catalog request",
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
