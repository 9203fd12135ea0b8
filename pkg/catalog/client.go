package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/designstudio-backend/pkg/errors"
	"golang.org/x/sync/singleflight"
)

const (
	defaultBaseURL              = "http://localhost:3000"
	responseBodyReadLimit int64 = 1024
)

var errBaseURLInvalid = errors.New("catalog base url must be absolute")

// RequestObserver receives one callback per catalog request.
type RequestObserver interface {
	ObserveRequest(endpoint, outcome string, duration time.Duration)
}

// Client wraps the read-only catalog backend that owns products and stones.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	observer   RequestObserver
	group      singleflight.Group
	now        func() time.Time
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithObserver records request durations and outcomes.
func WithObserver(observer RequestObserver) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// NewClient builds the catalog client for baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse catalog base url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, errBaseURLInvalid
	}

	client := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// BaseURL returns the catalog origin used to resolve relative media paths.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ResolveImageURL resolves path against the catalog origin.
func (c *Client) ResolveImageURL(path string) string {
	return ResolveImageURL(c.baseURL.String(), path)
}

// ListProducts fetches a page of product summaries.
func (c *Client) ListProducts(ctx context.Context, query ProductQuery) (*ProductPage, error) {
	var resp struct {
		Data []ProductSummary `json:"data"`
		Meta listMeta         `json:"meta"`
	}
	if err := c.get(ctx, "products.list", "/products", query.values(), &resp); err != nil {
		return nil, err
	}
	return &ProductPage{Items: nonNil(resp.Data), Pagination: resp.Meta.Pagination}, nil
}

// GetProduct fetches the product detail record.
func (c *Client) GetProduct(ctx context.Context, id int64) (*ProductDetail, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}
	var resp struct {
		Data *ProductDetail `json:"data"`
	}
	if err := c.get(ctx, "products.detail", "/products/"+strconv.FormatInt(id, 10), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return resp.Data, nil
}

// ListStones fetches a page of stones matching query.
func (c *Client) ListStones(ctx context.Context, query StoneQuery) (*StonePage, error) {
	var resp struct {
		Data []Stone  `json:"data"`
		Meta listMeta `json:"meta"`
	}
	if err := c.get(ctx, "stones.list", "/stones", query.Values(), &resp); err != nil {
		return nil, err
	}
	return &StonePage{Items: nonNil(resp.Data), Pagination: resp.Meta.Pagination}, nil
}

// GetStone fetches the stone detail record, including its gallery.
func (c *Client) GetStone(ctx context.Context, id int64) (*Stone, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stone id must be positive")
	}
	var resp struct {
		Data *Stone `json:"data"`
	}
	if err := c.get(ctx, "stones.detail", "/stones/"+strconv.FormatInt(id, 10), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stone not found")
	}
	return resp.Data, nil
}

// StoneFilters fetches the filter band options known to the catalog.
func (c *Client) StoneFilters(ctx context.Context) (*StoneFilterOptions, error) {
	var resp struct {
		Data *StoneFilterOptions `json:"data"`
	}
	if err := c.get(ctx, "stones.filters", "/stones/filters", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return &StoneFilterOptions{}, nil
	}
	return resp.Data, nil
}

// ProductCategories fetches the product categories used for setting icons.
func (c *Client) ProductCategories(ctx context.Context) ([]ProductCategory, error) {
	var resp struct {
		Items []ProductCategory `json:"items"`
	}
	if err := c.get(ctx, "products.categories", "/products/categories", nil, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Items), nil
}

// Materials fetches the metal options, optionally only the active ones.
func (c *Client) Materials(ctx context.Context, activeOnly bool) ([]Material, error) {
	params := url.Values{}
	if activeOnly {
		params.Set("activeOnly", "true")
	}
	var resp struct {
		Items []Material `json:"items"`
	}
	if err := c.get(ctx, "products.materials", "/products/materials", params, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Items), nil
}

// get issues a GET and decodes the body into out. Identical in-flight URLs
// share one upstream request; the shared request is bounded by the client
// timeout rather than by any single caller's context.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "catalog client not configured")
	}
	target := c.buildURL(path, params)

	ch := c.group.DoChan(target, func() (any, error) {
		return c.fetch(context.WithoutCancel(ctx), endpoint, target)
	})
	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return pkgerrors.Wrap(pkgerrors.CodeDependency, ctx.Err(), "catalog request canceled")
	}
	if res.Err != nil {
		return res.Err
	}
	if err := json.Unmarshal(res.Val.([]byte), out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode catalog response")
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, endpoint, target string) ([]byte, error) {
	start := c.now()
	outcome := "error"
	defer func() {
		if c.observer != nil {
			c.observer.ObserveRequest(endpoint, outcome, c.now().Sub(start))
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build catalog request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute catalog request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		cause := fmt.Errorf("request failed: %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
		if resp.StatusCode == http.StatusNotFound {
			outcome = "not_found"
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, cause, "catalog resource not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, cause, "catalog request failed")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read catalog response")
	}
	outcome = "ok"
	return body, nil
}

func (c *Client) buildURL(path string, params url.Values) string {
	ref := &url.URL{Path: path}
	if len(params) > 0 {
		ref.RawQuery = params.Encode()
	}
	return c.baseURL.ResolveReference(ref).String()
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
