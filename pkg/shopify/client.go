package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/designstudio-backend/pkg/config"
)

const bodySnippetLimit = 200

// ErrMissingConfig is returned when the storefront credentials are not configured.
var ErrMissingConfig = errors.New("Missing Shopify env vars: SHOPIFY_STORE_DOMAIN / SHOPIFY_STOREFRONT_ACCESS_TOKEN / SHOPIFY_API_VERSION")

// Client posts GraphQL operations to the Shopify Storefront API.
type Client struct {
	httpClient *http.Client
	domain     string
	token      string
	version    string
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

// NewClient builds a storefront client. Missing credentials are reported on
// first use so the API can boot without a storefront configured.
func NewClient(cfg config.ShopifyConfig, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		domain:     strings.TrimSpace(cfg.StoreDomain),
		token:      strings.TrimSpace(cfg.StorefrontAccessToken),
		version:    strings.TrimSpace(cfg.APIVersion),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

// Configured reports whether all storefront credentials are present.
func (c *Client) Configured() bool {
	return c != nil && c.domain != "" && c.token != "" && c.version != ""
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("https://%s/api/%s/graphql.json", c.domain, c.version)
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage   `json:"data"`
	Errors []json.RawMessage `json:"errors"`
}

// Do executes query and decodes the response's data member into out.
func (c *Client) Do(ctx context.Context, query string, variables map[string]any, out any) error {
	if !c.Configured() {
		return ErrMissingConfig
	}

	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshal shopify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build shopify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute shopify request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read shopify response: %w", err)
	}

	var decoded graphQLResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		contentType := resp.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "unknown"
		}
		return fmt.Errorf("Shopify response is not JSON. status=%d content-type=%s body=%s", resp.StatusCode, contentType, snippet(raw))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("Shopify request failed: %d %s", resp.StatusCode, encodeErrors(decoded.Errors))
	}
	if len(decoded.Errors) > 0 {
		return errors.New(encodeErrors(decoded.Errors))
	}
	if len(decoded.Data) == 0 || bytes.Equal(decoded.Data, []byte("null")) {
		return errors.New("Shopify response missing data")
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(decoded.Data, out); err != nil {
		return fmt.Errorf("decode shopify data: %w", err)
	}
	return nil
}

func encodeErrors(list []json.RawMessage) string {
	if list == nil {
		list = []json.RawMessage{}
	}
	encoded, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}

func snippet(raw []byte) string {
	runes := []rune(string(raw))
	if len(runes) > bodySnippetLimit {
		runes = runes[:bodySnippetLimit]
	}
	return string(runes)
}
