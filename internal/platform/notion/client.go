package notion

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

const (
	DefaultBaseURL = "https://api.notion.com"
	DefaultVersion = "2022-06-28"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config holds the connection settings shared by every client.
type Config struct {
	BaseURL    string
	Version    string
	UserAgent  string
	HTTPClient *http.Client
}

// Client talks to the Notion REST API on behalf of a single integration token.
// It never retries: every failure is returned to the caller as is.
type Client struct {
	httpClient *http.Client
	baseURL    string
	version    string
	userAgent  string
	token      string
}

func NewClient(cfg Config, token string) *Client {
	c := &Client{
		httpClient: cfg.HTTPClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		version:    cfg.Version,
		userAgent:  cfg.UserAgent,
		token:      token,
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.version == "" {
		c.version = DefaultVersion
	}
	return c
}

// Search handles POST /v1/search.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	var res SearchResponse
	if err := c.do(ctx, http.MethodPost, "/v1/search", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// QueryDatabase handles POST /v1/databases/{id}/query.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, req QueryRequest) (*QueryResponse, error) {
	var res QueryResponse
	path := "/v1/databases/" + url.PathEscape(databaseID) + "/query"
	if err := c.do(ctx, http.MethodPost, path, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CreatePage handles POST /v1/pages.
func (c *Client) CreatePage(ctx context.Context, req CreatePageRequest) (*Page, error) {
	var res Page
	if err := c.do(ctx, http.MethodPost, "/v1/pages", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdatePage handles PATCH /v1/pages/{id}.
func (c *Client) UpdatePage(ctx context.Context, pageID string, req UpdatePageRequest) (*Page, error) {
	var res Page
	path := "/v1/pages/" + url.PathEscape(pageID)
	if err := c.do(ctx, http.MethodPatch, path, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, target interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", method, path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, raw)
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
