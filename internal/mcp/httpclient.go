package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/gymgpt/internal/models"
)

// HTTPClient implements DataSource by calling the GymGPT REST API.
// Used when the MCP server runs locally over stdio but the log lives on a
// remote server.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) QuerySetLogs(ctx context.Context, focus string, limit int) ([]models.SetLogRow, error) {
	params := url.Values{}
	if focus != "" {
		params.Set("focus", focus)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var rows []models.SetLogRow
	if err := c.get(ctx, "/api/v1/logs", params, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *HTTPClient) RecentSetLogs(ctx context.Context, since time.Time) ([]models.SetLogRow, error) {
	params := url.Values{}
	params.Set("since", since.UTC().Format(time.RFC3339))
	var rows []models.SetLogRow
	if err := c.get(ctx, "/api/v1/logs", params, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *HTTPClient) GetLogStats(ctx context.Context, since time.Time, exercise string) (*models.LogStats, error) {
	params := url.Values{}
	params.Set("since", since.UTC().Format(time.RFC3339))
	if exercise != "" {
		params.Set("exercise", exercise)
	}
	var stats models.LogStats
	if err := c.get(ctx, "/api/v1/logs/stats", params, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
