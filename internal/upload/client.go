// Package upload pushes set logs recorded offline by the CLI to a gymgpt
// server.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claude/gymgpt/internal/models"
)

// batchResponse mirrors the server's /logs/batch answer.
type batchResponse struct {
	Received int64 `json:"received"`
	Inserted int64 `json:"inserted"`
}

// Client sends set logs to the gymgpt server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
	attempts   int
	backoff    time.Duration
}

// NewClient creates a new HTTP client for the gymgpt server.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		attempts: 3,
		backoff:  time.Second,
	}
}

// SendSetLogs POSTs rows to /api/v1/logs/batch and returns how many the
// server inserted. Retries up to 3 times with exponential backoff on network
// errors and 5xx answers; 4xx answers fail immediately.
func (c *Client) SendSetLogs(ctx context.Context, rows []models.SetLogRow) (int64, error) {
	data, err := json.Marshal(rows)
	if err != nil {
		return 0, fmt.Errorf("marshaling set logs: %w", err)
	}

	var lastErr error
	for attempt := range c.attempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(c.backoff << uint(attempt-1)):
			}
		}

		res, retry, err := c.post(ctx, data)
		if err == nil {
			return res.Inserted, nil
		}
		if !retry {
			return 0, err
		}
		lastErr = err
	}

	return 0, fmt.Errorf("after %d attempts: %w", c.attempts, lastErr)
}

func (c *Client) post(ctx context.Context, data []byte) (batchResponse, bool, error) {
	var res batchResponse
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+"/api/v1/logs/batch", bytes.NewReader(data))
	if err != nil {
		return res, false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return res, ctx.Err() == nil, err
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.Unmarshal(body, &res); err != nil {
			return res, false, fmt.Errorf("decoding batch response: %w", err)
		}
		return res, false, nil
	case resp.StatusCode >= 500:
		return res, true, fmt.Errorf("upload failed (status %d): %s", resp.StatusCode, body)
	default:
		return res, false, fmt.Errorf("upload rejected (status %d): %s", resp.StatusCode, body)
	}
}
