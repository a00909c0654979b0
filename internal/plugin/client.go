// Package plugin queries the vault-side semantic search endpoint hosted
// by a sibling plugin over HTTP. The endpoint is treated as unreliable:
// every attempt carries a cancellation deadline, transient failures are
// retried a bounded number of times, and permanent negatives (bad
// credentials, missing route) are reported as unavailability rather than
// errors so the caller can fall through to the next provider.
package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/notectx/notectx-mcp/pkg/types"
)

const searchPath = "/search/smart"

// Client calls the remote plugin search endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	retries    int
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a plugin client. timeout bounds each attempt;
// retries is the number of additional attempts after the first for
// transient failures.
func NewClient(baseURL, apiKey string, timeout time.Duration, retries int, logger *zap.Logger) *Client {
	if retries < 0 {
		retries = 0
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		timeout:    timeout,
		retries:    retries,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Configured reports whether the client has the connection configuration
// it needs to issue requests.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

// Search queries the endpoint. A nil result with a nil error means the
// provider is unavailable: connection configuration is missing, the
// endpoint rejected the credentials or route permanently, or the
// response was a soft negative. An error is returned only when every
// attempt failed with a transient condition (5xx, network, timeout).
func (c *Client) Search(ctx context.Context, query string, limit int) ([]types.ScoredResult, error) {
	if !c.Configured() {
		return nil, nil
	}

	attempts := c.retries + 1
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		results, retry, err := c.attempt(ctx, query, limit)
		if err == nil {
			return results, nil
		}
		if !retry {
			// Permanent negative or soft unavailability.
			c.logger.Debug("plugin search unavailable", zap.Error(err))
			return nil, nil
		}
		lastErr = err
		c.logger.Debug("plugin search attempt failed",
			zap.Int("attempt", attempt+1), zap.Error(err))
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", types.ErrPluginFailed, attempts, lastErr)
}

// attempt issues one request. retry reports whether the failure is
// transient and worth another attempt.
func (c *Client) attempt(ctx context.Context, query string, limit int) (results []types.ScoredResult, retry bool, err error) {
	body, err := json.Marshal(map[string]interface{}{
		"query": query,
		"limit": limit,
	})
	if err != nil {
		return nil, false, fmt.Errorf("marshal request: %w", err)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.baseURL+searchPath, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network and timeout failures are transient.
		return nil, true, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, true, fmt.Errorf("read response: %w", err)
		}
		return parseResults(data), false, nil
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusNotFound:
		// The endpoint exists but will never succeed for this
		// configuration or query.
		return nil, false, fmt.Errorf("permanent failure: status %d", resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("server error: status %d", resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("soft failure: status %d", resp.StatusCode)
	}
}

// parseResults accepts either {"results": [...]} or a bare array.
// Entries without a parseable path are dropped; missing scores default
// to zero; path separators are normalized to forward slashes.
func parseResults(data []byte) []types.ScoredResult {
	raw := data
	var envelope struct {
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Results != nil {
		raw = envelope.Results
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return []types.ScoredResult{}
	}

	results := make([]types.ScoredResult, 0, len(entries))
	for _, entry := range entries {
		var item struct {
			Path    string   `json:"path"`
			Score   *float64 `json:"score"`
			Preview string   `json:"preview"`
		}
		if err := json.Unmarshal(entry, &item); err != nil || item.Path == "" {
			continue
		}
		score := 0.0
		if item.Score != nil {
			score = *item.Score
		}
		results = append(results, types.ScoredResult{
			Path:    strings.ReplaceAll(item.Path, "\\", "/"),
			Score:   score,
			Preview: item.Preview,
		})
	}
	return results
}
