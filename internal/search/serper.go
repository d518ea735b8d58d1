package search

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
)

// Place is a raw local-business record as returned by the Serper places API.
// It is never exposed to API callers unmodified.
type Place struct {
	Title       string   `json:"title"`
	Address     string   `json:"address"`
	PhoneNumber string   `json:"phoneNumber"`
	Website     string   `json:"website"`
	Rating      float64  `json:"rating"`
	RatingCount int      `json:"ratingCount"`
	Category    string   `json:"category"`
	CID         string   `json:"cid"`
	PlaceID     string   `json:"placeId"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Description string   `json:"description"`
	Snippet     string   `json:"snippet"`
}

// Query carries the locale-resolved search parameters for one provider call.
type Query struct {
	Text       string
	Region     string
	Language   string
	MaxResults int
}

// ErrAPIKeyMissing indicates the provider credential is not configured. The
// pipeline treats this as fatal for the whole request.
var ErrAPIKeyMissing = errors.New("search provider API key not configured")

// UpstreamError reports a non-success HTTP response from the provider.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("search provider returned status %d", e.Status)
	}
	return fmt.Sprintf("search provider returned status %d: %s", e.Status, e.Body)
}

// Searcher abstracts the external business-search provider.
type Searcher interface {
	Search(ctx context.Context, q Query, requestID string) ([]Place, error)
}

// Result counts are clamped to bound provider latency and cost regardless of
// what the caller requested.
const (
	minResultCount = 10
	maxResultCount = 50
)

// Client calls the Serper places endpoint. One attempt per invocation; retry
// policy belongs to callers of the whole pipeline.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewClient builds a provider client. A nil http.Client gets a conservative
// default timeout.
func NewClient(client *http.Client, baseURL, apiKey string) *Client {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

var _ Searcher = (*Client)(nil)

// Search performs a single places lookup and returns the raw records.
func (c *Client) Search(ctx context.Context, q Query, requestID string) ([]Place, error) {
	if c.apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	payload := map[string]any{
		"q":   q.Text,
		"gl":  q.Region,
		"hl":  q.Language,
		"num": clampResultCount(q.MaxResults),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal search payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/places", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &UpstreamError{Status: resp.StatusCode, Body: extractProviderError(resp.Body)}
	}

	var parsed struct {
		Places []Place `json:"places"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return parsed.Places, nil
}

func clampResultCount(n int) int {
	if n < minResultCount {
		return minResultCount
	}
	if n > maxResultCount {
		return maxResultCount
	}
	return n
}

func extractProviderError(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 2048))
	if err != nil || len(data) == 0 {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(data))
}
