package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"newsdesk/app/ingest"
)

// StatusError reports a non-2xx backend response. Transport failures are
// surfaced to the caller with a readable message; retry policy, if any,
// belongs to whoever owns the transport.
type StatusError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %s for %s", e.Status, e.URL)
}

// Client talks to the aggregation backend. It decodes responses but makes no
// attempt to interpret their shape; that is the ingestion pipeline's job.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchArticles returns the raw decoded payload of the backend's "fetch
// articles" call. The payload shape varies across backend generations.
func (c *Client) FetchArticles(ctx context.Context) (any, error) {
	var payload any
	if err := c.getJSON(ctx, "/articles", &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch articles: %w", err)
	}
	return payload, nil
}

// ListSources returns the backend's source records. The list may arrive bare
// or wrapped in an envelope field.
func (c *Client) ListSources(ctx context.Context) ([]ingest.Source, error) {
	var payload any
	if err := c.getJSON(ctx, "/sources", &payload); err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}

	list, ok := payload.([]any)
	if !ok {
		if m, isMap := payload.(map[string]any); isMap {
			for _, field := range []string{"sources", "Sources", "data", "items", "results"} {
				if inner, isList := m[field].([]any); isList {
					list = inner
					break
				}
			}
		}
	}

	sources := make([]ingest.Source, 0, len(list))
	for _, el := range list {
		rec, ok := el.(map[string]any)
		if !ok {
			continue
		}
		sources = append(sources, sourceFromRecord(rec))
	}
	return sources, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, URL: url}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func sourceFromRecord(rec map[string]any) ingest.Source {
	s := ingest.Source{
		ID:      stringField(rec, "sourceId", "source_id", "id"),
		Name:    stringField(rec, "name", "sourceName", "source_name"),
		BaseURL: stringField(rec, "baseUrl", "base_url", "url", "homepage"),
	}
	switch active := firstField(rec, "isActive", "is_active", "active", "enabled").(type) {
	case bool:
		s.IsActive = active
	default:
		s.IsActive = true
	}
	return s
}

func firstField(rec map[string]any, names ...string) any {
	for _, name := range names {
		if v, ok := rec[name]; ok {
			return v
		}
	}
	return nil
}

func stringField(rec map[string]any, names ...string) string {
	for _, name := range names {
		switch v := rec[name].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}
