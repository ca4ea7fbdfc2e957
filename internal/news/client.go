// Package news proxies a third-party news search API for the public site,
// remapping upstream pagination into the shape the frontend paginates on.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// maxBodyBytes bounds how much of an upstream response body is read.
const maxBodyBytes = 1 << 20

// Query carries the caller's search parameters, already normalized.
type Query struct {
	Category string
	Page     int
	PageSize int
}

// CacheKey is stable for identical queries.
func (q Query) CacheKey() string {
	return fmt.Sprintf("news:%s:%d:%d", q.Category, q.Page, q.PageSize)
}

// Article is the subset of upstream article fields the site renders.
type Article struct {
	Source      ArticleSource `json:"source"`
	Author      string        `json:"author"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	URLToImage  string        `json:"urlToImage"`
	PublishedAt time.Time     `json:"publishedAt"`
}

type ArticleSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Result is a successful upstream page.
type Result struct {
	Articles     []Article
	TotalResults int
}

// UpstreamError carries a non-200 upstream response so the handler can pass
// the original status code through to the caller.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Message)
}

type upstreamResponse struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
	Message      string    `json:"message"`
}

// Client talks to the upstream news API with a bounded timeout.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Search fetches one page of headlines. A non-200 upstream status is returned
// as *UpstreamError with the upstream's own message.
func (c *Client) Search(ctx context.Context, q Query) (*Result, error) {
	endpoint, err := url.Parse(c.baseURL + "/top-headlines")
	if err != nil {
		return nil, fmt.Errorf("parse upstream url: %w", err)
	}

	params := endpoint.Query()
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("pageSize", strconv.Itoa(q.PageSize))
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call upstream: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read upstream response: %w", err)
	}

	var decoded upstreamResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		if resp.StatusCode != http.StatusOK {
			// Non-JSON error body; pass the status through regardless.
			return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: "upstream request failed"}
		}
		return nil, fmt.Errorf("decode upstream response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "news upstream returned error",
			"status", resp.StatusCode,
			"message", decoded.Message,
		)
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: decoded.Message}
	}

	return &Result{
		Articles:     decoded.Articles,
		TotalResults: decoded.TotalResults,
	}, nil
}
