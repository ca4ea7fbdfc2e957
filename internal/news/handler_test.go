package news_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendorhub/internal/news"
	"vendorhub/pkg/platform/sentinel"
)

// fakeCache is an in-process stand-in for the redis cache.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.entries[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return value, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	c.sets++
	return nil
}

type upstreamBehavior struct {
	status       int
	totalResults int
	message      string
	calls        int
}

func newsRouter(t *testing.T, upstream *upstreamBehavior, cache news.Cache) chi.Router {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstream.calls++
		assert.NotEmpty(t, r.Header.Get("X-Api-Key"), "api key is forwarded")

		w.Header().Set("Content-Type", "application/json")
		if upstream.status != http.StatusOK {
			w.WriteHeader(upstream.status)
			fmt.Fprintf(w, `{"status":"error","message":%q}`, upstream.message)
			return
		}
		pageSize := r.URL.Query().Get("pageSize")
		fmt.Fprintf(w, `{
			"status": "ok",
			"totalResults": %d,
			"articles": [{"source":{"id":"","name":"Wire"},"title":"headline (pageSize=%s)","url":"https://example.com/a"}]
		}`, upstream.totalResults, pageSize)
	}))
	t.Cleanup(server.Close)

	logger := slog.New(slog.DiscardHandler)
	client := news.NewClient(server.URL, "test-key", 2*time.Second, logger)
	handler := news.NewHandler(client, cache, 5*time.Minute, logger, nil)

	router := chi.NewRouter()
	handler.Register(router)
	return router
}

func getNews(t *testing.T, router chi.Router, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestNewsProxy_PaginationRemap(t *testing.T) {
	router := newsRouter(t, &upstreamBehavior{status: http.StatusOK, totalResults: 12}, nil)

	rec := getNews(t, router, "/api/news?page=2&pageSize=5")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		TotalResults int  `json:"totalResults"`
		HasMore      bool `json:"hasMore"`
		CurrentPage  int  `json:"currentPage"`
		TotalPages   int  `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 12, resp.TotalResults)
	assert.True(t, resp.HasMore, "2*5 < 12")
	assert.Equal(t, 2, resp.CurrentPage)
	assert.Equal(t, 3, resp.TotalPages)
}

func TestNewsProxy_LastPage(t *testing.T) {
	router := newsRouter(t, &upstreamBehavior{status: http.StatusOK, totalResults: 12}, nil)

	rec := getNews(t, router, "/api/news?page=3&pageSize=5")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		HasMore    bool `json:"hasMore"`
		TotalPages int  `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.HasMore, "3*5 >= 12")
	assert.Equal(t, 3, resp.TotalPages)
}

func TestNewsProxy_DefaultsAndClamping(t *testing.T) {
	router := newsRouter(t, &upstreamBehavior{status: http.StatusOK, totalResults: 25}, nil)

	rec := getNews(t, router, "/api/news?page=0&pageSize=-3")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		CurrentPage int `json:"currentPage"`
		TotalPages  int `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.CurrentPage, "invalid page falls back to 1")
	assert.Equal(t, 3, resp.TotalPages, "invalid pageSize falls back to the default of 10")
}

func TestNewsProxy_UpstreamErrorPassesThrough(t *testing.T) {
	router := newsRouter(t, &upstreamBehavior{
		status:  http.StatusTooManyRequests,
		message: "rate limited",
	}, nil)

	rec := getNews(t, router, "/api/news")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "upstream status passes through unchanged")

	body := map[string]string{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "upstream_error", body["error"])
	assert.Equal(t, "rate limited", body["message"])
}

func TestNewsProxy_Cache(t *testing.T) {
	upstream := &upstreamBehavior{status: http.StatusOK, totalResults: 12}
	cache := newFakeCache()
	router := newsRouter(t, upstream, cache)

	first := getNews(t, router, "/api/news?page=1&pageSize=5")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, 1, upstream.calls)
	assert.Equal(t, 1, cache.sets, "successful responses are cached")

	second := getNews(t, router, "/api/news?page=1&pageSize=5")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, 1, upstream.calls, "second identical query is served from cache")
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	other := getNews(t, router, "/api/news?page=2&pageSize=5")
	require.Equal(t, http.StatusOK, other.Code)
	assert.Equal(t, 2, upstream.calls, "different query misses the cache")
}

func TestNewsProxy_UpstreamErrorsAreNotCached(t *testing.T) {
	upstream := &upstreamBehavior{status: http.StatusServiceUnavailable, message: "down"}
	cache := newFakeCache()
	router := newsRouter(t, upstream, cache)

	rec := getNews(t, router, "/api/news")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Zero(t, cache.sets)
}
