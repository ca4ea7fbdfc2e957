package news

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"vendorhub/internal/platform/metrics"
	"vendorhub/pkg/platform/httputil"
	"vendorhub/pkg/platform/sentinel"

	dErrors "vendorhub/pkg/domain-errors"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Searcher is the upstream surface the handler needs.
type Searcher interface {
	Search(ctx context.Context, q Query) (*Result, error)
}

type pageResponse struct {
	Articles     []Article `json:"articles"`
	TotalResults int       `json:"totalResults"`
	HasMore      bool      `json:"hasMore"`
	CurrentPage  int       `json:"currentPage"`
	TotalPages   int       `json:"totalPages"`
}

type upstreamErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Handler serves the public news proxy route. No auth: the route fronts a
// public site section and holds the upstream API key server-side.
type Handler struct {
	searcher Searcher
	cache    Cache
	cacheTTL time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewHandler(searcher Searcher, cache Cache, cacheTTL time.Duration, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		searcher: searcher,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
		metrics:  m,
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/api/news", h.handleNews)
}

func (h *Handler) handleNews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := parseQuery(r)

	if cached, ok := h.fromCache(ctx, query); ok {
		h.observeCache("hit")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(cached)
		return
	}

	result, err := h.searcher.Search(ctx, query)
	if err != nil {
		var upstream *UpstreamError
		if errors.As(err, &upstream) {
			// The caller sees the upstream's own status, not a generic 502.
			httputil.WriteJSON(w, upstream.StatusCode, upstreamErrorResponse{
				Error:   "upstream_error",
				Message: upstream.Message,
			})
			return
		}
		h.logger.ErrorContext(ctx, "news upstream request failed", "error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUpstream, "news service unavailable"))
		return
	}

	resp := remapPagination(result, query)
	body, err := json.Marshal(resp)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode response"))
		return
	}

	h.toCache(ctx, query, body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// remapPagination converts the upstream's flat totalResults into the
// hasMore/currentPage/totalPages triple the frontend paginates on.
func remapPagination(result *Result, q Query) pageResponse {
	totalPages := (result.TotalResults + q.PageSize - 1) / q.PageSize
	articles := result.Articles
	if articles == nil {
		articles = []Article{}
	}
	return pageResponse{
		Articles:     articles,
		TotalResults: result.TotalResults,
		HasMore:      q.Page*q.PageSize < result.TotalResults,
		CurrentPage:  q.Page,
		TotalPages:   totalPages,
	}
}

func parseQuery(r *http.Request) Query {
	q := Query{
		Category: r.URL.Query().Get("category"),
		Page:     intParam(r, "page", 1),
		PageSize: intParam(r, "pageSize", defaultPageSize),
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
	return q
}

func intParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func (h *Handler) fromCache(ctx context.Context, q Query) ([]byte, bool) {
	if h.cache == nil {
		h.observeCache("bypass")
		return nil, false
	}
	cached, err := h.cache.Get(ctx, q.CacheKey())
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			// A flaky cache downgrades to pass-through, it never fails the request.
			h.logger.WarnContext(ctx, "news cache read failed", "error", err)
		}
		h.observeCache("miss")
		return nil, false
	}
	return cached, true
}

func (h *Handler) toCache(ctx context.Context, q Query, body []byte) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Set(ctx, q.CacheKey(), body, h.cacheTTL); err != nil {
		h.logger.WarnContext(ctx, "news cache write failed", "error", err)
	}
}

func (h *Handler) observeCache(result string) {
	if h.metrics == nil {
		return
	}
	h.metrics.NewsProxyCache.WithLabelValues(result).Inc()
}
