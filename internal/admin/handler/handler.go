package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vendorhub/internal/admin"
	"vendorhub/internal/platform/metrics"
	"vendorhub/internal/platform/middleware"
	"vendorhub/pkg/platform/httputil"
	"vendorhub/pkg/requestcontext"

	dErrors "vendorhub/pkg/domain-errors"
)

const actionUpdateClaimStatus = "update_claim_status"

// Handler exposes the admin gateway over HTTP. Everything mounted here sits
// behind bearer-token auth plus the admin role gate.
type Handler struct {
	service  *admin.Service
	logger   *slog.Logger
	metrics  *metrics.Metrics
	verifier middleware.TokenVerifier
	resolver middleware.AdminResolver
}

func New(
	service *admin.Service,
	logger *slog.Logger,
	m *metrics.Metrics,
	verifier middleware.TokenVerifier,
	resolver middleware.AdminResolver,
) *Handler {
	return &Handler{
		service:  service,
		logger:   logger,
		metrics:  m,
		verifier: verifier,
		resolver: resolver,
	}
}

// Register mounts the admin routes. The auth middlewares run before any
// handler, for every method, so unauthenticated requests never touch a store.
func (h *Handler) Register(r chi.Router) {
	adminRouter := chi.NewRouter()
	adminRouter.Use(middleware.RequireAuth(h.verifier, h.logger))
	adminRouter.Use(middleware.RequireAdmin(h.resolver, h.logger))

	adminRouter.Get("/", h.handleDashboard)
	adminRouter.Post("/", h.handleAction)
	adminRouter.Get("/settings", h.handleSettings)
	adminRouter.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteMethodNotAllowed(w, "GET, POST")
	})

	r.Mount("/api/admin", adminRouter)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	ident, ok := requestcontext.AdminUser(ctx)
	if !ok {
		// Unreachable when RequireAdmin is mounted; guard anyway.
		h.logger.ErrorContext(ctx, "admin identity missing from context despite middleware",
			"request_id", middleware.GetRequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	dash, err := h.service.LoadDashboard(ctx, ident)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load dashboard",
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
		h.observe("GET", "error", start)
		httputil.WriteError(w, err)
		return
	}

	h.observe("GET", "ok", start)
	httputil.WriteJSON(w, http.StatusOK, toDashboardResponse(dash, ident))
}

func (h *Handler) handleAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	ident, ok := requestcontext.AdminUser(ctx)
	if !ok {
		h.logger.ErrorContext(ctx, "admin identity missing from context despite middleware",
			"request_id", middleware.GetRequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.observe("POST", "bad_request", start)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	// Unknown actions fail before any write happens.
	if req.Action != actionUpdateClaimStatus {
		h.observe("POST", "bad_request", start)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "unknown action: "+req.Action))
		return
	}

	err := h.service.UpdateClaimStatus(ctx, ident, req.Data.ClaimID, req.Data.Status, req.Data.Notes)
	if err != nil {
		switch {
		case dErrors.HasCode(err, dErrors.CodeBadRequest), dErrors.HasCode(err, dErrors.CodeNotFound):
			h.observe("POST", "bad_request", start)
		default:
			h.logger.ErrorContext(ctx, "failed to update claim status",
				"error", err,
				"claim_id", req.Data.ClaimID,
				"request_id", middleware.GetRequestID(ctx),
			)
			h.observe("POST", "error", start)
		}
		httputil.WriteError(w, err)
		return
	}

	h.observe("POST", "ok", start)
	httputil.WriteJSON(w, http.StatusOK, actionResponse{
		Success: true,
		Message: "claim status updated",
	})
}

func (h *Handler) handleSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	values, err := h.service.Settings(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load settings",
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, values)
}

func (h *Handler) observe(method, outcome string, start time.Time) {
	if h.metrics == nil {
		return
	}
	h.metrics.AdminRequests.WithLabelValues(method, outcome).Inc()
	h.metrics.ObserveRequest("/api/admin", time.Since(start))
}
