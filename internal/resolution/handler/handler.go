package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"moniker/internal/resolution"
	"moniker/pkg/domain"
	"moniker/pkg/platform/httputil"
	"moniker/pkg/requestcontext"
)

// Service defines the interface for resolution operations.
type Service interface {
	Resolve(ctx context.Context, req resolution.Request) resolution.NameResolution
	ResolveBatch(ctx context.Context, target domain.IdentityID, contextNames []string) []resolution.NameResolution
}

// Handler wires resolution endpoints to the engine.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a resolution handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts resolution endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/resolve", h.HandleResolve)
	r.Post("/resolve/batch", h.HandleResolveBatch)
}

// HandleResolve handles POST /v1/resolve.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[*ResolveRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result := h.service.Resolve(ctx, req.DomainRequest())

	h.logger.InfoContext(ctx, "name resolved",
		"request_id", requestID,
		"target_id", req.parsedTarget,
		"source", result.Source,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromResolution(result))
}

// HandleResolveBatch handles POST /v1/resolve/batch.
func (h *Handler) HandleResolveBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[*ResolveBatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	results := h.service.ResolveBatch(ctx, req.parsedTarget, req.ContextNames)

	h.logger.InfoContext(ctx, "batch resolved",
		"request_id", requestID,
		"target_id", req.parsedTarget,
		"contexts", len(req.ContextNames),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromBatch(results))
}
