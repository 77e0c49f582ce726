// Package handler exposes the compliance review endpoints over the
// append-only audit log.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"moniker/internal/audit"
	"moniker/pkg/domain"
	dErrors "moniker/pkg/domain-errors"
	"moniker/pkg/platform/httputil"
)

const defaultLimit = 100

// Handler wires audit review endpoints to the audit store.
type Handler struct {
	store  audit.Store
	logger *slog.Logger
}

// New constructs an audit handler.
func New(store audit.Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Register mounts audit endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/audit/recent", h.HandleListRecent)
	r.Get("/audit/{targetID}", h.HandleListByTarget)
}

// HandleListByTarget handles GET /v1/audit/{targetID}.
func (h *Handler) HandleListByTarget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	target, err := domain.ParseIdentityID(chi.URLParam(r, "targetID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "target id must be a valid identity id"))
		return
	}

	entries, err := h.store.ListByTarget(ctx, target, parseLimit(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "audit list by target failed",
			"target_id", target,
			"error", err,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "audit query failed"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, fromEntries(entries))
}

// HandleListRecent handles GET /v1/audit/recent.
func (h *Handler) HandleListRecent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entries, err := h.store.ListRecent(ctx, parseLimit(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "audit list recent failed", "error", err)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "audit query failed"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, fromEntries(entries))
}

func parseLimit(r *http.Request) int {
	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}
	return limit
}

// EntryResponse is one audit entry on the wire.
type EntryResponse struct {
	ID             string    `json:"id"`
	TargetID       string    `json:"target_id"`
	RequesterID    string    `json:"requester_id,omitempty"`
	Source         string    `json:"source"`
	NameText       string    `json:"name_text"`
	NameID         string    `json:"name_id,omitempty"`
	ContextID      string    `json:"context_id,omitempty"`
	ConsentID      string    `json:"consent_id,omitempty"`
	FallbackReason string    `json:"fallback_reason,omitempty"`
	Error          string    `json:"error,omitempty"`
	RequestID      string    `json:"request_id,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// ListResponse is the audit list envelope.
type ListResponse struct {
	Entries []EntryResponse `json:"entries"`
}

func fromEntries(entries []audit.Entry) ListResponse {
	out := ListResponse{Entries: make([]EntryResponse, len(entries))}
	for i, e := range entries {
		resp := EntryResponse{
			ID:             e.ID.String(),
			TargetID:       e.TargetID.String(),
			Source:         e.Source,
			NameText:       e.NameText,
			FallbackReason: e.FallbackReason,
			Error:          e.Error,
			RequestID:      e.RequestID,
			OccurredAt:     e.OccurredAt,
		}
		if e.RequesterID != nil {
			resp.RequesterID = e.RequesterID.String()
		}
		if e.NameID != nil {
			resp.NameID = e.NameID.String()
		}
		if e.ContextID != nil {
			resp.ContextID = e.ContextID.String()
		}
		if e.ConsentID != nil {
			resp.ConsentID = e.ConsentID.String()
		}
		out.Entries[i] = resp
	}
	return out
}
