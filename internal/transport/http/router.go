// Package httptransport assembles the public HTTP surface: resolution,
// audit review, health, and metrics.
package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	audithandler "moniker/internal/audit/handler"
	resolutionhandler "moniker/internal/resolution/handler"
)

// NewRouter wires all public endpoints.
func NewRouter(resolveH *resolutionhandler.Handler, auditH *audithandler.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestMeta)

	r.Route("/v1", func(r chi.Router) {
		resolveH.Register(r)
		auditH.Register(r)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
