// Package httptransport is the thin HTTP layer. It decodes requests,
// delegates to the retail-check service and translates domain errors to
// status codes; no business logic lives here.
package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"forecourt/pkg/requestcontext"
)

// NewRouter wires all public endpoints.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)

	r.Post("/retail-checks", h.HandleRetailCheck)

	r.Get("/healthz", h.HandleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Get("/diagnostics/cache", h.HandleCacheStats)
	r.Delete("/diagnostics/cache", h.HandleCacheClear)

	return r
}

// requestID assigns each request a correlation id, honoring one supplied by
// an upstream proxy, and echoes it in the response.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), id)))
	})
}
