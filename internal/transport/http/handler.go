package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"forecourt/internal/retailcheck"
	"forecourt/pkg/platform/cache"
	"forecourt/pkg/requestcontext"
)

// Service defines the retail-check operations the transport exposes.
type Service interface {
	PerformRetailCheck(ctx context.Context, vehicle retailcheck.VehicleIdentity, operatorID string, opts retailcheck.Options) (*retailcheck.Result, error)
	ClearCaches()
	CacheStats() map[string]cache.Stats
}

// Pinger reports reachability of an attached dependency.
type Pinger interface {
	Health(ctx context.Context) error
}

// Handler wires retail-check endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
	redis   Pinger
}

// New constructs a handler. redis may be nil when no shared store is
// configured.
func New(service Service, logger *slog.Logger, redis Pinger) *Handler {
	return &Handler{service: service, logger: logger, redis: redis}
}

// RetailCheckRequest is the POST /retail-checks body.
type RetailCheckRequest struct {
	Registration          string `json:"registration,omitempty"`
	DerivativeID          string `json:"derivativeId,omitempty"`
	OdometerReadingMiles  int    `json:"odometerReadingMiles"`
	FirstRegistrationDate string `json:"firstRegistrationDate,omitempty"`

	IncludeVehicleCheck      bool `json:"includeVehicleCheck,omitempty"`
	IncludeTrendedValuations bool `json:"includeTrendedValuations,omitempty"`
}

// HandleRetailCheck handles POST /retail-checks requests.
func (h *Handler) HandleRetailCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	operatorID := r.Header.Get("X-Operator-Id")
	if operatorID == "" {
		writeError(w, errorResponse{
			Status:  http.StatusBadRequest,
			Code:    "missing_operator",
			Message: "X-Operator-Id header is required",
		})
		return
	}
	ctx = requestcontext.WithOperatorID(ctx, operatorID)

	var req RetailCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errorResponse{
			Status:  http.StatusBadRequest,
			Code:    "invalid_body",
			Message: "request body is not valid JSON",
		})
		return
	}

	vehicle := retailcheck.VehicleIdentity{
		Registration:          req.Registration,
		DerivativeID:          req.DerivativeID,
		OdometerReadingMiles:  req.OdometerReadingMiles,
		FirstRegistrationDate: req.FirstRegistrationDate,
	}
	opts := retailcheck.Options{
		IncludeVehicleCheck:      req.IncludeVehicleCheck,
		IncludeTrendedValuations: req.IncludeTrendedValuations,
	}

	result, err := h.service.PerformRetailCheck(ctx, vehicle, operatorID, opts)
	if err != nil {
		h.logger.ErrorContext(ctx, "retail check failed",
			"request_id", requestID,
			"operator_id", operatorID,
			"error", err,
		)
		writeError(w, translateError(err))
		return
	}

	h.logger.InfoContext(ctx, "retail check completed",
		"request_id", requestID,
		"operator_id", operatorID,
		"source", result.Source,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	writeJSON(w, http.StatusOK, result)
}

// HandleHealth handles GET /healthz requests. The service is healthy as long
// as it can serve; a down redis degrades cross-process sharing, not health.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}
	if h.redis != nil {
		if err := h.redis.Health(r.Context()); err != nil {
			checks["redis"] = "unavailable"
		} else {
			checks["redis"] = "ok"
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"checks": checks,
	})
}

// HandleCacheStats handles GET /diagnostics/cache requests.
func (h *Handler) HandleCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.CacheStats())
}

// HandleCacheClear handles DELETE /diagnostics/cache requests.
func (h *Handler) HandleCacheClear(w http.ResponseWriter, r *http.Request) {
	h.service.ClearCaches()
	h.logger.InfoContext(r.Context(), "caches cleared",
		"request_id", requestcontext.RequestID(r.Context()),
	)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
