package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"forecourt/internal/retailcheck"
)

type errorResponse struct {
	Status  int    `json:"-"`
	Code    string `json:"error"`
	Message string `json:"message,omitempty"`
}

// translateError maps domain errors to HTTP responses. Upstream credential
// failure is a gateway problem, not the caller's, so it maps to 502.
func translateError(err error) errorResponse {
	var (
		noID    *retailcheck.NoIdentityError
		cfgErr  *retailcheck.ConfigurationNotFoundError
		authErr *retailcheck.AuthenticationError
	)

	switch {
	case errors.As(err, &noID):
		return errorResponse{
			Status:  http.StatusBadRequest,
			Code:    "missing_identity",
			Message: noID.Error(),
		}
	case errors.Is(err, retailcheck.ErrOdometerRequired):
		return errorResponse{
			Status:  http.StatusBadRequest,
			Code:    "missing_odometer",
			Message: retailcheck.ErrOdometerRequired.Error(),
		}
	case errors.As(err, &cfgErr):
		return errorResponse{
			Status:  http.StatusNotFound,
			Code:    "unknown_operator",
			Message: cfgErr.Error(),
		}
	case errors.As(err, &authErr):
		return errorResponse{
			Status:  http.StatusBadGateway,
			Code:    "provider_authentication",
			Message: "could not authenticate with the vehicle-data provider",
		}
	default:
		return errorResponse{
			Status:  http.StatusInternalServerError,
			Code:    "internal",
			Message: "internal error",
		}
	}
}

func writeError(w http.ResponseWriter, resp errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	_ = json.NewEncoder(w).Encode(resp)
}
