package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with sane defaults for this service. The write
// timeout leaves headroom for a full provider fan-out at the default 30s
// breaker call timeout.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      90 * time.Second,
	}
}
