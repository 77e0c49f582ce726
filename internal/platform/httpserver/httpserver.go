// Package httpserver builds the http.Server for the resolution API.
package httpserver

import (
	"net/http"
	"time"
)

// Resolution requests are small JSON bodies answered by a handful of indexed
// reads; a batch at the 50-context cap still finishes well inside a second.
// The write timeout leaves slack for a degraded store riding its own
// timeouts, and idle keep-alives suit dashboard callers that resolve in
// bursts.
const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 2 * time.Minute
)

// New builds the HTTP server for the given address and handler.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}
