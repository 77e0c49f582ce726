package httptransport

import (
	"net/http"

	"github.com/google/uuid"

	"moniker/pkg/requestcontext"
)

// requestIDHeader carries the caller-supplied correlation ID; one is minted
// when absent.
const requestIDHeader = "X-Request-ID"

// RequestMeta injects the correlation ID into the request context and echoes
// it on the response so audit entries can be traced back to callers.
func RequestMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set(requestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
