package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"personnel/pkg/requestcontext"
)

// RequestIDHeader is the inbound/outbound header carrying the request ID.
const RequestIDHeader = "X-Request-Id"

// RequestID propagates an inbound request ID or generates a fresh UUID, and
// echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
