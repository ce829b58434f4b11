// Package middleware provides HTTP middleware for the TerraPulse API.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// requestIDHeader carries the request ID on both request and response.
const requestIDHeader = "X-Request-Id"

// maxInboundIDLength caps caller-supplied IDs so log lines stay bounded.
const maxInboundIDLength = 64

// requestIDKey is the context key for the request ID.
type requestIDKey struct{}

// RequestID attaches a request ID to the context and response. A
// caller-supplied X-Request-Id is honored when it is reasonably sized;
// otherwise a fresh one is minted.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" || len(requestID) > maxInboundIDLength {
			requestID = "req_" + uuid.NewString()
		}

		w.Header().Set(requestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from the context, or "" if absent.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
