package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/steamdex/catalog/internal/observability"
)

const (
	requestIDHeader = "X-Request-ID"

	// maxClientRequestIDLength bounds ids the browser client sends along;
	// anything longer is replaced so log lines stay readable.
	maxClientRequestIDLength = 64
)

// RequestID runs first in the chain. Each request gets an id, either the one
// the client sent in X-Request-ID or a fresh v7 UUID, stored in the context
// for the access log and echoed in the response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > maxClientRequestIDLength {
			id = newRequestID()
		}

		ctx := observability.ContextWithRequestID(r.Context(), id)
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}
