package logger

import (
	"net/http"

	"github.com/segmentio/ksuid"
)

const headerXRequestID = "X-Request-ID"

// HTTPMiddleware прокидывает X-Request-ID в контекст запроса и в ответ
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(headerXRequestID)
		if requestID == "" {
			requestID = ksuid.New().String()
		}
		w.Header().Set(headerXRequestID, requestID)
		ctx := SetRequestIDCtx(r.Context(), requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
