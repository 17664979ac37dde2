package shield

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/meetkit/interviewd/idgen"
	"github.com/meetkit/interviewd/kit"
)

// RequestLog generates a request id for each request and injects it into
// the context, the X-Request-ID response header, and a per-request
// structured logger stored under LoggerKey.
func RequestLog(next http.Handler) http.Handler {
	newID := idgen.NanoID(8)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := newID()

		ctx := kit.WithRequestID(r.Context(), requestID)
		w.Header().Set("X-Request-ID", requestID)

		logger := slog.Default().With(
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)
		ctx = context.WithValue(ctx, LoggerKey, logger)
		logger.Debug("request")

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
