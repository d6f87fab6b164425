// Package requestlog logs every HTTP request: method, path, status,
// response size, duration, and the signed-in user when there is one.
package requestlog

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/openparish/steward/internal/app/system/authz"
	"github.com/openparish/steward/internal/app/system/ratelimit"
)

// Middleware returns a request logger backed by logger. Server errors
// log at warn so they stand out in aggregated logs.
func Middleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("client_ip", ratelimit.ClientIP(r)),
			}
			if _, _, userID, ok := authz.UserCtx(r); ok {
				fields = append(fields, zap.String("user_id", userID.String()))
			}

			if ww.Status() >= 500 {
				logger.Warn("request", fields...)
			} else {
				logger.Info("request", fields...)
			}
		})
	}
}
