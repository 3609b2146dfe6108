package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/napoleonmm83/emmotion-api/internal/auth"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Logging assigns a request ID, echoes it back to the caller and logs
// one line per request once the handler returns. Admin requests carry
// the authenticated subject so corrections can be traced in the logs.
func Logging(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.New().String()

			r.Header.Set("X-Request-ID", requestID)
			w.Header().Set("X-Request-ID", requestID)

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)
			duration := time.Since(start)

			fields := []zap.Field{
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("client_ip", ClientIP(r)),
				zap.Int("status_code", rw.statusCode),
				zap.Int64("response_size", rw.written),
				zap.Duration("duration", duration),
			}
			if admin, ok := auth.FromContext(r.Context()); ok {
				fields = append(fields, zap.String("admin_subject", admin.Subject))
			}

			msg := fmt.Sprintf("%s %-30s -> %3d (%s)",
				r.Method, r.URL.Path, rw.statusCode, duration.Truncate(time.Microsecond))
			logger.Info(msg, fields...)
		})
	}
}
