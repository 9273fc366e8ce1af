package trace

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	applog "fintrack/internal/log"
)

// ContextKey type for context keys
type ContextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey ContextKey = "request_id"

	// HeaderRequestID carries the request ID in and out.
	HeaderRequestID = "X-Request-ID"
)

// Middleware handles request tracing and logging
type Middleware struct {
	extractIP func(*http.Request) string
	logger    *applog.StructuredLogger
	metrics   *Metrics
}

// Metrics tracks request metrics
type Metrics struct {
	TotalRequests          int64
	LastResponseTimeMicros int64
}

// NewMiddleware creates a new trace middleware
func NewMiddleware(extractIP func(*http.Request) string, logger *applog.Logger) *Middleware {
	return &Middleware{
		extractIP: extractIP,
		logger:    applog.NewStructuredLogger(logger),
		metrics:   &Metrics{},
	}
}

// Middleware assigns a request ID, exposes it to downstream loggers and logs
// the completed request.
func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := ""
		if m.extractIP != nil {
			clientIP = m.extractIP(r)
		}

		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" || len(requestID) > 64 {
			requestID = GenerateRequestID()
		}
		w.Header().Set(HeaderRequestID, requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		r = r.WithContext(ctx)

		atomic.AddInt64(&m.metrics.TotalRequests, 1)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		applog.RequestIDMiddleware(func(*http.Request) string { return requestID })(next).ServeHTTP(rw, r)

		duration := time.Since(start)
		atomic.StoreInt64(&m.metrics.LastResponseTimeMicros, duration.Microseconds())

		m.logger.LogHTTPEnd(ctx, r, rw.statusCode, duration.Milliseconds(), clientIP)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// GenerateRequestID creates a unique request ID for tracing
func GenerateRequestID() string {
	return "req_" + uuid.NewString()
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// GetMetrics returns current metrics
func (m *Middleware) GetMetrics() Metrics {
	return Metrics{
		TotalRequests:          atomic.LoadInt64(&m.metrics.TotalRequests),
		LastResponseTimeMicros: atomic.LoadInt64(&m.metrics.LastResponseTimeMicros),
	}
}
