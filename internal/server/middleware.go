package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

type ctxKey string

const ctxKeyRequest ctxKey = "request"

// requestInfo travels in the request context. Handlers add the run they touched
// so the access log line names it.
type requestInfo struct {
	id string

	mu    sync.Mutex
	attrs []any
}

func requestInfoFrom(ctx context.Context) *requestInfo {
	info, _ := ctx.Value(ctxKeyRequest).(*requestInfo)
	return info
}

// RequestIDFromContext extracts the request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	if info := requestInfoFrom(ctx); info != nil {
		return info.id
	}
	return ""
}

// annotate attaches key/value pairs (run_id, policy, ...) to the access log
// entry of the current request.
func annotate(ctx context.Context, kv ...any) {
	info := requestInfoFrom(ctx)
	if info == nil {
		return
	}
	info.mu.Lock()
	info.attrs = append(info.attrs, kv...)
	info.mu.Unlock()
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := &requestInfo{id: requestID()}
		w.Header().Set("X-Request-ID", info.id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyRequest, info)))
	})
}

// loggingMiddleware writes one access line per request once the handler
// returns: INFO normally, WARN for server errors.
func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(start).String(),
			}
			if info := requestInfoFrom(r.Context()); info != nil {
				info.mu.Lock()
				attrs = append(attrs, "request_id", info.id)
				attrs = append(attrs, info.attrs...)
				info.mu.Unlock()
			}

			level := slog.LevelInfo
			if sw.status >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			logger.Log(r.Context(), level, "request", attrs...)
		})
	}
}

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Flush lets SSE handlers stream through the logging middleware.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
