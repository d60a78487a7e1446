package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/okian/memtree/pkg/logger"
	"github.com/okian/memtree/pkg/metrics"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLen bounds client-supplied IDs.
const maxRequestIDLen = 128

type requestIDKey struct{}

// RequestID tags every request with an ID, reusing a client-supplied
// X-Request-ID when present, and echoes it in the response. Log lines
// written with the request context carry the ID as request_id.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		ctx = logger.ContextWithFields(ctx, logger.String("request_id", id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFrom returns the request ID stored by RequestID, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// instrument records request count and latency under endpoint, plus the
// error series for 4xx and 5xx responses.
func instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(sw, r)

		ms := float64(time.Since(start).Microseconds()) / 1000
		code := strconv.Itoa(sw.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, code)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, code, ms)

		if kind, severity, failed := classify(sw.status); failed {
			metrics.RecordErrorByEndpoint(endpoint, r.Method, kind)
			metrics.RecordErrorByType(kind, severity)
			metrics.RecordErrorLatency("http", kind, ms)
		}
	}
}

// classify names the error kind and severity of an HTTP status.
func classify(status int) (kind, severity string, failed bool) {
	switch {
	case status >= http.StatusInternalServerError:
		return "server_error", "high", true
	case status == http.StatusNotFound:
		return "not_found", "medium", true
	case status == http.StatusConflict:
		return "conflict", "medium", true
	case status == http.StatusUnprocessableEntity:
		return "unprocessable", "medium", true
	case status >= http.StatusBadRequest:
		return "client_error", "medium", true
	default:
		return "", "", false
	}
}

// statusWriter remembers the status code written by a handler.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}
