package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"planning/internal/adapters/http/perf"
)

// DefaultSlowRequest is the threshold above which a request logs at WARN.
const DefaultSlowRequest = 200 * time.Millisecond

// RequestIDHeader carries the per-process request number back to the client.
const RequestIDHeader = "X-Request-ID"

// TimingConfig configures Timing.
type TimingConfig struct {
	Collector *perf.Collector // nil disables recording
	Slow      time.Duration   // 0 means DefaultSlowRequest
	Skip      []string        // path prefixes in addition to /static/
}

var requestIDCounter uint64

// statusWriter captures the status code written by a handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

var statusWriterPool = sync.Pool{
	New: func() any { return &statusWriter{} },
}

// routeKey folds per-item paths so timings aggregate by route:
// "/api/cart/items/2" becomes "/api/cart/items/{index}".
func routeKey(path string) string {
	const items = "/api/cart/items/"
	if rest, ok := strings.CutPrefix(path, items); ok && rest != "" {
		return items + "{index}"
	}
	return path
}

// Timing returns middleware that logs and records request duration.
// Normal requests log at DEBUG, slow ones at WARN.
// POST: Every timed response carries RequestIDHeader
func Timing(cfg TimingConfig) func(http.Handler) http.Handler {
	slow := cfg.Slow
	if slow <= 0 {
		slow = DefaultSlowRequest
	}
	skip := append([]string{"/static/"}, cfg.Skip...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range skip {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			start := time.Now()
			reqID := atomic.AddUint64(&requestIDCounter, 1)
			w.Header().Set(RequestIDHeader, strconv.FormatUint(reqID, 10))

			sw := statusWriterPool.Get().(*statusWriter)
			sw.ResponseWriter = w
			sw.status = http.StatusOK
			defer func() {
				elapsed := time.Since(start)
				route := routeKey(r.URL.Path)
				level := slog.LevelDebug
				event := "request"
				if elapsed >= slow {
					level, event = slog.LevelWarn, "slow_request"
				}
				slog.Log(r.Context(), level, event,
					"request_id", reqID,
					"method", r.Method,
					"route", route,
					"status", sw.status,
					"duration_ms", float64(elapsed.Microseconds())/1000.0,
				)

				if cfg.Collector != nil {
					cfg.Collector.Record(perf.Entry{
						Kind:       perf.KindRequest,
						Path:       r.Method + " " + route,
						StatusCode: sw.status,
						DurationMs: float64(elapsed.Microseconds()) / 1000.0,
						Timestamp:  start,
					})
				}

				sw.ResponseWriter = nil
				statusWriterPool.Put(sw)
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
