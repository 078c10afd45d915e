package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/johnae/whynot-go/metrics"
)

// statusRecorder captures the status code a handler writes so the metrics
// middleware can label the observation, the way the teacher's access-log
// middleware captures response metadata it didn't originate.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withMetrics wraps h so every request observes HTTPHandlerDuration labeled
// by route and status class, per SPEC_FULL.md §4.N.
func withMetrics(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		h(rec, r)
		metrics.ObserveHTTPHandler(route, statusClass(rec.status), time.Since(start))
	}
}

func statusClass(status int) string {
	return strconv.Itoa(status/100) + "xx"
}

func metricsHandler() http.Handler {
	return promhttp.Handler()
}
