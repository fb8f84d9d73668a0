package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the service collectors exposed at /metrics.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trades",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "trades",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	swipes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trades",
			Subsystem: "deck",
			Name:      "swipes_total",
			Help:      "Resolved swipes by direction.",
		},
		[]string{"direction"},
	)

	deckBuilds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trades",
			Subsystem: "deck",
			Name:      "builds_total",
			Help:      "Deck builds by result (ok, degraded, superseded).",
		},
		[]string{"result"},
	)

	matchChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trades",
			Subsystem: "matches",
			Name:      "changes_total",
			Help:      "Match set mutations by operation.",
		},
		[]string{"op"},
	)

	ratings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trades",
			Subsystem: "ratings",
			Name:      "set_total",
			Help:      "Rating upserts by kind (new, replace).",
		},
		[]string{"kind"},
	)

	persistTasks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trades",
			Subsystem: "persist",
			Name:      "tasks_total",
			Help:      "Write-behind tasks by name and result (ok, failed, dropped).",
		},
		[]string{"task", "result"},
	)

	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "trades",
			Subsystem: "sessions",
			Name:      "active",
			Help:      "Currently open user sessions.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		swipes,
		deckBuilds,
		matchChanges,
		ratings,
		persistTasks,
		activeSessions,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered collectors.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps next with request counters and durations.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		path := canonicalPath(r.URL.Path)
		method := strings.ToUpper(r.Method)
		httpRequests.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	})
}

func RecordSwipe(direction string)      { swipes.WithLabelValues(direction).Inc() }
func RecordDeckBuild(result string)     { deckBuilds.WithLabelValues(result).Inc() }
func RecordMatchChange(op string)       { matchChanges.WithLabelValues(op).Inc() }
func RecordRating(kind string)          { ratings.WithLabelValues(kind).Inc() }
func SetActiveSessions(n int)           { activeSessions.Set(float64(n)) }
func RecordPersist(task, result string) { persistTasks.WithLabelValues(task, result).Inc() }

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// canonicalPath collapses ids so label cardinality stays bounded:
// /api/items/<id>/rating -> /api/items/:id/rating.
func canonicalPath(raw string) string {
	trimmed := strings.Trim(raw, "/")
	if trimmed == "" {
		return "/"
	}
	parts := strings.Split(trimmed, "/")
	if len(parts) < 3 || parts[0] != "api" {
		return "/" + strings.Join(parts, "/")
	}
	switch parts[1] {
	case "matches", "items", "conversations", "trades":
		parts[2] = ":id"
	}
	return "/" + strings.Join(parts, "/")
}
