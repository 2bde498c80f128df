// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gallery_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Media metrics
var (
	ThumbnailsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_thumbnails_generated_total",
			Help: "Thumbnails rendered, by size spec and outcome",
		},
		[]string{"size", "status"},
	)

	ThumbnailDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gallery_thumbnail_duration_seconds",
			Help:    "Time spent rendering one thumbnail",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	PhotosUploaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_photos_uploaded_total",
			Help: "Photos created through uploads",
		},
	)

	UploadsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_uploads_rejected_total",
			Help: "Upload batches rejected because of a disallowed file",
		},
	)

	PhotosRotated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_photos_rotated_total",
			Help: "Photo rotations",
		},
	)
)

// Activity metrics
var (
	ActionsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_actions_recorded_total",
			Help: "Activity log entries written",
		},
	)
)

// Middleware records request counts and durations labelled by chi route
// pattern, so /api/photos/1 and /api/photos/2 share one series.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
