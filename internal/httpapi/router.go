// Package httpapi is the HTTP ingress adapter: a chi router that turns
// /call requests into Dispatcher.Enqueue calls, plus liveness,
// readiness, and Prometheus exposition endpoints — grounded on the
// teacher's pkg/api/router.go (middleware stack, custom request
// logger) and internal/controlplane/api/handlers/health.go (health
// response shape).
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KrolPaul/call-center/internal/clock"
	"github.com/KrolPaul/call-center/internal/dispatcher"
	"github.com/KrolPaul/call-center/internal/logger"
)

// NewRouter builds the HTTP ingress for d. startTime is used for the
// liveness probe's uptime field; clk provides receiveDT for every
// admitted call.
func NewRouter(d *dispatcher.Dispatcher, clk clock.Clock, startTime time.Time) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	callHandler := &callHandler{dispatcher: d, clk: clk}
	healthHandler := &healthHandler{dispatcher: d, startTime: startTime}

	r.Get("/call", callHandler.ServeHTTP)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// requestLogger logs request start (debug) and completion (info)
// through internal/logger, mirroring the teacher's pkg/api/router.go.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		logger.Debug("http request started",
			logger.KeyRequestID, requestID,
			"method", r.Method,
			"path", r.URL.Path,
		)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logger.Info("http request completed",
			logger.KeyRequestID, requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
		)
	})
}
