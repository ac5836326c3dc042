package httpapi

import (
	"net/http"
	"time"

	"github.com/KrolPaul/call-center/internal/dispatcher"
)

// healthHandler implements GET /health and GET /health/ready, grounded
// on the teacher's internal/controlplane/api/handlers/health.go.
type healthHandler struct {
	dispatcher *dispatcher.Dispatcher
	startTime  time.Time
}

type healthResponse struct {
	Status    string `json:"status"`
	UptimeSec int64  `json:"uptime_sec"`
}

// Liveness always reports healthy once the process is serving HTTP at
// all — it says nothing about the scheduler.
func (h *healthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		UptimeSec: int64(time.Since(h.startTime).Seconds()),
	})
}

// Readiness reports unhealthy until the scheduler loop has completed
// at least one tick (dispatcher.Dispatcher.Ready).
func (h *healthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if !h.dispatcher.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "not ready"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ready",
		UptimeSec: int64(time.Since(h.startTime).Seconds()),
	})
}
