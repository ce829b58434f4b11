package handler

import (
	"net/http"
	"sort"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/terrapulse/terrapulse/internal/api/models"
	"github.com/terrapulse/terrapulse/internal/api/response"
)

// CircuitReporter exposes a feed client's circuit breaker state.
type CircuitReporter interface {
	State() gobreaker.State
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	feeds     map[string]CircuitReporter
}

// NewOpsHandler creates a new OpsHandler. feeds maps feed names to their
// circuit breakers and may be nil.
func NewOpsHandler(version, buildTime string, feeds map[string]CircuitReporter) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		feeds:     feeds,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now(),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
// The service is always ready: every overview request degrades to embedded
// data rather than failing, so there is no upstream dependency to gate on.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now(),
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - upstream feed circuit states.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status: models.HealthStatusOK,
		Time:   time.Now(),
	}

	names := make([]string, 0, len(h.feeds))
	for name := range h.feeds {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		state := h.feeds[name].State()
		status.Feeds = append(status.Feeds, models.FeedStatus{
			Feed:    name,
			Circuit: state.String(),
		})
		if state != gobreaker.StateClosed {
			status.Status = models.HealthStatusDegraded
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}
