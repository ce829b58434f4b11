package models

import "time"

// Health status values.
const (
	HealthStatusOK       = "ok"
	HealthStatusDegraded = "degraded"
)

// Health is the payload for liveness and readiness checks.
type Health struct {
	Status  string                 `json:"status"`
	Time    time.Time              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// FeedStatus reports one upstream feed's circuit state.
type FeedStatus struct {
	Feed    string `json:"feed"`
	Circuit string `json:"circuit"`
}

// SystemStatus is the payload for the operational status endpoint.
type SystemStatus struct {
	Status string       `json:"status"`
	Time   time.Time    `json:"time"`
	Feeds  []FeedStatus `json:"feeds,omitempty"`
}
