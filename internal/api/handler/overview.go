// Package handler provides HTTP handlers for the TerraPulse API.
package handler

import (
	"context"
	"net/http"

	"github.com/terrapulse/terrapulse/internal/api/response"
	"github.com/terrapulse/terrapulse/internal/overview"
)

// OverviewProvider computes a domain overview. It never fails; degraded
// upstreams surface only through the overview's Source label.
type OverviewProvider interface {
	Overview(ctx context.Context) *overview.Overview
}

// OverviewHandler serves the per-domain overview endpoints.
type OverviewHandler struct {
	air   OverviewProvider
	water OverviewProvider
}

// NewOverviewHandler creates a new OverviewHandler.
func NewOverviewHandler(air, water OverviewProvider) *OverviewHandler {
	return &OverviewHandler{air: air, water: water}
}

// AirOverview handles GET /v1/air/overview.
func (h *OverviewHandler) AirOverview(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.air.Overview(r.Context()))
}

// WaterOverview handles GET /v1/water/overview.
func (h *OverviewHandler) WaterOverview(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.water.Overview(r.Context()))
}
