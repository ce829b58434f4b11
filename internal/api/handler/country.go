package handler

import (
	"context"
	"net/http"

	"github.com/terrapulse/terrapulse/internal/api/response"
	"github.com/terrapulse/terrapulse/internal/country"
)

// DirectoryProvider supplies country directory snapshots.
type DirectoryProvider interface {
	Directory(ctx context.Context) *country.Directory
}

// CountryHandler serves the country reference endpoints.
type CountryHandler struct {
	countries DirectoryProvider
}

// NewCountryHandler creates a new CountryHandler.
func NewCountryHandler(countries DirectoryProvider) *CountryHandler {
	return &CountryHandler{countries: countries}
}

// countriesResponse is the payload for the directory listing.
type countriesResponse struct {
	Countries []country.Meta `json:"countries"`
}

// ListCountries handles GET /v1/countries.
func (h *CountryHandler) ListCountries(w http.ResponseWriter, r *http.Request) {
	dir := h.countries.Directory(r.Context())
	response.JSON(w, r, http.StatusOK, countriesResponse{Countries: dir.All()})
}
