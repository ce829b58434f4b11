// Package overview assembles ranked, presentation-ready summaries from
// aggregated measurement data.
package overview

import (
	"github.com/terrapulse/terrapulse/internal/aggregate"
)

// Stat is one country's emitted summary row. Value and coordinates are
// rounded to 2 decimal places at emission.
type Stat struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Region      string  `json:"region"`
	Value       float64 `json:"value"`
	SampleCount int     `json:"sampleCount"`
	Unit        string  `json:"unit"`
	UpdatedAt   string  `json:"updatedAt"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

// PlaceStat is one place's emitted summary row.
type PlaceStat struct {
	Place       string  `json:"place"`
	Country     string  `json:"country"`
	Value       float64 `json:"value"`
	SampleCount int     `json:"sampleCount"`
	Unit        string  `json:"unit"`
	UpdatedAt   string  `json:"updatedAt"`
}

// Overview is the immutable per-domain snapshot handed to presentation
// consumers. Ranking slices are subsets of Stats, each at most the configured
// leaderboard length, and the structure is identical for live and fallback
// data; only Source tells them apart.
type Overview struct {
	Stats      []Stat      `json:"stats"`
	TopBest    []Stat      `json:"topBest"`
	TopWorst   []Stat      `json:"topWorst"`
	PlaceBest  []PlaceStat `json:"placeBest"`
	PlaceWorst []PlaceStat `json:"placeWorst"`
	Source     string      `json:"source"`
}

// Origin says whether an overview was computed from live upstream data or
// from the embedded fallback dataset. The branch is explicit so tests can
// assert on it; it collapses into the Source label at the API boundary.
type Origin int

const (
	// OriginLive means the upstream feed supplied the records.
	OriginLive Origin = iota

	// OriginFallback means the embedded dataset supplied the records.
	OriginFallback
)

// String returns a short label for logging and metrics.
func (o Origin) String() string {
	if o == OriginFallback {
		return "fallback"
	}
	return "live"
}

// NewStat converts a country accumulator into its emitted row.
func NewStat(a *aggregate.CountryAggregate) Stat {
	return Stat{
		Code:        a.CCA3,
		Name:        a.Name,
		Region:      a.Region,
		Value:       a.Average(),
		SampleCount: a.Count,
		Unit:        a.Unit,
		UpdatedAt:   a.UpdatedAt,
		Lat:         aggregate.Round2(a.Centroid.Lat),
		Lng:         aggregate.Round2(a.Centroid.Lng),
	}
}

// NewPlaceStat converts a place accumulator into its emitted row.
func NewPlaceStat(a *aggregate.PlaceAggregate) PlaceStat {
	return PlaceStat{
		Place:       a.Place,
		Country:     a.Country,
		Value:       a.Average(),
		SampleCount: a.Count,
		Unit:        a.Unit,
		UpdatedAt:   a.UpdatedAt,
	}
}
