// Package aggregate accumulates raw measurement records into per-country and
// per-place running statistics.
package aggregate

import (
	"math"
	"strings"

	"github.com/terrapulse/terrapulse/internal/country"
)

// LatLng is a geographic coordinate pair.
type LatLng struct {
	Lat float64
	Lng float64
}

// Record is a single upstream measurement or survey row. It only lives for
// the duration of one aggregation pass.
type Record struct {
	// Location is the raw location token: a 2-letter code, a 3-letter code,
	// or free text. Resolution happens during aggregation.
	Location string

	// Value is the numeric reading. Non-finite values are skipped.
	Value float64

	// Unit is the unit label reported by the feed.
	Unit string

	// UpdatedAt is the observation timestamp as an ISO-8601 string.
	// ISO-8601 strings sort lexically in time order, which is what the
	// latest-timestamp accumulation relies on.
	UpdatedAt string

	// Place is an optional place name (city, station, capital).
	Place string

	// Coords are optional point coordinates; when absent the country
	// centroid from the directory is used instead.
	Coords *LatLng
}

// CountryAggregate is the running accumulator for one country.
// Sum and centroid are kept at full precision; rounding happens at emission.
type CountryAggregate struct {
	CCA3      string
	Name      string
	Region    string
	Sum       float64
	Count     int
	Unit      string
	UpdatedAt string
	Centroid  LatLng
}

// PlaceAggregate is the running accumulator for one (country, place) pair.
type PlaceAggregate struct {
	Place     string
	Country   string
	CCA3      string
	Sum       float64
	Count     int
	Unit      string
	UpdatedAt string
}

// CountryAggregates holds country accumulators in first-seen insertion order,
// so emission and ranking tie-breaks are deterministic for a given stream.
type CountryAggregates struct {
	index map[string]*CountryAggregate
	order []*CountryAggregate
}

// NewCountryAggregates creates an empty collection.
func NewCountryAggregates() *CountryAggregates {
	return &CountryAggregates{index: make(map[string]*CountryAggregate)}
}

// Get returns the accumulator for a code, or nil.
func (c *CountryAggregates) Get(cca3 string) *CountryAggregate {
	return c.index[cca3]
}

// All returns the accumulators in insertion order.
func (c *CountryAggregates) All() []*CountryAggregate {
	return c.order
}

// Len returns the number of countries seen.
func (c *CountryAggregates) Len() int {
	return len(c.order)
}

// PlaceAggregates holds place accumulators in first-seen insertion order.
type PlaceAggregates struct {
	index map[string]*PlaceAggregate
	order []*PlaceAggregate
}

// NewPlaceAggregates creates an empty collection.
func NewPlaceAggregates() *PlaceAggregates {
	return &PlaceAggregates{index: make(map[string]*PlaceAggregate)}
}

// Get returns the accumulator for a (code, place) pair, or nil.
// Place matching is case-insensitive.
func (p *PlaceAggregates) Get(cca3, place string) *PlaceAggregate {
	return p.index[placeKey(cca3, place)]
}

// All returns the accumulators in insertion order.
func (p *PlaceAggregates) All() []*PlaceAggregate {
	return p.order
}

// Len returns the number of places seen.
func (p *PlaceAggregates) Len() int {
	return len(p.order)
}

func placeKey(cca3, place string) string {
	return cca3 + "-" + strings.ToLower(place)
}

// Aggregate consumes a batch of records and produces country and place
// accumulators. It never fails: records with non-finite values or unresolvable
// location tokens are silently dropped, and an empty input yields empty
// collections.
//
// Records must be applied in stream order. The centroid update is a simple
// running mean of the previous centroid and the new point, (prev+new)/2, which
// drifts toward recent samples instead of weighting by count. That matches the
// historical behavior consumers calibrated against; do not replace it with a
// count-weighted mean without resampling the published maps.
func Aggregate(records []Record, dir *country.Directory) (*CountryAggregates, *PlaceAggregates) {
	countries := NewCountryAggregates()
	places := NewPlaceAggregates()

	for i := range records {
		rec := &records[i]

		if math.IsNaN(rec.Value) || math.IsInf(rec.Value, 0) {
			continue
		}

		cca3, ok := dir.ResolveISO3(rec.Location)
		if !ok {
			continue
		}

		meta, hasMeta := dir.Lookup(cca3)

		point := recordPoint(rec, meta, hasMeta)

		agg := countries.Get(cca3)
		if agg == nil {
			name := cca3
			region := "Unknown region"
			if hasMeta {
				name = meta.Name
				region = meta.Region
			}
			agg = &CountryAggregate{
				CCA3:      cca3,
				Name:      name,
				Region:    region,
				Sum:       rec.Value,
				Count:     1,
				Unit:      rec.Unit,
				UpdatedAt: rec.UpdatedAt,
				Centroid:  point,
			}
			countries.index[cca3] = agg
			countries.order = append(countries.order, agg)
		} else {
			agg.Sum += rec.Value
			agg.Count++
			if rec.UpdatedAt > agg.UpdatedAt {
				agg.UpdatedAt = rec.UpdatedAt
			}
			agg.Centroid.Lat = (agg.Centroid.Lat + point.Lat) / 2
			agg.Centroid.Lng = (agg.Centroid.Lng + point.Lng) / 2
		}

		place := strings.TrimSpace(rec.Place)
		if place == "" {
			continue
		}

		key := placeKey(cca3, place)
		pagg := places.index[key]
		if pagg == nil {
			pagg = &PlaceAggregate{
				Place:     place,
				Country:   agg.Name,
				CCA3:      cca3,
				Sum:       rec.Value,
				Count:     1,
				Unit:      rec.Unit,
				UpdatedAt: rec.UpdatedAt,
			}
			places.index[key] = pagg
			places.order = append(places.order, pagg)
		} else {
			pagg.Sum += rec.Value
			pagg.Count++
			if rec.UpdatedAt > pagg.UpdatedAt {
				pagg.UpdatedAt = rec.UpdatedAt
			}
		}
	}

	return countries, places
}

// recordPoint picks the coordinate contribution for a record: the record's
// own coordinates if present, otherwise the directory centroid, otherwise 0,0.
func recordPoint(rec *Record, meta country.Meta, hasMeta bool) LatLng {
	if rec.Coords != nil {
		return *rec.Coords
	}
	if hasMeta {
		return LatLng{Lat: meta.Lat, Lng: meta.Lng}
	}
	return LatLng{}
}

// Average returns the emitted average, rounded to 2 decimal places.
func (a *CountryAggregate) Average() float64 {
	return Round2(a.Sum / float64(a.Count))
}

// Average returns the emitted average, rounded to 2 decimal places.
func (a *PlaceAggregate) Average() float64 {
	return Round2(a.Sum / float64(a.Count))
}

// Round2 rounds a value to 2 decimal places. Used only at emission time;
// accumulated state stays at full precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
