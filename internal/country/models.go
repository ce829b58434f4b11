// Package country provides the canonical country directory and code resolution.
package country

import (
	"errors"
	"strings"
)

// Directory errors.
var (
	// ErrDirectoryUnavailable is returned when no directory could be fetched
	// and no fallback is configured.
	ErrDirectoryUnavailable = errors.New("country directory unavailable")
)

// Meta holds reference metadata for a single country.
type Meta struct {
	// CCA3 is the canonical 3-letter country code (primary key).
	CCA3 string `json:"cca3"`

	// Name is the common display name.
	Name string `json:"name"`

	// CCA2 is the 2-letter country code.
	CCA2 string `json:"cca2"`

	// Lat and Lng are the country centroid coordinates.
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`

	// Region is a coarse geographic region label.
	Region string `json:"region"`

	// Capital is the capital city name, empty if unknown.
	Capital string `json:"capital,omitempty"`
}

// Directory is an immutable snapshot of the country reference table.
// It is built once, then only read; refreshes replace the whole snapshot.
type Directory struct {
	byCode map[string]Meta

	// codes preserves insertion order so lookups that scan the table
	// (2-letter code resolution) are deterministic across runs.
	codes []string
}

// NewDirectory creates a directory from an ordered list of entries.
// Entries without a CCA3 code are skipped; duplicates keep the first entry.
func NewDirectory(entries []Meta) *Directory {
	d := &Directory{byCode: make(map[string]Meta, len(entries))}
	for _, e := range entries {
		code := strings.ToUpper(strings.TrimSpace(e.CCA3))
		if code == "" {
			continue
		}
		if _, ok := d.byCode[code]; ok {
			continue
		}
		e.CCA3 = code
		d.byCode[code] = e
		d.codes = append(d.codes, code)
	}
	return d
}

// Lookup returns the metadata for a canonical 3-letter code.
func (d *Directory) Lookup(cca3 string) (Meta, bool) {
	m, ok := d.byCode[strings.ToUpper(cca3)]
	return m, ok
}

// Len returns the number of countries in the directory.
func (d *Directory) Len() int {
	return len(d.codes)
}

// All returns the directory entries in canonical iteration order.
func (d *Directory) All() []Meta {
	out := make([]Meta, 0, len(d.codes))
	for _, code := range d.codes {
		out = append(out, d.byCode[code])
	}
	return out
}

// ResolveISO3 resolves an arbitrary location token to a canonical 3-letter code.
//
// 2-letter tokens are validated against the directory's cca2 values, scanning
// in canonical order so duplicates resolve deterministically. Any other
// non-empty token is upper-cased and accepted verbatim without a directory
// lookup. The asymmetry is deliberate: upstream feeds already tag most records
// with 3-letter codes, and rejecting unknown ones would drop whole countries
// whenever the reference feed is degraded. Downstream display falls back to
// the bare code when metadata is missing.
func (d *Directory) ResolveISO3(token string) (string, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(token))
	if normalized == "" {
		return "", false
	}

	if len(normalized) == 2 {
		for _, code := range d.codes {
			if d.byCode[code].CCA2 == normalized {
				return code, true
			}
		}
		return "", false
	}

	return normalized, true
}

// fallbackEntries is the embedded reference table used when the live
// directory feed cannot be reached. Deliberately small; resolution of codes
// outside this set degrades to bare-code display names.
func fallbackEntries() []Meta {
	return []Meta{
		{CCA3: "USA", Name: "United States", CCA2: "US", Lat: 38.0, Lng: -97.0, Region: "Americas", Capital: "Washington D.C."},
		{CCA3: "CHN", Name: "China", CCA2: "CN", Lat: 35.0, Lng: 103.0, Region: "Asia", Capital: "Beijing"},
		{CCA3: "IND", Name: "India", CCA2: "IN", Lat: 21.0, Lng: 78.0, Region: "Asia", Capital: "New Delhi"},
		{CCA3: "AUS", Name: "Australia", CCA2: "AU", Lat: -27.0, Lng: 133.0, Region: "Oceania", Capital: "Canberra"},
		{CCA3: "BRA", Name: "Brazil", CCA2: "BR", Lat: -10.0, Lng: -55.0, Region: "Americas", Capital: "Brasília"},
		{CCA3: "CAN", Name: "Canada", CCA2: "CA", Lat: 60.0, Lng: -95.0, Region: "Americas", Capital: "Ottawa"},
		{CCA3: "ZAF", Name: "South Africa", CCA2: "ZA", Lat: -29.0, Lng: 24.0, Region: "Africa", Capital: "Pretoria"},
		{CCA3: "FRA", Name: "France", CCA2: "FR", Lat: 46.0, Lng: 2.0, Region: "Europe", Capital: "Paris"},
		{CCA3: "DEU", Name: "Germany", CCA2: "DE", Lat: 51.0, Lng: 9.0, Region: "Europe", Capital: "Berlin"},
		{CCA3: "GBR", Name: "United Kingdom", CCA2: "GB", Lat: 54.0, Lng: -2.0, Region: "Europe", Capital: "London"},
	}
}

// FallbackDirectory returns the embedded fallback directory.
func FallbackDirectory() *Directory {
	return NewDirectory(fallbackEntries())
}
