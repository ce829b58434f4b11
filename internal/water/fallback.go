package water

import (
	"time"

	"github.com/terrapulse/terrapulse/internal/aggregate"
)

// fallbackEntry is one country's hand-curated survey value.
type fallbackEntry struct {
	cca3    string
	score   float64
	year    string
	capital string
}

// fallbackEntries is the embedded coverage dataset served when the World
// Bank feed is unreachable. A deliberately small spread from near-full to
// low coverage so both ends of the ranking stay populated offline.
var fallbackEntries = []fallbackEntry{
	{cca3: "NZL", score: 99.0, year: "2022", capital: "Wellington"},
	{cca3: "FIN", score: 98.4, year: "2022", capital: "Helsinki"},
	{cca3: "SGP", score: 100.0, year: "2021", capital: "Singapore"},
	{cca3: "ZAF", score: 68.3, year: "2020", capital: "Pretoria"},
	{cca3: "NGA", score: 21.0, year: "2019", capital: "Abuja"},
	{cca3: "ETH", score: 12.0, year: "2019", capital: "Addis Ababa"},
}

// FallbackRecords builds the embedded dataset as raw records so the fallback
// branch runs through the same aggregation and ranking path as live data.
// Survey values keep their original year as the timestamp.
func FallbackRecords(_ time.Time) []aggregate.Record {
	records := make([]aggregate.Record, 0, len(fallbackEntries))
	for _, e := range fallbackEntries {
		records = append(records, aggregate.Record{
			Location:  e.cca3,
			Value:     e.score,
			Unit:      "% population",
			UpdatedAt: e.year,
			Place:     e.capital,
		})
	}
	return records
}
