package overview

// Compose packages the full stat list, the two ranking pairs, and a
// provenance label into an Overview. Pure field assembly; slices are
// normalized so consumers always see non-nil (JSON []) values.
func Compose(stats, topBest, topWorst []Stat, placeBest, placeWorst []PlaceStat, source string) *Overview {
	return &Overview{
		Stats:      nonNilStats(stats),
		TopBest:    nonNilStats(topBest),
		TopWorst:   nonNilStats(topWorst),
		PlaceBest:  nonNilPlaces(placeBest),
		PlaceWorst: nonNilPlaces(placeWorst),
		Source:     source,
	}
}

func nonNilStats(s []Stat) []Stat {
	if s == nil {
		return []Stat{}
	}
	return s
}

func nonNilPlaces(s []PlaceStat) []PlaceStat {
	if s == nil {
		return []PlaceStat{}
	}
	return s
}
