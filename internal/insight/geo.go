package insight

import (
	"sort"

	"crisisnet/internal/domain/dataset"
	"crisisnet/internal/domain/feed"
)

// GeoLocation aggregates records sharing one resolvable location
type GeoLocation struct {
	Location         string   `json:"location"`
	Lat              float64  `json:"lat"`
	Lon              float64  `json:"lon"`
	TotalRecords     int      `json:"total_tweets"`
	DisasterRecords  int      `json:"disaster_tweets"`
	NonDisaster      int      `json:"non_disaster_tweets"`
	TopKeywords      []string `json:"top_keywords"`
	AverageSentiment *float64 `json:"average_sentiment"`
	DisasterRatio    float64  `json:"disaster_ratio"`
}

// GeoSummary names the standout locations
type GeoSummary struct {
	TotalGeocodedLocations  int     `json:"total_geocoded_locations"`
	HighestActivityLocation string  `json:"highest_activity_location"`
	HighestActivityCount    int     `json:"highest_activity_count"`
	HighestRiskLocation     string  `json:"highest_risk_location"`
	HighestRiskRatio        float64 `json:"highest_risk_ratio"`
}

// GeoInsights is the per-location aggregate view of one analysis run.
// Locations the geocoder cannot resolve are omitted here; their records
// remain in every non-geo output.
type GeoInsights struct {
	Locations []GeoLocation `json:"locations"`
	Summary   GeoSummary    `json:"summary"`
}

// ComputeGeoInsights groups records by location, resolves coordinates via
// the geocoder and aggregates counts, keywords and sentiment per location
func ComputeGeoInsights(ds *dataset.Dataset, sentiments map[string]feed.Sentiment, geocoder feed.Geocoder) GeoInsights {
	groups := make(map[string][]dataset.Record)
	for _, rec := range ds.Records {
		if rec.Location != "" {
			groups[rec.Location] = append(groups[rec.Location], rec)
		}
	}

	locations := make([]GeoLocation, 0, len(groups))
	for loc, records := range groups {
		lat, lon, ok := geocoder.Resolve(loc)
		if !ok {
			continue
		}

		disaster := 0
		keywordCounts := make(map[string]int)
		var sentimentSum float64
		sentimentHits := 0
		for _, rec := range records {
			if rec.Target == 1 {
				disaster++
			}
			if rec.Keyword != "" {
				keywordCounts[rec.Keyword]++
			}
			if s, ok := sentiments[rec.ID]; ok {
				sentimentSum += s.Compound
				sentimentHits++
			}
		}

		entry := GeoLocation{
			Location:        loc,
			Lat:             lat,
			Lon:             lon,
			TotalRecords:    len(records),
			DisasterRecords: disaster,
			NonDisaster:     len(records) - disaster,
			TopKeywords:     topKeys(keywordCounts, 3),
			DisasterRatio:   float64(disaster) / float64(len(records)),
		}
		if sentimentHits > 0 {
			avg := sentimentSum / float64(sentimentHits)
			entry.AverageSentiment = &avg
		}
		locations = append(locations, entry)
	}

	out := GeoInsights{Locations: locations}
	if len(locations) == 0 {
		return out
	}

	sort.Slice(locations, func(a, b int) bool {
		if locations[a].TotalRecords != locations[b].TotalRecords {
			return locations[a].TotalRecords > locations[b].TotalRecords
		}
		return locations[a].Location < locations[b].Location
	})
	out.Locations = locations

	highestRisk := locations[0]
	for _, l := range locations[1:] {
		if l.DisasterRatio > highestRisk.DisasterRatio {
			highestRisk = l
		}
	}
	out.Summary = GeoSummary{
		TotalGeocodedLocations:  len(locations),
		HighestActivityLocation: locations[0].Location,
		HighestActivityCount:    locations[0].TotalRecords,
		HighestRiskLocation:     highestRisk.Location,
		HighestRiskRatio:        highestRisk.DisasterRatio,
	}
	return out
}

// topKeys returns the n highest-count keys, count descending then key order
func topKeys(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if counts[keys[a]] != counts[keys[b]] {
			return counts[keys[a]] > counts[keys[b]]
		}
		return keys[a] < keys[b]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
