// Package crossval aligns detected communities against official hazard
// alerts by location and time-window proximity.
package crossval

import (
	"math"
	"sort"
	"strings"
	"time"

	"crisisnet/internal/domain/dataset"
	"crisisnet/internal/domain/feed"
	"crisisnet/internal/graphx"
	"crisisnet/internal/insight"
)

// Verdict values for one community
const (
	VerdictAligned      = "aligned"
	VerdictContradicted = "contradicted"
	VerdictNeutral      = "neutral"
	VerdictNoMatch      = "no_match"
)

// Config contains matching tolerances
type Config struct {
	MaxDistanceKm float64
	TimeWindow    time.Duration
}

// DefaultConfig returns the standard tolerances
func DefaultConfig() Config {
	return Config{MaxDistanceKm: 50, TimeWindow: 24 * time.Hour}
}

// MatchedAlert is the alert reference attached to a community verdict
type MatchedAlert struct {
	Event    string `json:"event"`
	Severity string `json:"severity"`
	Provider string `json:"provider"`
}

// Result is the per-community alignment verdict
type Result struct {
	Community      int           `json:"community"`
	Status         string        `json:"status"`
	Location       string        `json:"location"`
	MatchedAlert   *MatchedAlert `json:"matching_alert"`
	AlignmentScore float64       `json:"alignment_score"`
	DisasterCount  int           `json:"cluster_disaster_count"`
	ClusterSize    int           `json:"cluster_size"`
}

// Summary counts verdicts over all communities
type Summary struct {
	AlignedClusters      int `json:"aligned_clusters"`
	ContradictedClusters int `json:"contradicted_clusters"`
	NoMatchClusters      int `json:"no_match_clusters"`
	TotalClusters        int `json:"total_clusters"`
}

// Report is the full cross-validation output. AdjustedAlerts carries the
// alert ranking after alignment boosts and contradiction penalties.
type Report struct {
	Results        []Result        `json:"cross_validation"`
	AdjustedAlerts []insight.Alert `json:"adjusted_alerts"`
	Summary        Summary         `json:"summary"`
}

// Validator matches communities to external alerts
type Validator struct {
	geocoder feed.Geocoder
	config   Config
}

// NewValidator creates a validator around a geocoder
func NewValidator(geocoder feed.Geocoder, config Config) *Validator {
	if config.MaxDistanceKm <= 0 {
		config.MaxDistanceKm = 50
	}
	if config.TimeWindow <= 0 {
		config.TimeWindow = 24 * time.Hour
	}
	return &Validator{geocoder: geocoder, config: config}
}

// community aggregates the records of one detected community
type community struct {
	id        int
	members   []string
	locations map[string]int
	keywords  map[string]struct{}
	disasters int
	earliest  *time.Time
	latest    *time.Time
}

// Validate derives a location/time signature per community, searches the
// alert list for a match and classifies the alignment. Alert scores of
// community members are boosted or penalized accordingly and re-ranked.
func (v *Validator) Validate(
	ds *dataset.Dataset,
	g *graphx.Graph,
	partition graphx.Partition,
	govAlerts []feed.ExternalAlert,
	alerts []insight.Alert,
	now time.Time,
) Report {
	adjusted := make([]insight.Alert, len(alerts))
	copy(adjusted, alerts)
	report := Report{AdjustedAlerts: adjusted}

	communities := collectCommunities(ds, g, partition)
	report.Summary.TotalClusters = len(communities)
	if len(communities) == 0 {
		return report
	}
	if len(govAlerts) == 0 {
		report.Summary.NoMatchClusters = len(communities)
		return report
	}

	alertIndex := make(map[string]int, len(adjusted))
	for i, a := range adjusted {
		alertIndex[a.ID] = i
	}

	for _, comm := range communities {
		result := v.validateCommunity(comm, govAlerts, now)
		switch result.Status {
		case VerdictAligned:
			report.Summary.AlignedClusters++
		case VerdictContradicted:
			report.Summary.ContradictedClusters++
		default:
			report.Summary.NoMatchClusters++
		}
		adjustScores(adjusted, alertIndex, comm.members, result)
		report.Results = append(report.Results, result)
	}

	insight.SortAlerts(adjusted)
	report.AdjustedAlerts = adjusted
	return report
}

// validateCommunity matches one community and scores its alignment
func (v *Validator) validateCommunity(comm community, govAlerts []feed.ExternalAlert, now time.Time) Result {
	result := Result{
		Community:     comm.id,
		Status:        VerdictNoMatch,
		Location:      majorityLocation(comm.locations),
		DisasterCount: comm.disasters,
		ClusterSize:   len(comm.members),
	}
	if result.Location == "" {
		return result
	}

	match := v.matchAlert(result.Location, comm, govAlerts, now)
	if match == nil {
		return result
	}

	result.MatchedAlert = &MatchedAlert{
		Event:    match.Event,
		Severity: match.Severity,
		Provider: match.Provider,
	}

	hasDisasters := comm.disasters > 0
	rank := feed.SeverityRank(match.Severity)
	switch {
	case hasDisasters && rank > 0:
		result.Status = VerdictAligned
		result.AlignmentScore = 0.8 + float64(rank)*0.05
	case hasDisasters && rank == 0:
		result.Status = VerdictContradicted
		result.AlignmentScore = -0.3
	case !hasDisasters && rank > 0:
		result.Status = VerdictContradicted
		result.AlignmentScore = -0.2
	default:
		result.Status = VerdictNeutral
		result.AlignmentScore = 0
	}
	return result
}

// matchAlert finds the best alert within distance and time tolerance.
// Score blends distance proximity and event/keyword overlap; matches
// below 0.3 are discarded.
func (v *Validator) matchAlert(location string, comm community, govAlerts []feed.ExternalAlert, now time.Time) *feed.ExternalAlert {
	lat, lon, ok := v.geocoder.Resolve(location)
	if !ok {
		return nil
	}

	var best *feed.ExternalAlert
	bestScore := 0.0
	for i := range govAlerts {
		alert := &govAlerts[i]
		distance := haversineKm(lat, lon, alert.Lat, alert.Lon)
		if distance > v.config.MaxDistanceKm {
			continue
		}
		if !v.timeWindowsOverlap(comm.earliest, comm.latest, alert.StartTime, alert.EndTime, now) {
			continue
		}

		event := strings.ToLower(alert.Event)
		keywordScore := 0.5
		for kw := range comm.keywords {
			k := strings.ToLower(kw)
			if strings.Contains(event, k) || strings.Contains(k, event) {
				keywordScore = 1.0
				break
			}
		}
		distanceScore := math.Max(0, 1-distance/v.config.MaxDistanceKm)
		score := 0.6*distanceScore + 0.4*keywordScore
		if score > bestScore {
			bestScore = score
			best = alert
		}
	}
	if bestScore < 0.3 {
		return nil
	}
	return best
}

// timeWindowsOverlap checks overlap between the community's record range
// and the alert window, with missing bounds treated as now and a start
// proximity tolerance applied
func (v *Validator) timeWindowsOverlap(start1, end1, start2, end2 *time.Time, now time.Time) bool {
	s1, e1 := orNow(start1, now), orNow(end1, now)
	s2, e2 := orNow(start2, now), orNow(end2, now)
	if !s1.After(e2) && !s2.After(e1) {
		return true
	}
	diff := s1.Sub(s2)
	if diff < 0 {
		diff = -diff
	}
	return diff <= v.config.TimeWindow
}

func orNow(t *time.Time, now time.Time) time.Time {
	if t == nil {
		return now
	}
	return *t
}

// adjustScores applies the alignment boost or contradiction penalty to the
// alerts of the community members
func adjustScores(alerts []insight.Alert, index map[string]int, members []string, result Result) {
	for _, id := range members {
		i, ok := index[id]
		if !ok {
			continue
		}
		switch {
		case result.AlignmentScore > 0:
			boost := math.Min(0.15, result.AlignmentScore*0.2)
			alerts[i].AlertScore = math.Min(1, alerts[i].AlertScore+boost)
			alerts[i].GovAlignment = VerdictAligned
			alerts[i].GovBoost = boost
		case result.AlignmentScore < 0:
			penalty := -result.AlignmentScore * 0.15
			alerts[i].AlertScore = math.Max(0, alerts[i].AlertScore-penalty)
			alerts[i].GovAlignment = VerdictContradicted
			alerts[i].GovPenalty = penalty
		default:
			if result.MatchedAlert != nil {
				alerts[i].GovAlignment = VerdictNeutral
			}
		}
	}
}

// collectCommunities groups dataset records by their community assignment
func collectCommunities(ds *dataset.Dataset, g *graphx.Graph, partition graphx.Partition) []community {
	byID := make(map[int]*community)
	for _, rec := range ds.Records {
		idx, ok := g.IndexOf(rec.ID)
		if !ok || idx >= len(partition.Assignments) {
			continue
		}
		cid := partition.Assignments[idx]
		comm, ok := byID[cid]
		if !ok {
			comm = &community{
				id:        cid,
				locations: make(map[string]int),
				keywords:  make(map[string]struct{}),
			}
			byID[cid] = comm
		}
		comm.members = append(comm.members, rec.ID)
		if rec.Location != "" {
			comm.locations[rec.Location]++
		}
		if rec.Keyword != "" {
			comm.keywords[rec.Keyword] = struct{}{}
		}
		if rec.Target == 1 {
			comm.disasters++
		}
		if rec.Timestamp != nil {
			if comm.earliest == nil || rec.Timestamp.Before(*comm.earliest) {
				comm.earliest = rec.Timestamp
			}
			if comm.latest == nil || rec.Timestamp.After(*comm.latest) {
				comm.latest = rec.Timestamp
			}
		}
	}

	out := make([]community, 0, len(byID))
	for _, c := range byID {
		out = append(out, *c)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].id < out[b].id })
	return out
}

// majorityLocation picks the most frequent location, ties by name
func majorityLocation(locations map[string]int) string {
	best, bestCount := "", 0
	for loc, count := range locations {
		if count > bestCount || (count == bestCount && (best == "" || loc < best)) {
			best, bestCount = loc, count
		}
	}
	return best
}

// haversineKm is the great-circle distance between two points
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Asin(math.Sqrt(a))
}
