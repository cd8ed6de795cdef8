package insight

import (
	"sort"
	"time"

	"crisisnet/internal/domain/dataset"
)

// TimelinePoint is one daily bucket of record counts
type TimelinePoint struct {
	Timestamp   time.Time `json:"timestamp"`
	Total       int       `json:"total"`
	Disaster    int       `json:"disaster"`
	NonDisaster int       `json:"non_disaster"`
}

// Timeline is the time-bucketed view of a dataset. HasRealTimestamp is
// false when buckets were synthesized because no record carried a
// timestamp; consumers must treat such timelines as illustrative only.
type Timeline struct {
	Points           []TimelinePoint `json:"timeline"`
	HasRealTimestamp bool            `json:"has_real_timestamp"`
	Frequency        string          `json:"frequency"`
}

// BuildTimeline buckets records per day. When no record has a timestamp,
// one synthetic day per record is generated ending at now, preserving
// record order, and the synthetic origin is flagged.
func BuildTimeline(ds *dataset.Dataset, now time.Time) Timeline {
	out := Timeline{Frequency: "D"}
	if ds == nil || len(ds.Records) == 0 {
		return out
	}

	for _, rec := range ds.Records {
		if rec.Timestamp != nil {
			out.HasRealTimestamp = true
			break
		}
	}

	buckets := make(map[time.Time]*TimelinePoint)
	if out.HasRealTimestamp {
		for _, rec := range ds.Records {
			if rec.Timestamp == nil {
				continue
			}
			addToBucket(buckets, rec.Timestamp.UTC().Truncate(24*time.Hour), rec)
		}
	} else {
		// Synthetic daily spread ending at now, mirroring record order.
		n := len(ds.Records)
		for i, rec := range ds.Records {
			day := now.UTC().AddDate(0, 0, i-n+1).Truncate(24 * time.Hour)
			addToBucket(buckets, day, rec)
		}
	}

	out.Points = make([]TimelinePoint, 0, len(buckets))
	for _, p := range buckets {
		out.Points = append(out.Points, *p)
	}
	sort.Slice(out.Points, func(a, b int) bool {
		return out.Points[a].Timestamp.Before(out.Points[b].Timestamp)
	})
	return out
}

func addToBucket(buckets map[time.Time]*TimelinePoint, day time.Time, rec dataset.Record) {
	p, ok := buckets[day]
	if !ok {
		p = &TimelinePoint{Timestamp: day}
		buckets[day] = p
	}
	p.Total++
	if rec.Target == 1 {
		p.Disaster++
	} else {
		p.NonDisaster++
	}
}
