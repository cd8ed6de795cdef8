package feed

import (
	"context"
	"time"
)

// Sentiment is a per-text polarity score supplied by an external analyzer
type Sentiment struct {
	Compound float64 `json:"compound"`
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
	Label    string  `json:"label"` // positive, negative or neutral
}

// TopicInfo is the dominant topic assignment for one record
type TopicInfo struct {
	TopicID    int       `json:"topic_id"`
	Confidence float64   `json:"confidence"`
	Keywords   []string  `json:"keywords,omitempty"`
	Weights    []float64 `json:"distribution,omitempty"`
}

// LiveEvent is one streamed record plus derived fields, normalized by a
// stream source before it reaches the pipeline
type LiveEvent struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Sentiment Sentiment `json:"sentiment"`
	Keywords  []string  `json:"keywords"`
	Location  string    `json:"location,omitempty"`
	Lat       *float64  `json:"lat,omitempty"`
	Lon       *float64  `json:"lon,omitempty"`
	Upvotes   int       `json:"upvotes"`
}

// ExternalAlert is a normalized official hazard alert from an authoritative
// provider. Read-only to this engine.
type ExternalAlert struct {
	Source       string     `json:"source"`
	Provider     string     `json:"provider"`
	Event        string     `json:"event"`
	Description  string     `json:"description"`
	Severity     string     `json:"severity"` // normal, elevated, high, critical
	StartTime    *time.Time `json:"start_time,omitempty"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	Lat          float64    `json:"lat"`
	Lon          float64    `json:"lon"`
	LocationName string     `json:"location_name"`
}

// SeverityRank orders alert severities for comparisons
func SeverityRank(severity string) int {
	switch severity {
	case "elevated":
		return 1
	case "high":
		return 2
	case "critical":
		return 3
	default:
		return 0
	}
}

// EventHandler consumes one normalized live event
type EventHandler func(LiveEvent)

// StreamSource is an external live-event collaborator. Credential handling
// is the source's concern; the pipeline only asks whether it is configured.
type StreamSource interface {
	// Name returns the source name
	Name() string

	// Configured reports whether the source can be started
	Configured() bool

	// Start begins delivering events to the handler until ctx is cancelled
	Start(ctx context.Context, handler EventHandler) error

	// Stop stops delivery; it must be safe to call more than once
	Stop() error
}

// Geocoder resolves a free-text place name to coordinates. Resolution may
// fail per location; callers omit unresolved locations from geo outputs.
type Geocoder interface {
	Resolve(location string) (lat, lon float64, ok bool)
}

// SentimentScorer supplies per-text polarity. The scoring model itself is
// external to this engine.
type SentimentScorer interface {
	Score(text string) Sentiment
}

// TopicAssigner supplies per-record topic prominence for a corpus keyed by
// record id.
type TopicAssigner interface {
	AssignTopics(ids []string, texts []string) map[string]TopicInfo
}

// AlertProvider fetches official hazard alerts covering the given locations
type AlertProvider interface {
	Fetch(ctx context.Context, locations []string) ([]ExternalAlert, error)
}
