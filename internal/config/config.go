// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Graph       GraphConfig
	Insight     InsightConfig
	Live        LiveConfig
	CrossVal    CrossValConfig
	Log         LogConfig
}

// GraphConfig holds similarity-graph construction configuration
type GraphConfig struct {
	SimilarityThreshold float64
	MaxFeatures         int
	MinDocFreq          int
	LargeGraphWarn      int
}

// InsightConfig holds alert and influencer ranking configuration
type InsightConfig struct {
	TopInfluencers int
	MaxAlerts      int
	TopicCount     int
}

// LiveConfig holds live ingestion pipeline configuration
type LiveConfig struct {
	BufferSize      int
	SubscriberQueue int
	NATS            NATSConfig
}

// NATSConfig holds NATS configuration for the live stream source
type NATSConfig struct {
	URL            string
	Subject        string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// CrossValConfig holds community/alert cross-validation configuration
type CrossValConfig struct {
	MaxDistanceKm float64
	TimeWindow    time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Debug bool
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Graph: GraphConfig{
			SimilarityThreshold: getEnvAsFloat("GRAPH_SIMILARITY_THRESHOLD", 0.3),
			MaxFeatures:         getEnvAsInt("GRAPH_MAX_FEATURES", 500),
			MinDocFreq:          getEnvAsInt("GRAPH_MIN_DOC_FREQ", 2),
			LargeGraphWarn:      getEnvAsInt("GRAPH_LARGE_GRAPH_WARN", 1000),
		},
		Insight: InsightConfig{
			TopInfluencers: getEnvAsInt("INSIGHT_TOP_INFLUENCERS", 10),
			MaxAlerts:      getEnvAsInt("INSIGHT_MAX_ALERTS", 25),
			TopicCount:     getEnvAsInt("INSIGHT_TOPIC_COUNT", 4),
		},
		Live: LiveConfig{
			BufferSize:      getEnvAsInt("LIVE_BUFFER_SIZE", 200),
			SubscriberQueue: getEnvAsInt("LIVE_SUBSCRIBER_QUEUE", 64),
			NATS: NATSConfig{
				URL:            getEnv("NATS_URL", ""),
				Subject:        getEnv("NATS_SUBJECT", "crisisnet.events"),
				MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
				ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
				ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
			},
		},
		CrossVal: CrossValConfig{
			MaxDistanceKm: getEnvAsFloat("CROSSVAL_MAX_DISTANCE_KM", 50.0),
			TimeWindow:    getEnvAsDuration("CROSSVAL_TIME_WINDOW", 24*time.Hour),
		},
		Log: LogConfig{
			Debug: getEnvAsBool("LOG_DEBUG", false),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	if config.Graph.SimilarityThreshold < 0 || config.Graph.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold must be in [0,1], got %f", config.Graph.SimilarityThreshold)
	}
	if config.Graph.MaxFeatures <= 0 {
		return fmt.Errorf("max features must be positive, got %d", config.Graph.MaxFeatures)
	}
	if config.Live.BufferSize <= 0 {
		return fmt.Errorf("live buffer size must be positive, got %d", config.Live.BufferSize)
	}
	if config.Live.SubscriberQueue <= 0 {
		return fmt.Errorf("subscriber queue size must be positive, got %d", config.Live.SubscriberQueue)
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
