// Package engine orchestrates one batch analysis run over an ingested
// dataset and holds the latest completed session for readers.
package engine

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"crisisnet/internal/config"
	"crisisnet/internal/crossval"
	"crisisnet/internal/domain/dataset"
	"crisisnet/internal/domain/feed"
	"crisisnet/internal/graphx"
	"crisisnet/internal/insight"
	"crisisnet/internal/text"
)

// Session is the immutable result of one analysis run. A new run replaces
// the whole session; nothing is patched in place.
type Session struct {
	Dataset     *dataset.Dataset
	Graph       *graphx.Graph
	Metrics     *graphx.Metrics
	Partition   graphx.Partition
	Influencers []insight.Influencer
	Text        insight.TextInsights
	Alerts      insight.AlertReport
	Geo         insight.GeoInsights
	Timeline    insight.Timeline
	Aggregates  insight.Aggregates
	Summary     insight.Summary
	GovAlerts   []feed.ExternalAlert
	CrossVal    crossval.Report
	AnalyzedAt  time.Time
}

// Dependencies are the external collaborators an engine runs with. Zero
// fields fall back to the built-in defaults.
type Dependencies struct {
	Geocoder   feed.Geocoder
	Sentiment  feed.SentimentScorer
	Topics     feed.TopicAssigner
	GovAlerts  feed.AlertProvider
	Calculator graphx.CentralityCalculator
	Detector   graphx.CommunityDetector
}

// Engine owns the dataset and the latest session. Reads see either the
// previous completed session or the new one, never a half-built state.
type Engine struct {
	config config.Config
	deps   Dependencies
	logger *log.Logger

	// analyzeMu serializes batch runs; at most one is in flight
	analyzeMu sync.Mutex

	mu      sync.RWMutex
	ds      *dataset.Dataset
	session *Session
}

// New creates an engine, filling missing collaborators with defaults
func New(cfg config.Config, deps Dependencies, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	if deps.Geocoder == nil {
		deps.Geocoder = feed.NewStaticGazetteer(nil)
	}
	if deps.Sentiment == nil {
		deps.Sentiment = feed.NeutralSentiment{}
	}
	if deps.Topics == nil {
		deps.Topics = insight.FrequencyTopics{TopicCount: cfg.Insight.TopicCount}
	}
	if deps.GovAlerts == nil {
		deps.GovAlerts = &feed.StaticAlerts{}
	}
	if deps.Calculator == nil {
		deps.Calculator = graphx.NewCalculator()
	}
	if deps.Detector == nil {
		deps.Detector = graphx.NewLouvain()
	}
	return &Engine{config: cfg, deps: deps, logger: logger}
}

// Ingest parses a CSV stream and replaces the current dataset. Any
// previous session is discarded, since it no longer matches the data.
func (e *Engine) Ingest(r io.Reader) (dataset.Stats, error) {
	ds, err := dataset.IngestCSV(r)
	if err != nil {
		return dataset.Stats{}, err
	}

	e.mu.Lock()
	e.ds = ds
	e.session = nil
	e.mu.Unlock()

	e.logger.Info("dataset ingested",
		"rows", ds.Stats.TotalRows,
		"skipped", ds.Stats.SkippedRows,
		"keywords", ds.Stats.UniqueKeywords)
	return ds.Stats, nil
}

// IngestRecords replaces the current dataset with pre-parsed records
func (e *Engine) IngestRecords(records []dataset.Record) (dataset.Stats, error) {
	ds, err := dataset.New(records)
	if err != nil {
		return dataset.Stats{}, err
	}

	e.mu.Lock()
	e.ds = ds
	e.session = nil
	e.mu.Unlock()
	return ds.Stats, nil
}

// Dataset returns the current dataset, or a NoDatasetError before ingest
func (e *Engine) Dataset() (*dataset.Dataset, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.ds == nil {
		return nil, &dataset.NoDatasetError{}
	}
	return e.ds, nil
}

// Session returns the latest completed analysis, or a NoDatasetError when
// nothing has been analyzed yet
func (e *Engine) Session() (*Session, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.session == nil {
		return nil, &dataset.NoDatasetError{}
	}
	return e.session, nil
}

// Analyze runs the full batch pipeline over the current dataset and swaps
// the resulting session in. Concurrent calls are serialized.
func (e *Engine) Analyze(ctx context.Context) (*Session, error) {
	e.analyzeMu.Lock()
	defer e.analyzeMu.Unlock()

	e.mu.RLock()
	ds := e.ds
	e.mu.RUnlock()
	if ds == nil {
		return nil, &dataset.NoDatasetError{}
	}

	started := time.Now()
	s := &Session{Dataset: ds}

	vectorizer := text.NewTfidfVectorizer(text.TfidfOptions{
		MaxFeatures: e.config.Graph.MaxFeatures,
		MinDocFreq:  e.config.Graph.MinDocFreq,
	})
	builder := graphx.NewBuilder(vectorizer, graphx.BuilderConfig{
		SimilarityThreshold: e.config.Graph.SimilarityThreshold,
		LargeGraphWarn:      e.config.Graph.LargeGraphWarn,
	}, e.logger)

	s.Graph = builder.Build(ds)
	s.Metrics = e.deps.Calculator.Compute(s.Graph)
	s.Partition = e.deps.Detector.Detect(s.Graph)
	applyNodeAttributes(s.Graph, s.Metrics, s.Partition)

	s.Influencers = insight.TopInfluencers(s.Graph, s.Metrics, s.Partition, e.config.Insight.TopInfluencers)

	ids := make([]string, len(ds.Records))
	texts := make([]string, len(ds.Records))
	for i, rec := range ds.Records {
		ids[i] = rec.ID
		texts[i] = rec.Text
	}
	s.Text = insight.ComputeTextInsights(ids, texts, e.deps.Sentiment, e.deps.Topics)

	alerts := insight.ComputeAlerts(ds, s.Graph, s.Metrics,
		s.Text.RecordSentiments, s.Text.RecordTopics, s.Partition,
		e.config.Insight.MaxAlerts)

	s.Geo = insight.ComputeGeoInsights(ds, s.Text.RecordSentiments, e.deps.Geocoder)
	s.Timeline = insight.BuildTimeline(ds, started)

	s.GovAlerts = e.fetchGovAlerts(ctx, ds)
	validator := crossval.NewValidator(e.deps.Geocoder, crossval.Config{
		MaxDistanceKm: e.config.CrossVal.MaxDistanceKm,
		TimeWindow:    e.config.CrossVal.TimeWindow,
	})
	s.CrossVal = validator.Validate(ds, s.Graph, s.Partition, s.GovAlerts, alerts.Alerts, started)
	alerts.Alerts = s.CrossVal.AdjustedAlerts
	s.Alerts = alerts
	applyAlertScores(s.Graph, alerts.Alerts)

	s.Aggregates = insight.BuildAggregates(ds, s.Metrics, s.Partition)
	s.Summary = insight.GenerateSummary(s.Aggregates, s.Influencers)
	s.AnalyzedAt = started

	e.mu.Lock()
	e.session = s
	e.mu.Unlock()

	e.logger.Info("analysis complete",
		"nodes", s.Graph.Order(),
		"edges", s.Graph.Size(),
		"communities", s.Partition.Count,
		"alerts", len(s.Alerts.Alerts),
		"elapsed", time.Since(started))
	return s, nil
}

// fetchGovAlerts asks the alert provider for the dataset's locations.
// Provider failures degrade to an empty alert list.
func (e *Engine) fetchGovAlerts(ctx context.Context, ds *dataset.Dataset) []feed.ExternalAlert {
	seen := make(map[string]struct{})
	var locations []string
	for _, rec := range ds.Records {
		if rec.Location == "" {
			continue
		}
		if _, ok := seen[rec.Location]; ok {
			continue
		}
		seen[rec.Location] = struct{}{}
		locations = append(locations, rec.Location)
	}

	govAlerts, err := e.deps.GovAlerts.Fetch(ctx, locations)
	if err != nil {
		e.logger.Warn("gov alert fetch failed, continuing without", "error", err)
		return nil
	}
	return govAlerts
}

// applyNodeAttributes copies the computed metric vectors onto the nodes
func applyNodeAttributes(g *graphx.Graph, m *graphx.Metrics, partition graphx.Partition) {
	for i, node := range g.Nodes {
		node.Degree = m.Degree[i]
		node.DegreeCentrality = m.DegreeCentrality[i]
		node.BetweennessCentrality = m.Betweenness[i]
		node.EigenvectorCentrality = m.Eigenvector[i]
		node.ClusteringCoefficient = m.Clustering[i]
		node.AveragePathLength = m.AveragePathLength[i]
		node.Community = partition.Assignments[i]
	}
}

// applyAlertScores writes final per-record alert scores onto the nodes
func applyAlertScores(g *graphx.Graph, alerts []insight.Alert) {
	for _, alert := range alerts {
		if i, ok := g.IndexOf(alert.ID); ok {
			g.Nodes[i].AlertScore = alert.AlertScore
		}
	}
}
