package live

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"crisisnet/internal/domain/feed"
	"crisisnet/internal/text"
)

// ConfigurationError is returned when the stream source cannot be started
// because its credentials or endpoint are missing
type ConfigurationError struct {
	Source string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("stream source %q is not configured", e.Source)
}

// Config contains pipeline sizing
type Config struct {
	BufferSize      int
	SubscriberQueue int
}

// Status is the live pipeline state snapshot
type Status struct {
	Running     bool    `json:"running"`
	Configured  bool    `json:"configured"`
	TotalEvents int     `json:"total_events"`
	Summary     Summary `json:"summary"`
}

// Pipeline ingests streamed records independently of the batch path: it
// owns a bounded rolling window and a rolling summary, and broadcasts a
// delta to subscribers for every accepted event.
type Pipeline struct {
	source feed.StreamSource
	hub    *Hub
	logger *log.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	queue   chan feed.LiveEvent
	window  *window
	summary Summary
}

// NewPipeline creates an idle pipeline around a stream source
func NewPipeline(source feed.StreamSource, config Config, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{
		source: source,
		hub:    NewHub(config.SubscriberQueue),
		logger: logger,
		window: newWindow(config.BufferSize),
	}
}

// Start moves the pipeline from idle to running. Starting while already
// running is a no-op; starting an unconfigured source fails with a
// ConfigurationError and the pipeline stays idle.
func (p *Pipeline) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return nil
	}
	if !p.source.Configured() {
		return &ConfigurationError{Source: p.source.Name()}
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.queue = make(chan feed.LiveEvent, 256)
	queue := p.queue

	if err := p.source.Start(runCtx, func(event feed.LiveEvent) {
		select {
		case queue <- event:
		case <-runCtx.Done():
		}
	}); err != nil {
		cancel()
		p.cancel = nil
		p.done = nil
		p.queue = nil
		return fmt.Errorf("failed to start stream source: %w", err)
	}

	p.running = true
	go p.run(runCtx, queue, p.done)
	p.logger.Info("live pipeline started", "source", p.source.Name())
	return nil
}

// run is the single writer over the window and summary
func (p *Pipeline) run(ctx context.Context, queue chan feed.LiveEvent, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-queue:
			p.accept(event)
		}
	}
}

// accept normalizes one event, updates the window and summary, and
// broadcasts the delta
func (p *Pipeline) accept(event feed.LiveEvent) {
	if event.Text == "" {
		return
	}
	if len(event.Keywords) == 0 {
		event.Keywords = ExtractKeywords(event.Text)
	}

	p.mu.Lock()
	p.window.push(event)
	p.summary = p.window.summary()
	summary := p.summary
	running := p.running
	p.mu.Unlock()

	p.hub.Broadcast(Message{
		Type:    MessageEvent,
		Event:   &event,
		Summary: summary,
		Running: running,
	})
}

// Stop returns the pipeline to idle. It is idempotent, cancels any
// in-flight wait on the source, and keeps the last summary for Status.
func (p *Pipeline) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = false
	cancel, done := p.cancel, p.done
	p.cancel = nil
	p.done = nil
	p.mu.Unlock()

	cancel()
	err := p.source.Stop()
	<-done
	p.logger.Info("live pipeline stopped", "source", p.source.Name())
	return err
}

// Status reports the pipeline state and the latest rolling summary
func (p *Pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Status{
		Running:     p.running,
		Configured:  p.source.Configured(),
		TotalEvents: p.window.count,
		Summary:     p.summary,
	}
}

// Subscribe registers a consumer. Its first message is a bootstrap
// carrying the current window and summary; every accepted event after
// that arrives as an event delta. Holding p.mu across registration keeps
// the bootstrap consistent with the deltas: an event accepted after the
// snapshot is always delivered, either inside the bootstrap window or as
// its own delta.
func (p *Pipeline) Subscribe() *Subscriber {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hub.SubscribeWith(Message{
		Type:    MessageBootstrap,
		Events:  p.window.events(),
		Summary: p.summary,
		Running: p.running,
	})
}

// Unsubscribe removes a consumer; safe to call more than once
func (p *Pipeline) Unsubscribe(id string) {
	p.hub.Unsubscribe(id)
}

// DisasterKeywords is the lexicon used to tag live events that arrive
// without keywords
var DisasterKeywords = []string{
	"flood", "earthquake", "wildfire", "hurricane", "storm", "tornado",
	"fire", "tsunami", "landslide", "eruption", "explosion", "evacuation",
	"emergency", "collapse",
}

var disasterKeywordSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(DisasterKeywords))
	for _, kw := range DisasterKeywords {
		set[kw] = struct{}{}
	}
	return set
}()

// ExtractKeywords returns up to five distinct lexicon terms found in the
// text, in order of appearance
func ExtractKeywords(raw string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, tok := range text.Tokens(raw) {
		if _, ok := disasterKeywordSet[tok]; !ok {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
		if len(out) == 5 {
			break
		}
	}
	return out
}
