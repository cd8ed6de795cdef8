package live

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats.go"

	"crisisnet/internal/domain/feed"
)

// NATSSourceConfig holds the connection settings for a NATS-backed
// stream source
type NATSSourceConfig struct {
	URL            string
	Subject        string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// NATSSource consumes LiveEvent JSON from a NATS subject and implements
// feed.StreamSource. The source is unconfigured when no URL is set.
type NATSSource struct {
	config NATSSourceConfig
	logger *log.Logger

	mu   sync.Mutex
	conn *nats.Conn
	sub  *nats.Subscription
}

// NewNATSSource creates an unconnected source; the connection is
// established by Start
func NewNATSSource(config NATSSourceConfig, logger *log.Logger) *NATSSource {
	if logger == nil {
		logger = log.Default()
	}
	return &NATSSource{config: config, logger: logger}
}

// Name identifies the source in logs and errors
func (s *NATSSource) Name() string { return "nats" }

// Configured reports whether a server URL is set
func (s *NATSSource) Configured() bool { return s.config.URL != "" }

// Start connects to the server and subscribes to the event subject.
// Each message is decoded as a LiveEvent and dispatched to the handler;
// messages that fail to decode are logged and dropped.
func (s *NATSSource) Start(ctx context.Context, handler feed.EventHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return nil
	}
	if !s.Configured() {
		return &ConfigurationError{Source: s.Name()}
	}

	opts := []nats.Option{
		nats.Name("crisisnet-live"),
		nats.MaxReconnects(s.config.MaxReconnects),
		nats.ReconnectWait(s.config.ReconnectWait),
		nats.Timeout(s.config.ConnectTimeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			s.logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			s.logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	}

	conn, err := nats.Connect(s.config.URL, opts...)
	if err != nil {
		return fmt.Errorf("failed to connect to nats: %w", err)
	}

	sub, err := conn.Subscribe(s.config.Subject, func(msg *nats.Msg) {
		if ctx.Err() != nil {
			return
		}
		var event feed.LiveEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			s.logger.Warn("dropping undecodable event", "subject", msg.Subject, "error", err)
			return
		}
		handler(event)
	})
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to subscribe to %s: %w", s.config.Subject, err)
	}

	s.conn = conn
	s.sub = sub
	s.logger.Info("nats source started", "url", s.config.URL, "subject", s.config.Subject)
	return nil
}

// Stop unsubscribes and drains the connection; safe to call when the
// source never started
func (s *NATSSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}

	var err error
	if s.sub != nil {
		err = s.sub.Unsubscribe()
		s.sub = nil
	}
	if drainErr := s.conn.Drain(); drainErr != nil && err == nil {
		err = drainErr
	}
	s.conn = nil
	return err
}
