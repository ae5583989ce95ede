// Package messaging provides a NATS client wrapper for the moderation
// service. It carries submission requests in, verdicts out, and the decided
// events consumed by the trust-update worker.
package messaging

import (
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NATS subject patterns used by the moderation service.
const (
	SubjectSubmit  = "moderation.submit"
	SubjectVerdict = "moderation.verdict" // + .<request_id>
	SubjectDecided = "moderation.decided"
)

// Client wraps the NATS connection with helper methods for the moderation
// subjects.
type Client struct {
	conn *nats.Conn
	log  *zap.Logger
	mu   sync.Mutex
	subs map[string]*nats.Subscription
}

// Config holds NATS connection settings.
type Config struct {
	URL           string
	Name          string
	ReconnectWait time.Duration
	MaxReconnects int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		URL:           "nats://localhost:4222",
		Name:          "threadkit-moderator",
		ReconnectWait: 2 * time.Second,
		MaxReconnects: -1, // infinite reconnects
	}
}

// NewClient connects to NATS with the given config and returns a ready
// client. It returns an error if the initial connection fails.
func NewClient(config Config, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}

	opts := []nats.Option{
		nats.Name(config.Name),
		nats.ReconnectWait(config.ReconnectWait),
		nats.MaxReconnects(config.MaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			log.Info("nats connection closed")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	log.Info("nats connected", zap.String("url", nc.ConnectedUrl()))

	return &Client{
		conn: nc,
		log:  log,
		subs: make(map[string]*nats.Subscription),
	}, nil
}

// SubscribeSubmit registers a handler for incoming submission requests.
// The subscription uses a queue group so multiple moderator instances share
// the load.
func (c *Client) SubscribeSubmit(handler func(data []byte)) error {
	sub, err := c.conn.QueueSubscribe(SubjectSubmit, "moderators", func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return fmt.Errorf("nats subscribe %s: %w", SubjectSubmit, err)
	}
	c.store(SubjectSubmit, sub)
	return nil
}

// PublishSubmit publishes a submission request.
func (c *Client) PublishSubmit(data []byte) error {
	return c.conn.Publish(SubjectSubmit, data)
}

// PublishVerdict publishes a verdict for a specific request.
func (c *Client) PublishVerdict(requestID string, data []byte) error {
	return c.conn.Publish(SubjectVerdict+"."+requestID, data)
}

// SubscribeVerdict subscribes to the verdict for a specific request.
func (c *Client) SubscribeVerdict(requestID string, handler func(data []byte)) error {
	subject := SubjectVerdict + "." + requestID
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return fmt.Errorf("nats subscribe %s: %w", subject, err)
	}
	c.store(subject, sub)
	return nil
}

// PublishDecided publishes a post-decision event for the trust-update
// worker.
func (c *Client) PublishDecided(data []byte) error {
	return c.conn.Publish(SubjectDecided, data)
}

// SubscribeDecided subscribes to decided events. Queue-grouped so exactly
// one worker instance applies each event.
func (c *Client) SubscribeDecided(handler func(data []byte)) error {
	sub, err := c.conn.QueueSubscribe(SubjectDecided, "trust-workers", func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return fmt.Errorf("nats subscribe %s: %w", SubjectDecided, err)
	}
	c.store(SubjectDecided, sub)
	return nil
}

// Close drains all active subscriptions and closes the NATS connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for subject, sub := range c.subs {
		if err := sub.Drain(); err != nil {
			c.log.Warn("nats drain failed", zap.String("subject", subject), zap.Error(err))
		}
	}
	c.subs = make(map[string]*nats.Subscription)

	if err := c.conn.Drain(); err != nil {
		c.log.Warn("nats connection drain failed", zap.Error(err))
	}
	c.log.Info("nats client closed")
}

func (c *Client) store(subject string, sub *nats.Subscription) {
	c.mu.Lock()
	c.subs[subject] = sub
	c.mu.Unlock()
}
