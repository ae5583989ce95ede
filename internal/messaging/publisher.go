package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/threadkit/comments/internal/moderation"
)

// DecidedPublisher adapts the NATS client to the engine's EventPublisher
// contract.
type DecidedPublisher struct {
	client *Client
}

// NewDecidedPublisher wraps a client for decided-event publishing.
func NewDecidedPublisher(client *Client) *DecidedPublisher {
	return &DecidedPublisher{client: client}
}

// PublishDecided marshals and publishes a post-decision event.
func (p *DecidedPublisher) PublishDecided(event moderation.DecidedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("messaging: marshal decided event: %w", err)
	}
	return p.client.PublishDecided(data)
}
