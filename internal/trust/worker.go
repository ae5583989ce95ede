package trust

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/threadkit/comments/internal/metrics"
	"github.com/threadkit/comments/internal/moderation"
)

// Subscriber is the messaging contract the worker needs: a subscription to
// decided events delivering raw payloads.
type Subscriber interface {
	SubscribeDecided(handler func(data []byte)) error
}

// Worker consumes ModerationDecided events and applies them to trust
// records. Running the update here, off the decision path, keeps the
// moderation response latency independent of Postgres write latency; the
// trust score is eventually consistent with respect to the comment that
// triggered it, which is acceptable because trust only influences the next
// decision.
type Worker struct {
	service *Service
	log     *zap.Logger
	timeout time.Duration
}

// NewWorker creates a trust-update worker over the given service.
func NewWorker(service *Service, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{
		service: service,
		log:     log,
		timeout: 5 * time.Second,
	}
}

// Start subscribes to decided events. Update failures are logged and
// counted, never retried: a single missed counter update self-corrects as
// later decisions arrive.
func (w *Worker) Start(sub Subscriber) error {
	return sub.SubscribeDecided(func(data []byte) {
		var event moderation.DecidedEvent
		if err := json.Unmarshal(data, &event); err != nil {
			w.log.Warn("bad decided event payload", zap.Error(err))
			return
		}
		if event.UserID == "" {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		defer cancel()

		if err := w.service.RecordOutcome(ctx, event.UserID, event.Approved); err != nil {
			metrics.TrustUpdateFailures.Inc()
			w.log.Error("trust update failed",
				zap.Error(err),
				zap.String("user_id", event.UserID),
				zap.String("event_id", event.EventID))
			return
		}
		w.log.Debug("trust updated",
			zap.String("user_id", event.UserID),
			zap.Bool("approved", event.Approved))
	})
}
