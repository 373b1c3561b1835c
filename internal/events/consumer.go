package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"crm-backend/internal/storage"
)

// ActivityConsumer drains the events stream into each organization's
// activity feed.
type ActivityConsumer struct {
	js     nats.JetStreamContext
	store  *storage.Storage
	logger *zap.Logger
	sub    *nats.Subscription
}

func NewActivityConsumer(js nats.JetStreamContext, store *storage.Storage, logger *zap.Logger) *ActivityConsumer {
	return &ActivityConsumer{js: js, store: store, logger: logger}
}

// Start begins consuming events from JetStream.
func (c *ActivityConsumer) Start(ctx context.Context) error {
	sub, err := c.js.PullSubscribe(
		streamSubjects,
		"activity-writer",
		nats.ManualAck(),
		nats.AckWait(30*time.Second),
		nats.MaxDeliver(3),
		nats.MaxAckPending(1000),
	)
	if err != nil {
		return err
	}
	c.sub = sub

	go c.consumeLoop(ctx)
	c.logger.Info("activity consumer started")
	return nil
}

func (c *ActivityConsumer) Stop() error {
	if c.sub == nil {
		return nil
	}
	return c.sub.Unsubscribe()
}

func (c *ActivityConsumer) consumeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msgs, err := c.sub.Fetch(64, nats.MaxWait(5*time.Second))
		if err != nil {
			if err != nats.ErrTimeout && ctx.Err() == nil {
				c.logger.Warn("fetch events", zap.Error(err))
			}
			continue
		}

		for _, msg := range msgs {
			if err := c.handleMessage(ctx, msg); err != nil {
				c.logger.Warn("handle event", zap.String("subject", msg.Subject), zap.Error(err))
				_ = msg.Nak()
				continue
			}
			_ = msg.Ack()
		}
	}
}

// Subjects look like crm.<orgID>.events.<kind...>; the payload is the
// msgpack event, stored as JSON in the feed.
func (c *ActivityConsumer) handleMessage(ctx context.Context, msg *nats.Msg) error {
	parts := strings.Split(msg.Subject, ".")
	if len(parts) < 4 {
		return nil
	}
	orgID := parts[1]
	kind := strings.Join(parts[3:], ".")

	var event map[string]any
	if err := msgpack.Unmarshal(msg.Data, &event); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return c.store.InsertActivity(ctx, orgID, kind, payload)
}
