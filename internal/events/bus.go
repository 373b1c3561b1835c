package events

import (
	"fmt"
	"os"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	streamName     = "CRM_EVENTS"
	streamSubjects = "crm.*.events.>"
)

type Bus struct {
	nc *nats.Conn
	js nats.JetStreamContext
}

// Connect establishes the NATS connection and ensures the events stream.
func Connect(logger *zap.Logger) (*Bus, error) {
	url := os.Getenv("NATS_URL")
	if url == "" {
		url = nats.DefaultURL
	}

	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(1 * time.Second),
		nats.ReconnectJitter(500*time.Millisecond, 2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("nats connection closed")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			logger.Error("nats error", zap.Error(err))
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	logger.Info("connected to nats", zap.String("url", nc.ConnectedUrl()))

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	if err := ensureStream(js, logger); err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure stream: %w", err)
	}

	return &Bus{nc: nc, js: js}, nil
}

// Close drains and closes the NATS connection.
func (b *Bus) Close() error {
	return b.nc.Drain()
}

// JS returns the JetStream context.
func (b *Bus) JS() nats.JetStreamContext {
	return b.js
}

func ensureStream(js nats.JetStreamContext, logger *zap.Logger) error {
	_, err := js.StreamInfo(streamName)
	if err == nats.ErrStreamNotFound {
		_, err = js.AddStream(&nats.StreamConfig{
			Name:       streamName,
			Subjects:   []string{streamSubjects},
			Retention:  nats.LimitsPolicy,
			MaxAge:     72 * time.Hour,
			MaxMsgSize: 1 * 1024 * 1024,
			Discard:    nats.DiscardOld,
			Storage:    nats.FileStorage,
		})
		if err != nil {
			return fmt.Errorf("create stream %s: %w", streamName, err)
		}
		logger.Info("created jetstream stream", zap.String("stream", streamName))
		return nil
	}
	return err
}
