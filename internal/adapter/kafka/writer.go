package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/couchcryptid/ice-climatology-map/internal/config"
	"github.com/couchcryptid/ice-climatology-map/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// RetryPolicy bounds how long Publish keeps retrying a failed write.
type RetryPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxRetries      uint64
}

// DefaultRetryPolicy retries three times, starting at 200ms and capping at 2s.
var DefaultRetryPolicy = RetryPolicy{
	InitialInterval: 200 * time.Millisecond,
	MaxInterval:     2 * time.Second,
	MaxRetries:      3,
}

// Writer produces artifact events to a Kafka topic.
// It implements pipeline.EventPublisher.
type Writer struct {
	writer messageWriter
	retry  RetryPolicy
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured artifact topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, retry: DefaultRetryPolicy, logger: logger}
}

// Publish serializes and writes one event, retrying transient failures with
// exponential backoff until the policy or ctx gives up.
func (w *Writer) Publish(ctx context.Context, event domain.ArtifactEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = w.retry.InitialInterval
	bo.MaxInterval = w.retry.MaxInterval
	bo.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, w.retry.MaxRetries), ctx)
	notify := func(err error, next time.Duration) {
		w.logger.Warn("kafka write failed, retrying", "event_id", event.ID, "error", err, "retry_in", next)
	}
	if err := backoff.RetryNotify(func() error { return w.writer.WriteMessages(ctx, msg) }, policy, notify); err != nil {
		return fmt.Errorf("publish artifact event %s: %w", event.ID, err)
	}
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an ArtifactEvent into a Kafka message keyed by
// the artifact's selection so events for one map land on one partition.
func serializeToMessage(event domain.ArtifactEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize artifact event: %w", err)
	}
	sel := domain.Selection{Mode: event.Mode, Variable: event.Variable, Date: event.Date}
	return kafkago.Message{
		Key:   []byte(sel.Key()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_id", Value: []byte(event.ID)},
			{Key: "mode", Value: []byte(event.Mode)},
			{Key: "generated_at", Value: []byte(event.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
