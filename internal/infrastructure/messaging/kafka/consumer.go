package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/ReactionLab/internal/config"
	"github.com/turtacn/ReactionLab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ReactionLab/pkg/errors"
	rtypes "github.com/turtacn/ReactionLab/pkg/types/reaction"
)

var ErrAlreadyRunning = errors.New(errors.ErrCodeMessagingError, "consumer already running")

// RecordedHandler processes one decoded reaction.recorded event.
type RecordedHandler func(ctx context.Context, ev *rtypes.RecordedEvent) error

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads reaction events for a consumer group.
type Consumer struct {
	reader     ReaderInterface
	logger     logging.Logger
	running    atomic.Bool
	maxRetries int
	backoff    time.Duration
	// failures counts messages dropped after retries or undecodable payloads.
	failures atomic.Int64
}

// NewConsumer joins cfg.GroupID on cfg.Topic, starting from the earliest
// offset when the group has none.
func NewConsumer(cfg config.KafkaConfig, log logging.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "kafka brokers required")
	}
	if cfg.GroupID == "" {
		return nil, errors.New(errors.ErrCodeValidation, "kafka group id required")
	}
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		MinBytes:    1,
		MaxBytes:    10 << 20,
		MaxWait:     time.Second,
		StartOffset: kafka.FirstOffset,
		Dialer:      &kafka.Dialer{Timeout: 10 * time.Second, DualStack: true},
	})
	return NewConsumerWithReader(r, log), nil
}

// NewConsumerWithReader wraps an existing reader.
func NewConsumerWithReader(r ReaderInterface, log logging.Logger) *Consumer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Consumer{
		reader:     r,
		logger:     log.Named("kafka"),
		maxRetries: 3,
		backoff:    200 * time.Millisecond,
	}
}

// Run fetches and dispatches events until ctx is cancelled.  Every message
// is committed once handled, retried out, or found undecodable, so a poison
// message never stalls the group.
func (c *Consumer) Run(ctx context.Context, handle RecordedHandler) error {
	if c.running.Swap(true) {
		return ErrAlreadyRunning
	}
	defer c.running.Store(false)

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("fetch failed", logging.Err(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		var ev rtypes.RecordedEvent
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			c.failures.Add(1)
			c.logger.Warn("undecodable event skipped",
				logging.Int64("offset", m.Offset), logging.Err(err))
		} else if err := c.dispatch(ctx, &ev, handle); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.failures.Add(1)
			c.logger.Error("event dropped after retries",
				logging.String("aggregate_id", ev.AggID),
				logging.Int64("offset", m.Offset),
				logging.Err(err))
		}

		// A handler may cancel ctx after its last message; commit it anyway.
		if err := c.reader.CommitMessages(context.WithoutCancel(ctx), m); err != nil {
			c.logger.Error("commit failed", logging.Err(err))
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, ev *rtypes.RecordedEvent, handle RecordedHandler) error {
	err := handle(ctx, ev)
	backoff := c.backoff
	for i := 0; err != nil && i < c.maxRetries; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		err = handle(ctx, ev)
	}
	return err
}

// Failures returns how many messages were skipped or dropped.
func (c *Consumer) Failures() int64 { return c.failures.Load() }

// Close closes the reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}

//Personal.AI order the ending
