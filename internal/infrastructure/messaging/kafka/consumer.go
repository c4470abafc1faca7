package kafka

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/dmhernandez2525/patent-intelligence/internal/config"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

// ErrAlreadyRunning is returned when Start is called twice.
var ErrAlreadyRunning = errors.New(errors.ErrCodeConflict, "consumer already running")

// Handler processes one patent-change event.  A returned error leaves the
// message uncommitted so it is redelivered.
type Handler func(ctx context.Context, event PatentChangeEvent) error

// ReaderInterface abstracts kafka.Reader for tests.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer runs the patent-change consume loop.
type Consumer struct {
	reader  ReaderInterface
	handler Handler
	log     logging.Logger

	running  atomic.Bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	consumed atomic.Int64
	failed   atomic.Int64
}

// NewConsumer builds a consumer for the configured patent-change topic.
func NewConsumer(cfg config.KafkaConfig, handler Handler, log logging.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.Validation("kafka brokers are required")
	}
	if cfg.Topic == "" {
		return nil, errors.Validation("kafka topic is required")
	}
	if cfg.GroupID == "" {
		return nil, errors.Validation("kafka group_id is required")
	}
	if handler == nil {
		return nil, errors.Validation("handler is required")
	}

	minBytes := cfg.MinBytes
	if minBytes == 0 {
		minBytes = 1
	}
	maxBytes := cfg.MaxBytes
	if maxBytes == 0 {
		maxBytes = 10 << 20
	}
	startOffset := kafka.FirstOffset
	if cfg.AutoOffsetReset == "latest" {
		startOffset = kafka.LastOffset
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		MinBytes:    minBytes,
		MaxBytes:    maxBytes,
		StartOffset: startOffset,
	})

	return &Consumer{reader: reader, handler: handler, log: log}, nil
}

// NewConsumerWithReader wraps an existing reader, used by tests.
func NewConsumerWithReader(reader ReaderInterface, handler Handler, log logging.Logger) *Consumer {
	return &Consumer{reader: reader, handler: handler, log: log}
}

// Start launches the consume loop.
func (c *Consumer) Start(ctx context.Context) error {
	if c.running.Swap(true) {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	go c.loop(ctx)

	c.log.Info("kafka consumer started")
	return nil
}

func (c *Consumer) loop(ctx context.Context) {
	defer c.wg.Done()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Error("failed to fetch message", logging.Err(err))
			time.Sleep(time.Second)
			continue
		}

		c.consumed.Add(1)
		if err := c.process(ctx, msg); err != nil {
			c.failed.Add(1)
			c.log.Error("failed to process patent change",
				logging.Int64("offset", msg.Offset),
				logging.Err(err),
			)
			// leave uncommitted; the message is redelivered
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.log.Error("failed to commit offset", logging.Err(err))
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg kafka.Message) error {
	var event PatentChangeEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		// poison message, skip it rather than block the partition
		c.log.Warn("skipping malformed patent change event",
			logging.Int64("offset", msg.Offset),
			logging.Err(err),
		)
		return nil
	}
	if !event.Valid() {
		c.log.Warn("skipping invalid patent change event",
			logging.String("patent_number", event.PatentNumber),
			logging.String("action", event.Action),
		)
		return nil
	}
	return c.handler(ctx, event)
}

// Stats returns processed and failed message counts.
func (c *Consumer) Stats() (consumed, failed int64) {
	return c.consumed.Load(), c.failed.Load()
}

// Stop cancels the loop, waits for it to drain, and closes the reader.
func (c *Consumer) Stop() error {
	if !c.running.Swap(false) {
		return nil
	}
	c.cancel()
	c.wg.Wait()
	err := c.reader.Close()
	if err != nil {
		c.log.Error("failed to close kafka reader", logging.Err(err))
		return err
	}
	c.log.Info("kafka consumer stopped")
	return nil
}
