package kafka

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmhernandez2525/patent-intelligence/internal/config"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

// stubReader serves a fixed message list, then blocks until cancellation.
type stubReader struct {
	mu        sync.Mutex
	messages  []kafka.Message
	committed []int64
	closed    bool
}

func (r *stubReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.messages) > 0 {
		msg := r.messages[0]
		r.messages = r.messages[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, io.EOF
}

func (r *stubReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *stubReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *stubReader) committedOffsets() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

func message(t *testing.T, offset int64, event PatentChangeEvent) kafka.Message {
	t.Helper()
	raw, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Offset: offset, Value: raw}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestNewConsumerValidation(t *testing.T) {
	t.Parallel()

	handler := func(context.Context, PatentChangeEvent) error { return nil }
	log := logging.NewNopLogger()

	_, err := NewConsumer(config.KafkaConfig{Topic: "t", GroupID: "g"}, handler, log)
	assert.True(t, errors.IsValidation(err))

	_, err = NewConsumer(config.KafkaConfig{Brokers: []string{"b:9092"}, GroupID: "g"}, handler, log)
	assert.True(t, errors.IsValidation(err))

	_, err = NewConsumer(config.KafkaConfig{Brokers: []string{"b:9092"}, Topic: "t", GroupID: "g"}, nil, log)
	assert.True(t, errors.IsValidation(err))
}

func TestConsumerProcessesAndCommits(t *testing.T) {
	t.Parallel()

	reader := &stubReader{messages: []kafka.Message{
		message(t, 0, PatentChangeEvent{PatentNumber: "US-1000000-A1", Action: ActionIngested}),
		message(t, 1, PatentChangeEvent{PatentNumber: "US-2000000-B2", Action: ActionDeleted}),
	}}

	var mu sync.Mutex
	var seen []string
	consumer := NewConsumerWithReader(reader, func(_ context.Context, ev PatentChangeEvent) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, ev.PatentNumber+":"+ev.Action)
		return nil
	}, logging.NewNopLogger())

	require.NoError(t, consumer.Start(context.Background()))
	waitFor(t, func() bool { return len(reader.committedOffsets()) == 2 })
	require.NoError(t, consumer.Stop())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"US-1000000-A1:ingested", "US-2000000-B2:deleted"}, seen)
	assert.Equal(t, []int64{0, 1}, reader.committedOffsets())
	assert.True(t, reader.closed)
}

func TestConsumerSkipsPoisonMessages(t *testing.T) {
	t.Parallel()

	reader := &stubReader{messages: []kafka.Message{
		{Offset: 0, Value: []byte("not json")},
		message(t, 1, PatentChangeEvent{PatentNumber: "US-1000000-A1", Action: "exploded"}),
		message(t, 2, PatentChangeEvent{PatentNumber: "US-1000000-A1", Action: ActionUpdated}),
	}}

	var mu sync.Mutex
	count := 0
	consumer := NewConsumerWithReader(reader, func(context.Context, PatentChangeEvent) error {
		mu.Lock()
		defer mu.Unlock()
		count++
		return nil
	}, logging.NewNopLogger())

	require.NoError(t, consumer.Start(context.Background()))
	waitFor(t, func() bool { return len(reader.committedOffsets()) == 3 })
	require.NoError(t, consumer.Stop())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, count)
}

func TestConsumerLeavesFailedMessagesUncommitted(t *testing.T) {
	t.Parallel()

	reader := &stubReader{messages: []kafka.Message{
		message(t, 0, PatentChangeEvent{PatentNumber: "US-1000000-A1", Action: ActionIngested}),
	}}

	consumer := NewConsumerWithReader(reader, func(context.Context, PatentChangeEvent) error {
		return errors.Internal("downstream unavailable")
	}, logging.NewNopLogger())

	require.NoError(t, consumer.Start(context.Background()))
	waitFor(t, func() bool {
		_, failed := consumer.Stats()
		return failed == 1
	})
	require.NoError(t, consumer.Stop())

	assert.Empty(t, reader.committedOffsets())
}

func TestConsumerStartTwice(t *testing.T) {
	t.Parallel()

	reader := &stubReader{}
	consumer := NewConsumerWithReader(reader, func(context.Context, PatentChangeEvent) error {
		return nil
	}, logging.NewNopLogger())

	require.NoError(t, consumer.Start(context.Background()))
	assert.ErrorIs(t, consumer.Start(context.Background()), ErrAlreadyRunning)
	require.NoError(t, consumer.Stop())
}
