package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rtypes "github.com/turtacn/ReactionLab/pkg/types/reaction"
)

// mockKafkaReader serves queued messages, then blocks until cancelled.
type mockKafkaReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
}

func (m *mockKafkaReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	m.mu.Lock()
	if len(m.queue) > 0 {
		msg := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()
		return msg, nil
	}
	m.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (m *mockKafkaReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range msgs {
		m.committed = append(m.committed, msg.Offset)
	}
	return nil
}

func (m *mockKafkaReader) Close() error { return nil }

func (m *mockKafkaReader) commits() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.committed...)
}

func eventMessage(t *testing.T, offset int64, ev *rtypes.RecordedEvent) kafka.Message {
	t.Helper()
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	return kafka.Message{Offset: offset, Value: b}
}

func runUntil(t *testing.T, c *Consumer, r *mockKafkaReader, want int, handle RecordedHandler) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, handle) }()

	assert.Eventually(t, func() bool { return len(r.commits()) >= want }, 2*time.Second, 5*time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}

func TestConsumer_DispatchesAndCommits(t *testing.T) {
	r := &mockKafkaReader{queue: []kafka.Message{
		eventMessage(t, 1, newRecordedEvent()),
		eventMessage(t, 2, newRecordedEvent()),
	}}
	c := NewConsumerWithReader(r, nil)

	var mu sync.Mutex
	var seen []string
	runUntil(t, c, r, 2, func(_ context.Context, ev *rtypes.RecordedEvent) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, ev.Record.Product)
		return nil
	})

	assert.Equal(t, []int64{1, 2}, r.commits())
	assert.Equal(t, []string{"CCBr", "CCBr"}, seen)
	assert.Zero(t, c.Failures())
}

func TestConsumer_SkipsUndecodable(t *testing.T) {
	r := &mockKafkaReader{queue: []kafka.Message{
		{Offset: 5, Value: []byte("{broken")},
		eventMessage(t, 6, newRecordedEvent()),
	}}
	c := NewConsumerWithReader(r, nil)

	calls := 0
	runUntil(t, c, r, 2, func(context.Context, *rtypes.RecordedEvent) error {
		calls++
		return nil
	})

	assert.Equal(t, []int64{5, 6}, r.commits())
	assert.Equal(t, 1, calls)
	assert.Equal(t, int64(1), c.Failures())
}

func TestConsumer_RetriesThenDrops(t *testing.T) {
	r := &mockKafkaReader{queue: []kafka.Message{eventMessage(t, 9, newRecordedEvent())}}
	c := NewConsumerWithReader(r, nil)
	c.backoff = time.Millisecond

	calls := 0
	runUntil(t, c, r, 1, func(context.Context, *rtypes.RecordedEvent) error {
		calls++
		return errors.New("downstream unavailable")
	})

	assert.Equal(t, 1+c.maxRetries, calls)
	assert.Equal(t, int64(1), c.Failures())
}

func TestConsumer_AlreadyRunning(t *testing.T) {
	c := NewConsumerWithReader(&mockKafkaReader{}, nil)
	c.running.Store(true)
	assert.Equal(t, ErrAlreadyRunning, c.Run(context.Background(), nil))
}

//Personal.AI order the ending
