package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ReactionLab/internal/config"
	pkgerrors "github.com/turtacn/ReactionLab/pkg/errors"
	"github.com/turtacn/ReactionLab/pkg/types/common"
	rtypes "github.com/turtacn/ReactionLab/pkg/types/reaction"
)

type mockKafkaWriter struct {
	writeFunc func(ctx context.Context, msgs ...kafka.Message) error
	closes    int
}

func (m *mockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if m.writeFunc != nil {
		return m.writeFunc(ctx, msgs...)
	}
	return nil
}

func (m *mockKafkaWriter) Close() error {
	m.closes++
	return nil
}

func newRecordedEvent() *rtypes.RecordedEvent {
	return &rtypes.RecordedEvent{
		BaseEvent: common.NewBaseEvent(rtypes.EventRecorded, "7"),
		Record: rtypes.RecordDTO{
			ID:           7,
			Reactant:     "ethanol",
			Catalyst:     "hbr",
			ReactionType: "halogenation",
			Product:      "CCBr",
		},
	}
}

func TestNewProducer_Validation(t *testing.T) {
	_, err := NewProducer(config.KafkaConfig{Topic: "t"}, nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeValidation))

	_, err = NewProducer(config.KafkaConfig{Brokers: []string{"localhost:9092"}}, nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeValidation))

	p, err := NewProducer(config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "reaction.recorded"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "reaction.recorded", p.Topic())
	assert.NoError(t, p.Close())
}

func TestPublishRecorded_Success(t *testing.T) {
	var captured []kafka.Message
	w := &mockKafkaWriter{writeFunc: func(_ context.Context, msgs ...kafka.Message) error {
		captured = msgs
		return nil
	}}
	p := NewProducerWithWriter(w, "reaction.recorded", nil)

	ev := newRecordedEvent()
	require.NoError(t, p.PublishRecorded(context.Background(), ev))
	require.Len(t, captured, 1)

	msg := captured[0]
	assert.Equal(t, "7", string(msg.Key))
	assert.Empty(t, msg.Topic)
	assert.Contains(t, msg.Headers, kafka.Header{Key: "event_type", Value: []byte(rtypes.EventRecorded)})

	var decoded rtypes.RecordedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, ev.Record, decoded.Record)
	assert.Equal(t, ev.ID, decoded.ID)

	sent, failed := p.Metrics()
	assert.Equal(t, int64(1), sent)
	assert.Zero(t, failed)
}

func TestPublish_WriteFailure(t *testing.T) {
	w := &mockKafkaWriter{writeFunc: func(context.Context, ...kafka.Message) error {
		return errors.New("leader not available")
	}}
	p := NewProducerWithWriter(w, "reaction.recorded", nil)

	err := p.PublishRecorded(context.Background(), newRecordedEvent())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeMessagingError))
	_, failed := p.Metrics()
	assert.Equal(t, int64(1), failed)
}

func TestPublish_UnencodableEvent(t *testing.T) {
	p := NewProducerWithWriter(&mockKafkaWriter{}, "t", nil)
	err := p.Publish(context.Background(), "k", "x", map[string]interface{}{"c": make(chan int)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeSerialization))
}

func TestClose_Idempotent(t *testing.T) {
	w := &mockKafkaWriter{}
	p := NewProducerWithWriter(w, "t", nil)

	assert.NoError(t, p.Close())
	assert.NoError(t, p.Close())
	assert.Equal(t, 1, w.closes)
	assert.Equal(t, ErrProducerClosed, p.PublishRecorded(context.Background(), newRecordedEvent()))
}

//Personal.AI order the ending
