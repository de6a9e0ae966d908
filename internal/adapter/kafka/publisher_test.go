package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dom "github.com/bookingcontrol/booker-dispatch-svc/internal/domain/dispatch"
)

// fakeProducer captures enqueued messages and lets tests drive the
// ack channels by hand.
type fakeProducer struct {
	input     chan *sarama.ProducerMessage
	successes chan *sarama.ProducerMessage
	errs      chan *sarama.ProducerError
}

func newFakeProducer() *fakeProducer {
	return &fakeProducer{
		input:     make(chan *sarama.ProducerMessage, 8),
		successes: make(chan *sarama.ProducerMessage, 8),
		errs:      make(chan *sarama.ProducerError, 8),
	}
}

func (f *fakeProducer) Input() chan<- *sarama.ProducerMessage     { return f.input }
func (f *fakeProducer) Successes() <-chan *sarama.ProducerMessage { return f.successes }
func (f *fakeProducer) Errors() <-chan *sarama.ProducerError      { return f.errs }

func (f *fakeProducer) captured(t *testing.T) *sarama.ProducerMessage {
	t.Helper()
	select {
	case msg := <-f.input:
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message enqueued")
		return nil
	}
}

func TestPublisher_PublishApplication_MessageShape(t *testing.T) {
	producer := newFakeProducer()
	publisher := NewPublisher(producer, "book-4", "book", time.Second)

	msg := &dom.EventMessage{
		EventID:         17,
		UserID:          "user-1",
		ApplicationDate: "2026-08-25",
		ApplicationTime: "09:07",
	}
	delivery, err := publisher.PublishApplication(context.Background(), msg, 6)
	require.NoError(t, err)
	require.NotNil(t, delivery)

	captured := producer.captured(t)
	assert.Equal(t, "book-4", captured.Topic)
	assert.Equal(t, int32(6), captured.Partition)

	key, err := captured.Key.Encode()
	require.NoError(t, err)
	assert.Equal(t, "17", string(key))

	value, err := captured.Value.Encode()
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(value, &payload))
	assert.Equal(t, float64(17), payload["eventId"])
	assert.Equal(t, "user-1", payload["userId"])
	assert.Equal(t, "2026-08-25", payload["applicationDate"])
	assert.Equal(t, "09:07", payload["applicationTime"])
}

func TestPublisher_PublishBatch_NoExplicitPartition(t *testing.T) {
	producer := newFakeProducer()
	publisher := NewPublisher(producer, "book-4", "book", time.Second)

	batch := &dom.BatchMessage{
		EventID:   12,
		UserID:    "user-9",
		EventDate: "2026-08-25",
		EventTime: "09:07",
		Quantity:  3,
	}
	_, err := publisher.PublishBatch(context.Background(), batch)
	require.NoError(t, err)

	captured := producer.captured(t)
	assert.Equal(t, "book", captured.Topic)
	// Partition left at zero value: routing is the broker's key-hash.
	assert.Equal(t, int32(0), captured.Partition)

	key, err := captured.Key.Encode()
	require.NoError(t, err)
	assert.Equal(t, "12", string(key))

	value, err := captured.Value.Encode()
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(value, &payload))
	assert.Equal(t, "user-9", payload["userId"])
	assert.Equal(t, "2026-08-25", payload["eventDate"])
	assert.Equal(t, "09:07", payload["eventTime"])
	assert.Equal(t, float64(3), payload["quantity"])
}

func TestPublisher_DeliveryAck(t *testing.T) {
	producer := newFakeProducer()
	publisher := NewPublisher(producer, "book-4", "book", time.Second)

	delivery, err := publisher.PublishApplication(context.Background(), &dom.EventMessage{EventID: 1, UserID: "u"}, 0)
	require.NoError(t, err)

	captured := producer.captured(t)
	captured.Offset = 42
	producer.successes <- captured

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	outcome, err := delivery.Wait(ctx)
	require.NoError(t, err)
	assert.NoError(t, outcome.Err)
	assert.Equal(t, "book-4", outcome.Topic)
	assert.Equal(t, int64(42), outcome.Offset)
}

func TestPublisher_DeliveryFailure(t *testing.T) {
	producer := newFakeProducer()
	publisher := NewPublisher(producer, "book-4", "book", time.Second)

	delivery, err := publisher.PublishApplication(context.Background(), &dom.EventMessage{EventID: 1, UserID: "u"}, 0)
	require.NoError(t, err)

	captured := producer.captured(t)
	producer.errs <- &sarama.ProducerError{Msg: captured, Err: sarama.ErrOutOfBrokers}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	outcome, err := delivery.Wait(ctx)
	require.NoError(t, err)
	assert.ErrorIs(t, outcome.Err, sarama.ErrOutOfBrokers)
}

func TestPublisher_EnqueueRespectsContext(t *testing.T) {
	// Unbuffered input: the enqueue cannot proceed, the context must win.
	producer := &fakeProducer{
		input:     make(chan *sarama.ProducerMessage),
		successes: make(chan *sarama.ProducerMessage),
		errs:      make(chan *sarama.ProducerError),
	}
	publisher := NewPublisher(producer, "book-4", "book", time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := publisher.PublishApplication(ctx, &dom.EventMessage{EventID: 1, UserID: "u"}, 0)
	assert.True(t, errors.Is(err, context.Canceled))
}
