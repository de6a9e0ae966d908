package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog/log"

	dom "github.com/bookingcontrol/booker-dispatch-svc/internal/domain/dispatch"
	"github.com/bookingcontrol/booker-dispatch-svc/internal/infrastructure/metrics"
)

// AsyncProducer is the subset of the infrastructure producer the
// publisher uses.
type AsyncProducer interface {
	Input() chan<- *sarama.ProducerMessage
	Successes() <-chan *sarama.ProducerMessage
	Errors() <-chan *sarama.ProducerError
}

// Publisher builds wire payloads and submits them to Kafka without
// blocking the caller. Delivery outcomes arrive on the producer's
// ack channels and are pumped back onto Delivery handles and the log.
type Publisher struct {
	producer         AsyncProducer
	applicationTopic string
	batchTopic       string
	// enqueueTimeout bounds how long a submission may wait for the
	// producer's input queue. Zero means wait as long as ctx allows.
	enqueueTimeout time.Duration
}

func NewPublisher(producer AsyncProducer, applicationTopic, batchTopic string, enqueueTimeout time.Duration) *Publisher {
	p := &Publisher{
		producer:         producer,
		applicationTopic: applicationTopic,
		batchTopic:       batchTopic,
		enqueueTimeout:   enqueueTimeout,
	}
	go p.pumpSuccesses()
	go p.pumpErrors()
	return p
}

// PublishApplication submits one application message with key = event
// id and an explicit partition. Returns once the message is enqueued.
func (p *Publisher) PublishApplication(ctx context.Context, msg *dom.EventMessage, partition int32) (*dom.Delivery, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event message: %w", err)
	}

	return p.enqueue(ctx, &sarama.ProducerMessage{
		Topic:     p.applicationTopic,
		Key:       sarama.StringEncoder(strconv.FormatInt(msg.EventID, 10)),
		Value:     sarama.ByteEncoder(data),
		Partition: partition,
	})
}

// PublishBatch submits a batch message keyed by event id; partition
// selection is left to the broker's key-hash routing.
func (p *Publisher) PublishBatch(ctx context.Context, msg *dom.BatchMessage) (*dom.Delivery, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal batch message: %w", err)
	}

	return p.enqueue(ctx, &sarama.ProducerMessage{
		Topic: p.batchTopic,
		Key:   sarama.StringEncoder(strconv.FormatInt(msg.EventID, 10)),
		Value: sarama.ByteEncoder(data),
	})
}

func (p *Publisher) enqueue(ctx context.Context, msg *sarama.ProducerMessage) (*dom.Delivery, error) {
	delivery := dom.NewDelivery()
	msg.Metadata = delivery

	if p.enqueueTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.enqueueTimeout)
		defer cancel()
	}

	select {
	case p.producer.Input() <- msg:
		return delivery, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// pumpSuccesses runs until the producer closes its ack channel.
func (p *Publisher) pumpSuccesses() {
	for msg := range p.producer.Successes() {
		metrics.MessagesPublished.WithLabelValues(msg.Topic).Inc()
		log.Debug().
			Str("topic", msg.Topic).
			Int32("partition", msg.Partition).
			Int64("offset", msg.Offset).
			Msg("Message delivered")

		if delivery, ok := msg.Metadata.(*dom.Delivery); ok {
			delivery.Complete(dom.PublishOutcome{
				Topic:     msg.Topic,
				Partition: msg.Partition,
				Offset:    msg.Offset,
			})
		}
	}
}

// pumpErrors logs delivery failures; nothing is retried or escalated
// here, the business response was already sent.
func (p *Publisher) pumpErrors() {
	for producerErr := range p.producer.Errors() {
		metrics.PublishFailures.WithLabelValues(producerErr.Msg.Topic).Inc()
		log.Error().
			Err(producerErr.Err).
			Str("topic", producerErr.Msg.Topic).
			Msg("Kafka delivery failed")

		if delivery, ok := producerErr.Msg.Metadata.(*dom.Delivery); ok {
			delivery.Complete(dom.PublishOutcome{
				Topic:     producerErr.Msg.Topic,
				Partition: producerErr.Msg.Partition,
				Err:       producerErr.Err,
			})
		}
	}
}
