package kafka

import (
	"fmt"

	"github.com/IBM/sarama"
)

// Producer wraps a sarama AsyncProducer. Submissions are enqueued and
// acknowledged on the Successes/Errors channels, never on the caller's
// goroutine.
type Producer struct {
	producer sarama.AsyncProducer
}

// NewAsyncProducer connects to the brokers. Messages for manualTopic
// carry an explicit partition chosen by the dispatch core; every other
// topic falls back to key-hash routing.
func NewAsyncProducer(brokers []string, manualTopic string) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Return.Errors = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Partitioner = PartitionerFor(manualTopic)

	producer, err := sarama.NewAsyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	return &Producer{producer: producer}, nil
}

// PartitionerFor selects the manual partitioner for manualTopic and
// sarama's key-hash partitioner for everything else.
func PartitionerFor(manualTopic string) sarama.PartitionerConstructor {
	return func(topic string) sarama.Partitioner {
		if topic == manualTopic {
			return sarama.NewManualPartitioner(topic)
		}
		return sarama.NewHashPartitioner(topic)
	}
}

func (p *Producer) Input() chan<- *sarama.ProducerMessage {
	return p.producer.Input()
}

func (p *Producer) Successes() <-chan *sarama.ProducerMessage {
	return p.producer.Successes()
}

func (p *Producer) Errors() <-chan *sarama.ProducerError {
	return p.producer.Errors()
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
