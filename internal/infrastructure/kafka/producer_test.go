package kafka

import (
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionerFor_ManualTopic(t *testing.T) {
	constructor := PartitionerFor("book-4")
	partitioner := constructor("book-4")

	// The manual partitioner must honor the partition set on the message.
	for _, want := range []int32{0, 3, 9} {
		msg := &sarama.ProducerMessage{Topic: "book-4", Partition: want}
		got, err := partitioner.Partition(msg, 10)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestPartitionerFor_OtherTopicsUseKeyHash(t *testing.T) {
	constructor := PartitionerFor("book-4")
	partitioner := constructor("book")

	msg := &sarama.ProducerMessage{Topic: "book", Key: sarama.StringEncoder("12")}

	first, err := partitioner.Partition(msg, 10)
	require.NoError(t, err)
	second, err := partitioner.Partition(msg, 10)
	require.NoError(t, err)

	// Same key, same partition, and always in range.
	assert.Equal(t, first, second)
	assert.GreaterOrEqual(t, first, int32(0))
	assert.Less(t, first, int32(10))
}
