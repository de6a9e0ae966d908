package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventKey(t *testing.T) {
	assert.Equal(t, "event:17:capacity", eventKey(17))
	assert.Equal(t, "event:1:capacity", eventKey(1))
}

func TestEventKey_DistinctPerEvent(t *testing.T) {
	assert.NotEqual(t, eventKey(1), eventKey(11))
}
