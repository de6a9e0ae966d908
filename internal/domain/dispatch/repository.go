package dispatch

import (
	"context"
	"time"
)

// EventRepository defines interface for event store reads
type EventRepository interface {
	FindEventByID(ctx context.Context, id int64) (*Event, error)
}

// FailureRepository defines interface for the durable failure store
type FailureRepository interface {
	AppendFailure(ctx context.Context, record *FailureRecord) error
}

// CapacityCache is an optional read-through cache in front of the
// event store. GetEvent returns ErrCacheMiss when the event is not
// cached; only found events are ever cached.
type CapacityCache interface {
	GetEvent(ctx context.Context, id int64) (*Event, error)
	PutEvent(ctx context.Context, event *Event, ttl time.Duration) error
}

// Clock supplies the application date/time stamped onto payloads.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock Clock used outside of tests.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
