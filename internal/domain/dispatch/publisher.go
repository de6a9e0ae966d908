package dispatch

import "context"

// EventPublisher abstracts publishing dispatch messages to Kafka (or any
// other transport). Both methods enqueue the message and return
// immediately; the returned Delivery carries the asynchronous outcome.
type EventPublisher interface {
	PublishApplication(ctx context.Context, msg *EventMessage, partition int32) (*Delivery, error)
	PublishBatch(ctx context.Context, msg *BatchMessage) (*Delivery, error)
}

// PublishOutcome is the terminal state of one asynchronous submission.
// Err is nil when the broker acknowledged delivery.
type PublishOutcome struct {
	Topic     string
	Partition int32
	Offset    int64
	Err       error
}

// Delivery is the handle returned by an asynchronous submission.
// The default policy is fire-and-forget: the publisher logs the outcome
// and nobody waits. Callers that need delivery confirmation may call
// Wait or select on Done.
type Delivery struct {
	outcome PublishOutcome
	done    chan struct{}
}

func NewDelivery() *Delivery {
	return &Delivery{done: make(chan struct{})}
}

// Complete records the outcome and unblocks waiters. Must be called
// exactly once, by the publisher's delivery pump.
func (d *Delivery) Complete(out PublishOutcome) {
	d.outcome = out
	close(d.done)
}

// Done is closed once the submission reached a terminal state.
func (d *Delivery) Done() <-chan struct{} { return d.done }

// Wait blocks until the submission completes or ctx expires.
func (d *Delivery) Wait(ctx context.Context) (PublishOutcome, error) {
	select {
	case <-d.done:
		return d.outcome, nil
	case <-ctx.Done():
		return PublishOutcome{}, ctx.Err()
	}
}
