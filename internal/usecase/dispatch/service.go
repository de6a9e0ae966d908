package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/bookingcontrol/booker-dispatch-svc/internal/config"
	dom "github.com/bookingcontrol/booker-dispatch-svc/internal/domain/dispatch"
	"github.com/bookingcontrol/booker-dispatch-svc/internal/infrastructure/metrics"
	"github.com/bookingcontrol/booker-dispatch-svc/internal/infrastructure/tracing"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	msgApplicationAccepted = "Congratulations! Your event application was accepted."
	msgApplicationFailed   = "Sorry, your event application could not be accepted."
)

// Service decides whether a booking application is published to the
// broker or recorded as a failure. The business response is determined
// before the broker acknowledges anything.
type Service struct {
	events    dom.EventRepository
	failures  dom.FailureRepository
	publisher dom.EventPublisher
	cache     dom.CapacityCache
	clock     dom.Clock
	cfg       *config.Config

	// seq tags log lines only; never a key, partition or persisted value.
	seq atomic.Int64
}

// NewService wires the dispatch pipeline. cache may be nil, in which
// case every eligibility check reads the event store directly.
func NewService(
	events dom.EventRepository,
	failures dom.FailureRepository,
	publisher dom.EventPublisher,
	cache dom.CapacityCache,
	clock dom.Clock,
	cfg *config.Config,
) *Service {
	return &Service{
		events:    events,
		failures:  failures,
		publisher: publisher,
		cache:     cache,
		clock:     clock,
		cfg:       cfg,
	}
}

// SubmitApplication checks remaining capacity for the event and either
// publishes an application message to the partitioned topic or appends
// a failure record. The returned result reflects only that submission
// was attempted; delivery is confirmed asynchronously and only logged.
func (s *Service) SubmitApplication(ctx context.Context, req dom.ApplicationRequest) (*dom.ApplicationResult, error) {
	ctx, span := tracing.StartSpan(ctx, "SubmitApplication")
	defer span.End()

	if req.EventID <= 0 {
		return nil, fmt.Errorf("%w: %d", dom.ErrInvalidEventID, req.EventID)
	}

	now := s.clock.Now()
	applicationDate := now.Format(dateLayout)
	applicationTime := now.Format(timeLayout)

	event, err := s.lookupEvent(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, dom.ErrEventNotFound) {
			metrics.EligibilityChecks.WithLabelValues("not_found").Inc()
		}
		return nil, err
	}

	if event.Capacity <= 0 {
		metrics.EligibilityChecks.WithLabelValues("not_eligible").Inc()
		// The audit write must not change the caller-visible outcome:
		// a persistence error is logged and swallowed here.
		if err := s.recordFailure(ctx, req.EventID, req.UserID, applicationDate, applicationTime); err != nil {
			log.Error().
				Err(err).
				Int64("event_id", req.EventID).
				Str("user_id", req.UserID).
				Msg("Failed to record application failure")
		}
		return &dom.ApplicationResult{Succeeded: false, Message: msgApplicationFailed}, nil
	}
	metrics.EligibilityChecks.WithLabelValues("eligible").Inc()

	partition, err := SelectPartition(req.EventID, s.cfg.Kafka.PartitionCount)
	if err != nil {
		return nil, err
	}

	seq := s.seq.Add(1) - 1
	log.Debug().
		Int64("seq", seq).
		Int64("event_id", req.EventID).
		Int32("partition", partition).
		Msg("Producing application message")

	msg := &dom.EventMessage{
		EventID:         req.EventID,
		UserID:          req.UserID,
		ApplicationDate: applicationDate,
		ApplicationTime: applicationTime,
	}

	// Fire-and-forget: the delivery handle is discarded and the
	// outcome is observed only by the publisher's logging pump.
	if _, err := s.publisher.PublishApplication(ctx, msg, partition); err != nil {
		return nil, fmt.Errorf("failed to submit application message: %w", err)
	}

	return &dom.ApplicationResult{Succeeded: true, Message: msgApplicationAccepted}, nil
}

// SubmitBatch forwards a pre-built batch payload unconditionally: no
// eligibility check, no explicit partition. The batch message is
// mutated in place before ownership passes to the broker.
func (s *Service) SubmitBatch(ctx context.Context, batch *dom.BatchMessage, userID string) error {
	ctx, span := tracing.StartSpan(ctx, "SubmitBatch")
	defer span.End()

	now := s.clock.Now()
	batch.UserID = userID
	batch.EventDate = now.Format(dateLayout)
	batch.EventTime = now.Format(timeLayout)

	seq := s.seq.Add(1) - 1
	log.Debug().
		Int64("seq", seq).
		Int64("event_id", batch.EventID).
		Msg("Producing batch message")

	if _, err := s.publisher.PublishBatch(ctx, batch); err != nil {
		return fmt.Errorf("failed to submit batch message: %w", err)
	}
	return nil
}

// lookupEvent consults the capacity cache when one is configured and
// falls back to the event store. Only found events are cached; a
// NotFound always comes from the store itself.
func (s *Service) lookupEvent(ctx context.Context, eventID int64) (*dom.Event, error) {
	if s.cache != nil {
		event, err := s.cache.GetEvent(ctx, eventID)
		if err == nil {
			return event, nil
		}
		if !errors.Is(err, dom.ErrCacheMiss) {
			log.Warn().Err(err).Int64("event_id", eventID).Msg("Capacity cache read failed")
		}
	}

	event, err := s.events.FindEventByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, dom.ErrEventNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to look up event %d: %w", eventID, err)
	}

	if s.cache != nil {
		if err := s.cache.PutEvent(ctx, event, s.cfg.Cache.TTL); err != nil {
			log.Warn().Err(err).Int64("event_id", eventID).Msg("Capacity cache write failed")
		}
	}
	return event, nil
}

func (s *Service) recordFailure(ctx context.Context, eventID int64, userID, date, timeOfDay string) error {
	log.Debug().
		Int64("event_id", eventID).
		Str("user_id", userID).
		Str("date", date).
		Str("time", timeOfDay).
		Msg("Application not eligible, recording failure")

	record := &dom.FailureRecord{
		EventID: eventID,
		UserID:  userID,
		Date:    date,
		Time:    timeOfDay,
	}
	if err := s.failures.AppendFailure(ctx, record); err != nil {
		return fmt.Errorf("failed to append failure record: %w", err)
	}
	metrics.FailureRecords.Inc()
	return nil
}
