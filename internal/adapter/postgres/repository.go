package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	dom "github.com/bookingcontrol/booker-dispatch-svc/internal/domain/dispatch"
)

// EventRepository reads event capacity rows.
type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) FindEventByID(ctx context.Context, id int64) (*dom.Event, error) {
	var event dom.Event
	err := r.pool.QueryRow(ctx,
		`SELECT id, capacity FROM events WHERE id = $1`, id,
	).Scan(&event.ID, &event.Capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, dom.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to query event: %w", err)
	}
	return &event, nil
}

// FailureRepository appends failure records. Records are never updated
// or deleted by this service.
type FailureRepository struct {
	pool *pgxpool.Pool
}

func NewFailureRepository(pool *pgxpool.Pool) *FailureRepository {
	return &FailureRepository{pool: pool}
}

func (r *FailureRepository) AppendFailure(ctx context.Context, record *dom.FailureRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO send_failures (id, event_id, user_id, fail_date, fail_time)
		 VALUES ($1, $2, $3, $4, $5)`,
		record.ID, record.EventID, record.UserID, record.Date, record.Time,
	)
	if err != nil {
		return fmt.Errorf("failed to insert failure record: %w", err)
	}
	return nil
}
