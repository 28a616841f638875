package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"talenthub-backend/internal/domain"
)

type EventRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ScheduledEvent, error)
	// GetUpcoming returns events whose start instant is at or after now.
	// Events already started are excluded here so the dispatcher never
	// fires stale reminders after an outage.
	GetUpcoming(ctx context.Context, now time.Time) ([]domain.ScheduledEvent, error)
}

type eventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ScheduledEvent, error) {
	var event domain.ScheduledEvent
	query := `SELECT * FROM scheduled_events WHERE id = $1`
	err := r.db.GetContext(ctx, &event, query, id)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) GetUpcoming(ctx context.Context, now time.Time) ([]domain.ScheduledEvent, error) {
	var events []domain.ScheduledEvent
	query := `
		SELECT * FROM scheduled_events
		WHERE start_at >= $1
		ORDER BY start_at ASC`
	err := r.db.SelectContext(ctx, &events, query, now)
	return events, err
}
