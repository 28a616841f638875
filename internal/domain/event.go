package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEventMissingStart   = errors.New("scheduled event has no start instant")
	ErrEventNegativeRemind = errors.New("scheduled event has a negative reminder offset")
)

// ScheduledEvent is a future session (webinar, career fair, interview
// round) with up to two independent reminder offsets, stored as minutes
// before start. Dispatch decisions use the values read at tick time.
type ScheduledEvent struct {
	ID                  uuid.UUID  `json:"id" db:"id"`
	OrganizerID         uuid.UUID  `json:"organizer_id" db:"organizer_id"`
	OrganizationID      *uuid.UUID `json:"organization_id,omitempty" db:"organization_id"`
	Title               string     `json:"title" db:"title"`
	StartAt             time.Time  `json:"start_at" db:"start_at"`
	FirstRemindMinutes  *int64     `json:"first_remind_minutes,omitempty" db:"first_remind_minutes"`
	SecondRemindMinutes *int64     `json:"second_remind_minutes,omitempty" db:"second_remind_minutes"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
}

// ReminderTier distinguishes the two independent offsets of one event so
// that both firing is two deliveries, never a duplicate.
type ReminderTier int16

const (
	TierContent ReminderTier = 0
	TierFirst   ReminderTier = 1
	TierSecond  ReminderTier = 2
)

type Reminder struct {
	Tier   ReminderTier
	Offset time.Duration
}

// Reminders returns the configured offsets in tier order. Absent slots are
// skipped; a reminder with offset zero means "no reminder configured".
func (e *ScheduledEvent) Reminders() []Reminder {
	var out []Reminder
	if e.FirstRemindMinutes != nil && *e.FirstRemindMinutes > 0 {
		out = append(out, Reminder{Tier: TierFirst, Offset: time.Duration(*e.FirstRemindMinutes) * time.Minute})
	}
	if e.SecondRemindMinutes != nil && *e.SecondRemindMinutes > 0 {
		out = append(out, Reminder{Tier: TierSecond, Offset: time.Duration(*e.SecondRemindMinutes) * time.Minute})
	}
	return out
}

// Validate flags data-integrity problems that make an event undispatchable.
func (e *ScheduledEvent) Validate() error {
	if e.StartAt.IsZero() {
		return ErrEventMissingStart
	}
	if e.FirstRemindMinutes != nil && *e.FirstRemindMinutes < 0 {
		return ErrEventNegativeRemind
	}
	if e.SecondRemindMinutes != nil && *e.SecondRemindMinutes < 0 {
		return ErrEventNegativeRemind
	}
	return nil
}

// Registration is a user's opt-in to reminders for one event. Unique per
// (event_id, user_id) pair.
type Registration struct {
	ID        uuid.UUID `json:"id" db:"id"`
	EventID   uuid.UUID `json:"event_id" db:"event_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
