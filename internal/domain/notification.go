package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotifNewContent         NotificationType = "new_content"
	NotifEventReminderTier1 NotificationType = "event_reminder_tier1"
	NotifEventReminderTier2 NotificationType = "event_reminder_tier2"
)

// ReminderType maps a reminder tier to its notification type.
func ReminderType(tier ReminderTier) NotificationType {
	if tier == TierSecond {
		return NotifEventReminderTier2
	}
	return NotifEventReminderTier1
}

// Notification is the engine's only durable output. Rows are append-only;
// the (recipient_id, source_id, tier) unique constraint makes replayed
// writes a no-op, which is what keeps overlapping dispatcher ticks safe.
type Notification struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	RecipientID uuid.UUID        `json:"recipient_id" db:"recipient_id"`
	Type        NotificationType `json:"type" db:"type"`
	Title       string           `json:"title" db:"title"`
	Message     string           `json:"message" db:"message"`
	SourceID    uuid.UUID        `json:"source_id" db:"source_id"`
	Tier        ReminderTier     `json:"tier" db:"tier"`
	Data        json.RawMessage  `json:"data,omitempty" db:"data"`
	IsRead      bool             `json:"is_read" db:"is_read"`
	ReadAt      *time.Time       `json:"read_at,omitempty" db:"read_at"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}

// NotificationData is the metadata payload stored alongside each record.
type NotificationData struct {
	SourceID     uuid.UUID `json:"source_id"`
	ActorOrOrgID uuid.UUID `json:"actor_or_org_id"`
}

func (d NotificationData) Marshal() json.RawMessage {
	b, _ := json.Marshal(d)
	return b
}
