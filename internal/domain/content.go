package domain

import (
	"errors"

	"github.com/google/uuid"
)

var ErrContentEventIncomplete = errors.New("content event requires actor_id and post_id")

// ContentEvent is emitted once by the application layer when an actor
// publishes a post, optionally on behalf of (or about) an organization.
type ContentEvent struct {
	ActorID      uuid.UUID  `json:"actor_id" validate:"required"`
	SubjectOrgID *uuid.UUID `json:"subject_org_id,omitempty"`
	PostID       uuid.UUID  `json:"post_id" validate:"required"`
}

func (e *ContentEvent) Validate() error {
	if e.ActorID == uuid.Nil || e.PostID == uuid.Nil {
		return ErrContentEventIncomplete
	}
	return nil
}
