package domain

import (
	"time"

	"github.com/google/uuid"
)

type FollowTargetKind string

const (
	FollowTargetUser         FollowTargetKind = "user"
	FollowTargetOrganization FollowTargetKind = "organization"
)

func (k FollowTargetKind) IsValid() bool {
	switch k {
	case FollowTargetUser, FollowTargetOrganization:
		return true
	}
	return false
}

// FollowTarget is the thing being followed: a user or an organization.
// A tagged variant keeps the audience union exhaustive over both kinds.
type FollowTarget struct {
	Kind FollowTargetKind `json:"kind" db:"target_kind"`
	ID   uuid.UUID        `json:"id" db:"target_id"`
}

func UserTarget(id uuid.UUID) FollowTarget {
	return FollowTarget{Kind: FollowTargetUser, ID: id}
}

func OrganizationTarget(id uuid.UUID) FollowTarget {
	return FollowTarget{Kind: FollowTargetOrganization, ID: id}
}

// Follow is a follower edge. The edge table carries no uniqueness
// guarantee, so consumers must dedupe by follower id.
type Follow struct {
	ID         uuid.UUID        `json:"id" db:"id"`
	FollowerID uuid.UUID        `json:"follower_id" db:"follower_id"`
	TargetKind FollowTargetKind `json:"target_kind" db:"target_kind"`
	TargetID   uuid.UUID        `json:"target_id" db:"target_id"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`
}
