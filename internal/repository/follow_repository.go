package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"talenthub-backend/internal/domain"
)

type FollowRepository interface {
	GetFollowers(ctx context.Context, target domain.FollowTarget) ([]uuid.UUID, error)
}

type followRepository struct {
	db *sqlx.DB
}

func NewFollowRepository(db *sqlx.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) GetFollowers(ctx context.Context, target domain.FollowTarget) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `
		SELECT DISTINCT follower_id FROM follows
		WHERE target_kind = $1 AND target_id = $2`
	err := r.db.SelectContext(ctx, &ids, query, target.Kind, target.ID)
	return ids, err
}
