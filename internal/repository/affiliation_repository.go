package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AffiliationRepository derives the users with a transactional history
// toward an organization: anyone who ever applied to one of its job posts.
// They are treated as implicit followers for fan-out.
type AffiliationRepository interface {
	GetAffiliatedUsers(ctx context.Context, orgID uuid.UUID) ([]uuid.UUID, error)
}

type affiliationRepository struct {
	db *sqlx.DB
}

func NewAffiliationRepository(db *sqlx.DB) AffiliationRepository {
	return &affiliationRepository{db: db}
}

func (r *affiliationRepository) GetAffiliatedUsers(ctx context.Context, orgID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `
		SELECT DISTINCT a.applicant_id
		FROM applications a
		JOIN job_posts j ON j.id = a.job_post_id
		WHERE j.organization_id = $1`
	err := r.db.SelectContext(ctx, &ids, query, orgID)
	return ids, err
}
