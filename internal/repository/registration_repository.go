package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type RegistrationRepository interface {
	GetRegisteredUsers(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error)
}

type registrationRepository struct {
	db *sqlx.DB
}

func NewRegistrationRepository(db *sqlx.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) GetRegisteredUsers(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `SELECT user_id FROM event_registrations WHERE event_id = $1`
	err := r.db.SelectContext(ctx, &ids, query, eventID)
	return ids, err
}
