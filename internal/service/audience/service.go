// Package audience computes the deduplicated recipient set for one
// logical event. Resolution is a pure function of current data: it keeps
// no state between runs, and a failing source fails the whole resolution
// so the caller retries on a later tick instead of under-notifying.
package audience

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"talenthub-backend/internal/domain"
	"talenthub-backend/internal/repository"
)

type Service interface {
	// ResolveContent unions followers of the actor, followers of the
	// subject organization, and users affiliated to that organization.
	// The actor never appears in the result.
	ResolveContent(ctx context.Context, event domain.ContentEvent) ([]uuid.UUID, error)

	// ResolveReminder returns the registered users of a scheduled event,
	// minus its organizer. No follower expansion.
	ResolveReminder(ctx context.Context, eventID, organizerID uuid.UUID) ([]uuid.UUID, error)
}

type service struct {
	followRepo       repository.FollowRepository
	affiliationRepo  repository.AffiliationRepository
	registrationRepo repository.RegistrationRepository
}

func NewService(
	followRepo repository.FollowRepository,
	affiliationRepo repository.AffiliationRepository,
	registrationRepo repository.RegistrationRepository,
) Service {
	return &service{
		followRepo:       followRepo,
		affiliationRepo:  affiliationRepo,
		registrationRepo: registrationRepo,
	}
}

func (s *service) ResolveContent(ctx context.Context, event domain.ContentEvent) ([]uuid.UUID, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}

	recipients := make(map[uuid.UUID]struct{})

	actorFollowers, err := s.followRepo.GetFollowers(ctx, domain.UserTarget(event.ActorID))
	if err != nil {
		return nil, fmt.Errorf("failed to get actor followers: %w", err)
	}
	for _, id := range actorFollowers {
		recipients[id] = struct{}{}
	}

	if event.SubjectOrgID != nil {
		orgFollowers, err := s.followRepo.GetFollowers(ctx, domain.OrganizationTarget(*event.SubjectOrgID))
		if err != nil {
			return nil, fmt.Errorf("failed to get organization followers: %w", err)
		}
		for _, id := range orgFollowers {
			recipients[id] = struct{}{}
		}

		affiliated, err := s.affiliationRepo.GetAffiliatedUsers(ctx, *event.SubjectOrgID)
		if err != nil {
			return nil, fmt.Errorf("failed to get affiliated users: %w", err)
		}
		for _, id := range affiliated {
			recipients[id] = struct{}{}
		}
	}

	delete(recipients, event.ActorID)

	return collect(recipients), nil
}

func (s *service) ResolveReminder(ctx context.Context, eventID, organizerID uuid.UUID) ([]uuid.UUID, error) {
	registered, err := s.registrationRepo.GetRegisteredUsers(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get registered users: %w", err)
	}

	recipients := make(map[uuid.UUID]struct{}, len(registered))
	for _, id := range registered {
		recipients[id] = struct{}{}
	}

	delete(recipients, organizerID)

	return collect(recipients), nil
}

func collect(set map[uuid.UUID]struct{}) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
