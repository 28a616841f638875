package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	User         UserRepository
	Follow       FollowRepository
	Affiliation  AffiliationRepository
	Event        EventRepository
	Registration RegistrationRepository
	Notification NotificationRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Follow:       NewFollowRepository(db),
		Affiliation:  NewAffiliationRepository(db),
		Event:        NewEventRepository(db),
		Registration: NewRegistrationRepository(db),
		Notification: NewNotificationRepository(db),
	}
}
