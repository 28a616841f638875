package service

import (
	"github.com/redis/go-redis/v9"

	"talenthub-backend/internal/config"
	"talenthub-backend/internal/repository"
	"talenthub-backend/internal/service/audience"
	"talenthub-backend/internal/service/email"
	"talenthub-backend/internal/service/fanout"
	"talenthub-backend/internal/service/notification"
)

type Services struct {
	Audience     audience.Service
	Fanout       fanout.Service
	Notification notification.Service
	Email        email.Service
}

func NewServices(repos *repository.Repositories, redisClient *redis.Client, cfg *config.Config) *Services {
	var emailService email.Service
	if cfg.ResendAPIKey != "" {
		emailService = email.NewService(cfg)
	}

	var tickLease fanout.TickLease
	if redisClient != nil {
		tickLease = fanout.NewRedisTickLease(redisClient, cfg.DispatchInterval)
	}

	audienceService := audience.NewService(repos.Follow, repos.Affiliation, repos.Registration)
	fanoutService := fanout.NewService(
		repos.Event,
		repos.Notification,
		repos.User,
		audienceService,
		emailService,
		tickLease,
		cfg.DispatchInterval,
	)
	notificationService := notification.NewService(repos.Notification)

	return &Services{
		Audience:     audienceService,
		Fanout:       fanoutService,
		Notification: notificationService,
		Email:        emailService,
	}
}
