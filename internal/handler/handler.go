package handler

import "talenthub-backend/internal/service"

type Handlers struct {
	Notification *NotificationHandler
	Dispatch     *DispatchHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Notification: NewNotificationHandler(services.Notification),
		Dispatch:     NewDispatchHandler(services.Fanout),
	}
}
