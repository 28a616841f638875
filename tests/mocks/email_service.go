package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendEventReminderEmail(ctx context.Context, toEmail, recipientName, eventTitle, startAt string) error {
	args := m.Called(ctx, toEmail, recipientName, eventTitle, startAt)
	return args.Error(0)
}

func (m *EmailService) SendNewPostEmail(ctx context.Context, toEmail, recipientName, actorName string) error {
	args := m.Called(ctx, toEmail, recipientName, actorName)
	return args.Error(0)
}
