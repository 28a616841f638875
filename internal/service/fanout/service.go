// Package fanout orchestrates one dispatcher tick: load candidate
// events, ask the window evaluator which reminders are due, resolve the
// audience, and append notification records to the sink.
//
// The dispatcher keeps no ledger of what it already fired. Exactly-once
// behavior rests on two guarantees: consecutive tick windows tile the
// timeline (see the schedule package), and the notifications table
// enforces uniqueness on (recipient_id, source_id, tier) so an
// overlapping or retried tick writes zero new rows.
package fanout

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"talenthub-backend/internal/domain"
	"talenthub-backend/internal/repository"
	"talenthub-backend/internal/service/audience"
	"talenthub-backend/internal/service/email"
	"talenthub-backend/internal/service/schedule"
)

type TickResult struct {
	EventsConsidered     int   `json:"events_considered"`
	NotificationsWritten int64 `json:"notifications_written"`
}

type Service interface {
	// RunTick processes one polling cycle at the given instant. A failure
	// on one event never aborts the remaining events; only a failed
	// candidate load returns an error.
	RunTick(ctx context.Context, now time.Time) (TickResult, error)

	// PublishContent fans a content-posted event out to its audience.
	// Called once per post by the application layer, not polled.
	PublishContent(ctx context.Context, event domain.ContentEvent) (int64, error)
}

type service struct {
	eventRepo   repository.EventRepository
	notifRepo   repository.NotificationRepository
	userRepo    repository.UserRepository
	audienceSvc audience.Service
	emailSvc    email.Service
	lease       TickLease
	window      time.Duration
}

// NewService builds the dispatcher. window must equal the polling
// cadence that drives RunTick; emailSvc and lease may be nil.
func NewService(
	eventRepo repository.EventRepository,
	notifRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	audienceSvc audience.Service,
	emailSvc email.Service,
	lease TickLease,
	window time.Duration,
) Service {
	return &service{
		eventRepo:   eventRepo,
		notifRepo:   notifRepo,
		userRepo:    userRepo,
		audienceSvc: audienceSvc,
		emailSvc:    emailSvc,
		lease:       lease,
		window:      window,
	}
}

func (s *service) RunTick(ctx context.Context, now time.Time) (TickResult, error) {
	var result TickResult

	events, err := s.eventRepo.GetUpcoming(ctx, now)
	if err != nil {
		// The window stays unclaimed: a retried or concurrent invocation
		// inside the same window is the recovery path for this failure.
		return result, fmt.Errorf("failed to load upcoming events: %w", err)
	}

	if !s.acquireTickLease(ctx, now) {
		log.Printf("Tick for window %s already claimed by another instance, skipping", schedule.WindowStart(now, s.window).Format(time.RFC3339))
		return result, nil
	}

	for i := range events {
		event := &events[i]
		result.EventsConsidered++

		if err := event.Validate(); err != nil {
			log.Printf("Skipping malformed event %s: %v", event.ID, err)
			continue
		}

		var due []domain.Reminder
		for _, reminder := range event.Reminders() {
			if schedule.IsDue(event.StartAt, reminder.Offset, now, s.window) {
				due = append(due, reminder)
			}
		}
		if len(due) == 0 {
			continue
		}

		// One registration fetch shared by both tiers of the same event.
		recipients, err := s.audienceSvc.ResolveReminder(ctx, event.ID, event.OrganizerID)
		if err != nil {
			log.Printf("Failed to resolve audience for event %s, will retry next tick: %v", event.ID, err)
			continue
		}
		if len(recipients) == 0 {
			continue
		}

		records := make([]domain.Notification, 0, len(due)*len(recipients))
		for _, reminder := range due {
			for _, recipientID := range recipients {
				records = append(records, buildReminderRecord(event, reminder.Tier, recipientID))
			}
		}

		written, err := s.notifRepo.InsertMany(ctx, records)
		if err != nil {
			log.Printf("Failed to write notifications for event %s, will retry next tick: %v", event.ID, err)
			continue
		}
		result.NotificationsWritten += written

		if written > 0 {
			s.sendReminderEmails(ctx, event, recipients)
		}
	}

	return result, nil
}

func (s *service) PublishContent(ctx context.Context, event domain.ContentEvent) (int64, error) {
	if err := event.Validate(); err != nil {
		return 0, err
	}

	recipients, err := s.audienceSvc.ResolveContent(ctx, event)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve audience: %w", err)
	}
	if len(recipients) == 0 {
		return 0, nil
	}

	subject := event.ActorID
	if event.SubjectOrgID != nil {
		subject = *event.SubjectOrgID
	}

	records := make([]domain.Notification, 0, len(recipients))
	for _, recipientID := range recipients {
		records = append(records, domain.Notification{
			ID:          uuid.New(),
			RecipientID: recipientID,
			Type:        domain.NotifNewContent,
			Title:       "New post",
			Message:     "Someone you follow published a new post",
			SourceID:    event.PostID,
			Tier:        domain.TierContent,
			Data: domain.NotificationData{
				SourceID:     event.PostID,
				ActorOrOrgID: subject,
			}.Marshal(),
		})
	}

	written, err := s.notifRepo.InsertMany(ctx, records)
	if err != nil {
		return 0, fmt.Errorf("failed to write notifications: %w", err)
	}

	if written > 0 {
		s.sendNewPostEmails(ctx, event.ActorID, recipients)
	}

	return written, nil
}

// acquireTickLease claims the current window. Called only after the
// candidate load succeeded, so a tick that fails before doing any work
// never leaves the window claimed against its own retry. On any lease
// problem the tick proceeds; the sink constraint keeps replays harmless.
func (s *service) acquireTickLease(ctx context.Context, now time.Time) bool {
	if s.lease == nil {
		return true
	}

	acquired, err := s.lease.Acquire(ctx, schedule.WindowStart(now, s.window))
	if err != nil {
		log.Printf("Tick lease unavailable, proceeding without it: %v", err)
		return true
	}
	return acquired
}

func buildReminderRecord(event *domain.ScheduledEvent, tier domain.ReminderTier, recipientID uuid.UUID) domain.Notification {
	subject := event.OrganizerID
	if event.OrganizationID != nil {
		subject = *event.OrganizationID
	}

	return domain.Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		Type:        domain.ReminderType(tier),
		Title:       "Event reminder",
		Message:     fmt.Sprintf("%s starts at %s", event.Title, event.StartAt.Format(time.RFC3339)),
		SourceID:    event.ID,
		Tier:        tier,
		Data: domain.NotificationData{
			SourceID:     event.ID,
			ActorOrOrgID: subject,
		}.Marshal(),
	}
}

func (s *service) sendReminderEmails(ctx context.Context, event *domain.ScheduledEvent, recipients []uuid.UUID) {
	if s.emailSvc == nil {
		return
	}

	users, err := s.userRepo.GetByIDs(ctx, recipients)
	if err != nil {
		log.Printf("Skipping reminder emails for event %s: %v", event.ID, err)
		return
	}

	for _, user := range users {
		if user.Email == "" {
			continue
		}
		go func(toEmail, name, title, startAt string) {
			ctx := context.Background()
			_ = s.emailSvc.SendEventReminderEmail(ctx, toEmail, name, title, startAt)
		}(user.Email, user.FullName, event.Title, event.StartAt.Format(time.RFC1123))
	}
}

func (s *service) sendNewPostEmails(ctx context.Context, actorID uuid.UUID, recipients []uuid.UUID) {
	if s.emailSvc == nil {
		return
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil || actor == nil {
		return
	}

	users, err := s.userRepo.GetByIDs(ctx, recipients)
	if err != nil {
		log.Printf("Skipping new-post emails for actor %s: %v", actorID, err)
		return
	}

	for _, user := range users {
		if user.Email == "" {
			continue
		}
		go func(toEmail, name, actorName string) {
			ctx := context.Background()
			_ = s.emailSvc.SendNewPostEmail(ctx, toEmail, name, actorName)
		}(user.Email, user.FullName, actor.FullName)
	}
}
