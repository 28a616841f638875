package fanout_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"talenthub-backend/internal/domain"
	"talenthub-backend/internal/service/audience"
	"talenthub-backend/internal/service/fanout"
	"talenthub-backend/internal/service/schedule"
	"talenthub-backend/tests/mocks"
)

const window = 5 * time.Minute

type fixture struct {
	svc              fanout.Service
	eventRepo        *mocks.EventRepository
	notifRepo        *mocks.NotificationRepository
	userRepo         *mocks.UserRepository
	followRepo       *mocks.FollowRepository
	affiliationRepo  *mocks.AffiliationRepository
	registrationRepo *mocks.RegistrationRepository
}

func newFixture() *fixture {
	f := &fixture{
		eventRepo:        new(mocks.EventRepository),
		notifRepo:        new(mocks.NotificationRepository),
		userRepo:         new(mocks.UserRepository),
		followRepo:       new(mocks.FollowRepository),
		affiliationRepo:  new(mocks.AffiliationRepository),
		registrationRepo: new(mocks.RegistrationRepository),
	}
	audienceSvc := audience.NewService(f.followRepo, f.affiliationRepo, f.registrationRepo)
	f.svc = fanout.NewService(f.eventRepo, f.notifRepo, f.userRepo, audienceSvc, nil, nil, window)
	return f
}

// withLease rebuilds the service with a lease between instances.
func (f *fixture) withLease() *mocks.TickLease {
	lease := new(mocks.TickLease)
	audienceSvc := audience.NewService(f.followRepo, f.affiliationRepo, f.registrationRepo)
	f.svc = fanout.NewService(f.eventRepo, f.notifRepo, f.userRepo, audienceSvc, nil, lease, window)
	return lease
}

func minutes(m int64) *int64 { return &m }

func typesOf(records []domain.Notification) []domain.NotificationType {
	out := make([]domain.NotificationType, 0, len(records))
	for _, r := range records {
		out = append(out, r.Type)
	}
	return out
}

func TestRunTick_SecondTierReminderFires(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	start := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	organizer := uuid.New()
	event := domain.ScheduledEvent{
		ID:                  uuid.New(),
		OrganizerID:         organizer,
		Title:               "Backend hiring webinar",
		StartAt:             start,
		FirstRemindMinutes:  minutes(60),
		SecondRemindMinutes: minutes(1440),
	}
	u1 := uuid.New()
	u2 := uuid.New()

	// Day-before reminder: due instant 2025-01-09T10:00:00Z sits inside
	// this tick's window [09:58, 10:03). The 60min offset is a day away.
	now := start.Add(-1440*time.Minute - 2*time.Minute)

	f.eventRepo.On("GetUpcoming", ctx, now).Return([]domain.ScheduledEvent{event}, nil).Once()
	f.registrationRepo.On("GetRegisteredUsers", ctx, event.ID).Return([]uuid.UUID{u1, u2}, nil).Once()
	f.notifRepo.On("InsertMany", ctx, mock.MatchedBy(func(records []domain.Notification) bool {
		if len(records) != 2 {
			return false
		}
		for _, r := range records {
			if r.Type != domain.NotifEventReminderTier2 || r.SourceID != event.ID || r.Tier != domain.TierSecond {
				return false
			}
		}
		return true
	})).Return(int64(2), nil).Once()

	result, err := f.svc.RunTick(ctx, now)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.EventsConsidered)
	assert.Equal(t, int64(2), result.NotificationsWritten)
	f.notifRepo.AssertExpectations(t)
}

func TestRunTick_OverlappingTickAbsorbedBySink(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	start := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	event := domain.ScheduledEvent{
		ID:                  uuid.New(),
		OrganizerID:         uuid.New(),
		Title:               "Backend hiring webinar",
		StartAt:             start,
		SecondRemindMinutes: minutes(1440),
	}
	u1 := uuid.New()

	first := start.Add(-1440*time.Minute - 2*time.Minute)
	overlapping := first.Add(time.Minute) // a concurrent instance, off the grid

	f.eventRepo.On("GetUpcoming", ctx, mock.AnythingOfType("time.Time")).Return([]domain.ScheduledEvent{event}, nil).Twice()
	f.registrationRepo.On("GetRegisteredUsers", ctx, event.ID).Return([]uuid.UUID{u1}, nil).Twice()
	// The same (recipient, source, tier) batch hits the unique constraint
	// the second time and stores nothing.
	f.notifRepo.On("InsertMany", ctx, mock.Anything).Return(int64(1), nil).Once()
	f.notifRepo.On("InsertMany", ctx, mock.Anything).Return(int64(0), nil).Once()

	res1, err1 := f.svc.RunTick(ctx, first)
	res2, err2 := f.svc.RunTick(ctx, overlapping)

	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.Equal(t, int64(1), res1.NotificationsWritten)
	assert.Equal(t, int64(0), res2.NotificationsWritten)
}

func TestRunTick_DoubleDueEmitsBothTiers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	start := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	// Both offsets land in the same window: due instants 09:58 and 09:56
	// against a tick window [09:55, 10:00).
	event := domain.ScheduledEvent{
		ID:                  uuid.New(),
		OrganizerID:         uuid.New(),
		Title:               "Final interview prep",
		StartAt:             start,
		FirstRemindMinutes:  minutes(2),
		SecondRemindMinutes: minutes(4),
	}
	u1 := uuid.New()
	now := start.Add(-5 * time.Minute)

	f.eventRepo.On("GetUpcoming", ctx, now).Return([]domain.ScheduledEvent{event}, nil).Once()
	// Both tiers share one registration fetch.
	f.registrationRepo.On("GetRegisteredUsers", ctx, event.ID).Return([]uuid.UUID{u1}, nil).Once()
	f.notifRepo.On("InsertMany", ctx, mock.MatchedBy(func(records []domain.Notification) bool {
		return len(records) == 2 &&
			assert.ObjectsAreEqual(
				[]domain.NotificationType{domain.NotifEventReminderTier1, domain.NotifEventReminderTier2},
				typesOf(records),
			)
	})).Return(int64(2), nil).Once()

	result, err := f.svc.RunTick(ctx, now)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), result.NotificationsWritten)
	f.registrationRepo.AssertExpectations(t)
	f.notifRepo.AssertExpectations(t)
}

func TestRunTick_NothingDue(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	event := domain.ScheduledEvent{
		ID:                 uuid.New(),
		OrganizerID:        uuid.New(),
		Title:              "Career fair",
		StartAt:            time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC),
		FirstRemindMinutes: minutes(60),
	}
	now := event.StartAt.Add(-3 * time.Hour)

	f.eventRepo.On("GetUpcoming", ctx, now).Return([]domain.ScheduledEvent{event}, nil).Once()

	result, err := f.svc.RunTick(ctx, now)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.EventsConsidered)
	assert.Equal(t, int64(0), result.NotificationsWritten)
	f.registrationRepo.AssertNotCalled(t, "GetRegisteredUsers")
	f.notifRepo.AssertNotCalled(t, "InsertMany")
}

func TestRunTick_MalformedEventSkippedOthersProcessed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	start := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	malformed := domain.ScheduledEvent{
		ID:                 uuid.New(),
		OrganizerID:        uuid.New(),
		Title:              "Broken",
		StartAt:            start,
		FirstRemindMinutes: minutes(-30),
	}
	healthy := domain.ScheduledEvent{
		ID:                 uuid.New(),
		OrganizerID:        uuid.New(),
		Title:              "Healthy",
		StartAt:            start,
		FirstRemindMinutes: minutes(60),
	}
	u1 := uuid.New()
	now := start.Add(-62 * time.Minute)

	f.eventRepo.On("GetUpcoming", ctx, now).Return([]domain.ScheduledEvent{malformed, healthy}, nil).Once()
	f.registrationRepo.On("GetRegisteredUsers", ctx, healthy.ID).Return([]uuid.UUID{u1}, nil).Once()
	f.notifRepo.On("InsertMany", ctx, mock.Anything).Return(int64(1), nil).Once()

	result, err := f.svc.RunTick(ctx, now)

	assert.NoError(t, err)
	assert.Equal(t, 2, result.EventsConsidered)
	assert.Equal(t, int64(1), result.NotificationsWritten)
	f.registrationRepo.AssertNotCalled(t, "GetRegisteredUsers", ctx, malformed.ID)
}

func TestRunTick_ResolutionFailureSkipsEventOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	start := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	failing := domain.ScheduledEvent{
		ID:                 uuid.New(),
		OrganizerID:        uuid.New(),
		Title:              "Failing",
		StartAt:            start,
		FirstRemindMinutes: minutes(60),
	}
	healthy := domain.ScheduledEvent{
		ID:                 uuid.New(),
		OrganizerID:        uuid.New(),
		Title:              "Healthy",
		StartAt:            start,
		FirstRemindMinutes: minutes(60),
	}
	u1 := uuid.New()
	now := start.Add(-62 * time.Minute)

	f.eventRepo.On("GetUpcoming", ctx, now).Return([]domain.ScheduledEvent{failing, healthy}, nil).Once()
	f.registrationRepo.On("GetRegisteredUsers", ctx, failing.ID).Return(nil, errors.New("timeout")).Once()
	f.registrationRepo.On("GetRegisteredUsers", ctx, healthy.ID).Return([]uuid.UUID{u1}, nil).Once()
	f.notifRepo.On("InsertMany", ctx, mock.MatchedBy(func(records []domain.Notification) bool {
		return len(records) == 1 && records[0].SourceID == healthy.ID
	})).Return(int64(1), nil).Once()

	result, err := f.svc.RunTick(ctx, now)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), result.NotificationsWritten)
	f.notifRepo.AssertExpectations(t)
}

func TestRunTick_SinkFailureRetriedNextTick(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	start := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	event := domain.ScheduledEvent{
		ID:                 uuid.New(),
		OrganizerID:        uuid.New(),
		Title:              "Webinar",
		StartAt:            start,
		FirstRemindMinutes: minutes(60),
	}
	u1 := uuid.New()
	now := start.Add(-62 * time.Minute)

	f.eventRepo.On("GetUpcoming", ctx, now).Return([]domain.ScheduledEvent{event}, nil).Once()
	f.registrationRepo.On("GetRegisteredUsers", ctx, event.ID).Return([]uuid.UUID{u1}, nil).Once()
	f.notifRepo.On("InsertMany", ctx, mock.Anything).Return(int64(0), errors.New("deadlock")).Once()

	result, err := f.svc.RunTick(ctx, now)

	// The tick itself still succeeds; the event stays in the upcoming set
	// and the next tick's replay is absorbed by the unique constraint.
	assert.NoError(t, err)
	assert.Equal(t, int64(0), result.NotificationsWritten)
}

func TestRunTick_FailedCandidateLoadLeavesWindowClaimable(t *testing.T) {
	f := newFixture()
	lease := f.withLease()
	ctx := context.Background()

	start := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	event := domain.ScheduledEvent{
		ID:                 uuid.New(),
		OrganizerID:        uuid.New(),
		Title:              "Webinar",
		StartAt:            start,
		FirstRemindMinutes: minutes(60),
	}
	u1 := uuid.New()

	firstTry := start.Add(-62 * time.Minute)
	retry := firstTry.Add(time.Minute) // same window, retried invocation

	// The failed tick must not claim the window: the retry inside the
	// same window is the recovery path for a transient load failure.
	f.eventRepo.On("GetUpcoming", ctx, firstTry).Return(nil, errors.New("connection refused")).Once()
	f.eventRepo.On("GetUpcoming", ctx, retry).Return([]domain.ScheduledEvent{event}, nil).Once()
	lease.On("Acquire", ctx, schedule.WindowStart(retry, window)).Return(true, nil).Once()
	f.registrationRepo.On("GetRegisteredUsers", ctx, event.ID).Return([]uuid.UUID{u1}, nil).Once()
	f.notifRepo.On("InsertMany", ctx, mock.Anything).Return(int64(1), nil).Once()

	_, err := f.svc.RunTick(ctx, firstTry)
	assert.Error(t, err)
	lease.AssertNotCalled(t, "Acquire")

	result, err := f.svc.RunTick(ctx, retry)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), result.NotificationsWritten)
	lease.AssertExpectations(t)
	f.notifRepo.AssertExpectations(t)
}

func TestRunTick_WindowAlreadyClaimedSkips(t *testing.T) {
	f := newFixture()
	lease := f.withLease()
	ctx := context.Background()

	start := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	event := domain.ScheduledEvent{
		ID:                 uuid.New(),
		OrganizerID:        uuid.New(),
		Title:              "Webinar",
		StartAt:            start,
		FirstRemindMinutes: minutes(60),
	}
	now := start.Add(-62 * time.Minute)

	f.eventRepo.On("GetUpcoming", ctx, now).Return([]domain.ScheduledEvent{event}, nil).Once()
	lease.On("Acquire", ctx, schedule.WindowStart(now, window)).Return(false, nil).Once()

	result, err := f.svc.RunTick(ctx, now)

	assert.NoError(t, err)
	assert.Equal(t, 0, result.EventsConsidered)
	f.registrationRepo.AssertNotCalled(t, "GetRegisteredUsers")
	f.notifRepo.AssertNotCalled(t, "InsertMany")
}

func TestRunTick_LeaseErrorFailsOpen(t *testing.T) {
	f := newFixture()
	lease := f.withLease()
	ctx := context.Background()

	start := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	event := domain.ScheduledEvent{
		ID:                 uuid.New(),
		OrganizerID:        uuid.New(),
		Title:              "Webinar",
		StartAt:            start,
		FirstRemindMinutes: minutes(60),
	}
	u1 := uuid.New()
	now := start.Add(-62 * time.Minute)

	f.eventRepo.On("GetUpcoming", ctx, now).Return([]domain.ScheduledEvent{event}, nil).Once()
	lease.On("Acquire", ctx, schedule.WindowStart(now, window)).Return(false, errors.New("redis down")).Once()
	f.registrationRepo.On("GetRegisteredUsers", ctx, event.ID).Return([]uuid.UUID{u1}, nil).Once()
	f.notifRepo.On("InsertMany", ctx, mock.Anything).Return(int64(1), nil).Once()

	result, err := f.svc.RunTick(ctx, now)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), result.NotificationsWritten)
	f.notifRepo.AssertExpectations(t)
}

func TestRunTick_CandidateLoadFailureAbortsTick(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	now := time.Date(2025, 1, 9, 10, 0, 0, 0, time.UTC)

	f.eventRepo.On("GetUpcoming", ctx, now).Return(nil, errors.New("connection refused")).Once()

	result, err := f.svc.RunTick(ctx, now)

	assert.Error(t, err)
	assert.Equal(t, 0, result.EventsConsidered)
}

func TestPublishContent_FansOutToDedupedAudience(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	actor := uuid.New()
	org := uuid.New()
	post := uuid.New()
	u1 := uuid.New()
	u2 := uuid.New()
	u3 := uuid.New()

	f.followRepo.On("GetFollowers", ctx, domain.UserTarget(actor)).Return([]uuid.UUID{u1}, nil).Once()
	f.followRepo.On("GetFollowers", ctx, domain.OrganizationTarget(org)).Return([]uuid.UUID{u2, u1}, nil).Once()
	f.affiliationRepo.On("GetAffiliatedUsers", ctx, org).Return([]uuid.UUID{u3}, nil).Once()
	f.notifRepo.On("InsertMany", ctx, mock.MatchedBy(func(records []domain.Notification) bool {
		if len(records) != 3 {
			return false
		}
		for _, r := range records {
			if r.Type != domain.NotifNewContent || r.SourceID != post || r.Tier != domain.TierContent {
				return false
			}
		}
		return true
	})).Return(int64(3), nil).Once()

	written, err := f.svc.PublishContent(ctx, domain.ContentEvent{
		ActorID:      actor,
		SubjectOrgID: &org,
		PostID:       post,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(3), written)
	f.notifRepo.AssertExpectations(t)
}

func TestPublishContent_EmptyAudienceWritesNothing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	actor := uuid.New()

	f.followRepo.On("GetFollowers", ctx, domain.UserTarget(actor)).Return([]uuid.UUID{}, nil).Once()

	written, err := f.svc.PublishContent(ctx, domain.ContentEvent{ActorID: actor, PostID: uuid.New()})

	assert.NoError(t, err)
	assert.Equal(t, int64(0), written)
	f.notifRepo.AssertNotCalled(t, "InsertMany")
}

func TestPublishContent_InvalidEvent(t *testing.T) {
	f := newFixture()

	written, err := f.svc.PublishContent(context.Background(), domain.ContentEvent{})

	assert.ErrorIs(t, err, domain.ErrContentEventIncomplete)
	assert.Equal(t, int64(0), written)
}
