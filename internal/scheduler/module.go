package scheduler

import (
	"context"

	"user_management_backend/internal/users"
	"user_management_backend/platform/events"
	"user_management_backend/platform/logger"
)

// EmailSyncSubscriber turns users.email_sync_failed events into queued retries.
type EmailSyncSubscriber struct {
	scheduler EmailSyncScheduler
	log       *logger.Logger
}

func NewEmailSyncSubscriber(scheduler EmailSyncScheduler, log *logger.Logger) *EmailSyncSubscriber {
	return &EmailSyncSubscriber{scheduler: scheduler, log: log}
}

// RegisterHandlers subscribes to the event bus.
func (s *EmailSyncSubscriber) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(users.EventEmailSyncFailed, events.HandlerFunc(s.handle))
}

func (s *EmailSyncSubscriber) handle(ctx context.Context, event events.Event) error {
	failed, ok := event.(users.EmailSyncFailed)
	if !ok {
		return nil
	}

	if err := s.scheduler.ScheduleEmailSync(ctx, EmailSyncPayload{UserID: failed.UserID.String()}); err != nil {
		s.log.WithContext(ctx).Error("failed to enqueue email sync", "user_id", failed.UserID.String(), "error", err)
		return err
	}
	s.log.WithContext(ctx).Info("email sync enqueued", "user_id", failed.UserID.String(), "event_id", failed.EventID().String())
	return nil
}
