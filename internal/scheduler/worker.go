package scheduler

import (
	"context"
	"errors"
	"fmt"

	"user_management_backend/internal/identity"
	"user_management_backend/internal/users"
	"user_management_backend/platform/apperr"
	"user_management_backend/platform/config"
	"user_management_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// ProfileReader loads the current profile for a retried task.
type ProfileReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (users.Profile, error)
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	profiles ProfileReader
	provider identity.Provider
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, profiles ProfileReader, provider identity.Provider, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = defaultQueue
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 5
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	w := newWorker(profiles, provider, log)
	w.server = server
	return w, nil
}

func newWorker(profiles ProfileReader, provider identity.Provider, log *logger.Logger) *Worker {
	w := &Worker{
		mux:      asynq.NewServeMux(),
		profiles: profiles,
		provider: provider,
		log:      log,
	}
	w.mux.HandleFunc(TaskEmailSync, w.handleEmailSync)
	return w
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleEmailSync pushes the profile's current email, not the one from the
// failed attempt, so a later edit always wins.
func (w *Worker) handleEmailSync(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseEmailSyncPayload(task)
	if err != nil {
		return fmt.Errorf("parse payload: %v: %w", err, asynq.SkipRetry)
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return fmt.Errorf("parse user id: %v: %w", err, asynq.SkipRetry)
	}

	profile, err := w.profiles.GetByID(ctx, userID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			w.log.Warn("email sync skipped, profile gone", "user_id", payload.UserID)
			return nil
		}
		return err
	}

	email := profile.Email
	err = w.provider.UpdateUserByID(ctx, userID, identity.AdminUserUpdate{Email: &email})
	switch {
	case err == nil:
		w.log.Info("email sync applied", "user_id", payload.UserID)
		return nil
	case errors.Is(err, identity.ErrUserNotFound), errors.Is(err, identity.ErrEmailTaken):
		w.log.Error("email sync abandoned", "user_id", payload.UserID, "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	default:
		return err
	}
}
