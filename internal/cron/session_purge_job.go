package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/designstudio-backend/pkg/logger"
)

type expiredSessionDeleter interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// SessionPurgeJob deletes design sessions whose expiry has passed.
type SessionPurgeJob struct {
	logg *logger.Logger
	repo expiredSessionDeleter
	now  func() time.Time
}

func NewSessionPurgeJob(logg *logger.Logger, repo expiredSessionDeleter) (*SessionPurgeJob, error) {
	if logg == nil {
		return nil, errors.New("logger required")
	}
	if repo == nil {
		return nil, errors.New("design session repository required")
	}
	return &SessionPurgeJob{logg: logg, repo: repo, now: time.Now}, nil
}

func (j *SessionPurgeJob) Name() string { return "design-session-purge" }

func (j *SessionPurgeJob) Run(ctx context.Context) error {
	deleted, err := j.repo.DeleteExpired(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("purge expired design sessions: %w", err)
	}
	j.logg.Info(j.logg.WithField(ctx, "deleted", deleted), "design_session.purged")
	return nil
}
