package designsessions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/designstudio-backend/pkg/db/models"
	"github.com/angelmondragon/designstudio-backend/pkg/types"
)

// Repository encapsulates design session persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, session *models.DesignSession) error {
	if session == nil || session.ID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	return r.db.WithContext(ctx).Create(session).Error
}

// FindActive loads the session unless it expired before now.
func (r *Repository) FindActive(ctx context.Context, id uuid.UUID, now time.Time) (*models.DesignSession, error) {
	var session models.DesignSession
	err := r.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", id, now.UTC()).
		First(&session).
		Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// StateUpdate is the wizard snapshot written after every mutation.
type StateUpdate struct {
	Step       int
	CurrentURL string
	State      types.JSONDocument
	ExpiresAt  time.Time
}

// SaveState overwrites the stored wizard state and slides the expiry.
func (r *Repository) SaveState(ctx context.Context, id uuid.UUID, update StateUpdate) error {
	result := r.db.WithContext(ctx).
		Model(&models.DesignSession{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"step":        update.Step,
			"current_url": update.CurrentURL,
			"state":       update.State,
			"expires_at":  update.ExpiresAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) SetCartID(ctx context.Context, id uuid.UUID, cartID string) error {
	result := r.db.WithContext(ctx).
		Model(&models.DesignSession{}).
		Where("id = ?", id).
		Update("cart_id", cartID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteExpired removes sessions that expired before now.
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", now.UTC()).
		Delete(&models.DesignSession{})
	return result.RowsAffected, result.Error
}
