package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/designstudio-backend/pkg/types"
)

// DesignSession persists the last known wizard state for a shopper.
type DesignSession struct {
	ID         uuid.UUID          `gorm:"type:uuid;primaryKey"`
	Step       int                `gorm:"not null;default:1"`
	CurrentURL string             `gorm:"column:current_url;type:text;not null"`
	State      types.JSONDocument `gorm:"type:jsonb;not null"`
	CartID     *string            `gorm:"column:cart_id;type:text"`
	ExpiresAt  time.Time          `gorm:"type:timestamptz;not null"`
	CreatedAt  time.Time          `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt  time.Time          `gorm:"type:timestamptz;autoUpdateTime"`
}
