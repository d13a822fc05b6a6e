package db

import (
	"time"

	"gorm.io/datatypes"
)

// Activity is the append-only audit trail behind the admin feed.
type Activity struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    *uint          `gorm:"index" json:"userId"`
	Action    string         `gorm:"size:64;not null" json:"action"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null" json:"payload"`
	CreatedAt time.Time      `gorm:"not null" json:"createdAt"`
}
