package db

import "time"

type Vote struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	NominationID uint      `gorm:"index;not null;uniqueIndex:idx_votes_nomination_user" json:"nominationId"`
	UserID       uint      `gorm:"index;not null;uniqueIndex:idx_votes_nomination_user" json:"userId"`
	CreatedAt    time.Time `gorm:"not null" json:"-"`
	UpdatedAt    time.Time `gorm:"not null" json:"-"`
}
