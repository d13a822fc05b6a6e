package db

import "time"

type Nomination struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EventID     uint      `gorm:"index;not null" json:"eventId"`
	GameID      uint      `gorm:"index;not null" json:"gameId"`
	NominatedBy uint      `gorm:"index;not null" json:"nominatedBy"`
	CreatedAt   time.Time `gorm:"not null" json:"-"`
	UpdatedAt   time.Time `gorm:"not null" json:"-"`
}
