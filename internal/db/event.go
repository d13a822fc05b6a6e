package db

import "time"

type Event struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:128;not null" json:"title"`
	Description string    `gorm:"size:2048;not null" json:"description"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	Location    string    `gorm:"size:256;not null" json:"location"`
	MaxSeats    int       `gorm:"not null" json:"maxSeats"`
	IsCompleted bool      `gorm:"not null;default:false" json:"isCompleted"`
	// Fixed game for the event; nominations close once set. The slot
	// reopens if the referenced game is deleted.
	GameID    *uint     `gorm:"index;constraint:OnDelete:SET NULL" json:"gameId"`
	Game      *Game     `gorm:"foreignKey:GameID" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
	UpdatedAt time.Time `gorm:"not null" json:"-"`
}
