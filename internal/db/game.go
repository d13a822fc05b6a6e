package db

import "time"

type Game struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:128;not null" json:"title"`
	Description *string   `gorm:"size:1024" json:"description"`
	ImageURL    *string   `gorm:"size:512" json:"imageUrl"`
	MinPlayers  *int      `json:"minPlayers"`
	MaxPlayers  *int      `json:"maxPlayers"`
	CreatedAt   time.Time `gorm:"not null" json:"-"`
	UpdatedAt   time.Time `gorm:"not null" json:"-"`
}
