package db

import "time"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type User struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Username           string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Password           string    `gorm:"size:128;not null" json:"-"`
	Role               string    `gorm:"size:16;not null;default:member" json:"role"`
	Dice               int       `gorm:"not null;default:0" json:"dice"`
	TelegramID         *string   `gorm:"size:32" json:"telegramId"`
	IsTelegramVerified bool      `gorm:"not null;default:false" json:"isTelegramVerified"`
	CreatedAt          time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt          time.Time `gorm:"not null" json:"-"`
}
