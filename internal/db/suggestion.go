package db

import "time"

const (
	SuggestionPending  = "pending"
	SuggestionApproved = "approved"
	SuggestionRejected = "rejected"
)

// GameSuggestion is a member's pitch for the club library. Approval is
// a status change only; adding the game to the catalog stays a manual
// admin step.
type GameSuggestion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:128;not null" json:"title"`
	Description string    `gorm:"size:1024;not null" json:"description"`
	SuggestedBy uint      `gorm:"index;not null" json:"suggestedBy"`
	Status      string    `gorm:"size:16;not null;default:pending" json:"status"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null" json:"-"`
}
