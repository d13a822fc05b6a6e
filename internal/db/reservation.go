package db

import "time"

const (
	ReservationConfirmed = "confirmed"
	ReservationWaitlist  = "waitlist"
	ReservationCancelled = "cancelled"
)

// Reservation holds a member's seat at an event. Cancellation deletes
// the row rather than flipping Status, so the unique (user, event)
// index is the real double-booking guard.
type Reservation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null;uniqueIndex:idx_reservations_user_event" json:"userId"`
	EventID   uint      `gorm:"index;not null;uniqueIndex:idx_reservations_user_event" json:"eventId"`
	Status    string    `gorm:"size:16;not null;default:confirmed" json:"status"`
	Attended  bool      `gorm:"not null;default:false" json:"attended"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"-"`
}
