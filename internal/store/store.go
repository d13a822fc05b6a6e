// Package store owns all persisted state. Handlers talk to the
// Storage interface only; the GORM implementation backs production
// and a mutex-guarded in-memory implementation backs tests.
package store

import (
	"errors"
	"time"

	"game-night/internal/db"
)

var (
	// ErrNotFound means the referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict means a uniqueness rule rejected the write
	// (duplicate username, reservation, or vote).
	ErrConflict = errors.New("record already exists")
)

// EventWithDetails is the denormalized event row returned to clients:
// the event, its fixed game if any, how many seats are taken, and the
// viewer's own reservation status (nil for anonymous callers or
// members without a reservation).
type EventWithDetails struct {
	db.Event
	Game                  *db.Game `json:"game"`
	AttendeeCount         int      `json:"attendeeCount"`
	UserReservationStatus *string  `json:"userReservationStatus"`
}

// ReservationWithUser is the admin attendee-list row.
type ReservationWithUser struct {
	db.Reservation
	User db.User `json:"user"`
}

// NominationWithDetails carries the nominated game, its vote total,
// and whether the viewer already voted.
type NominationWithDetails struct {
	db.Nomination
	Game      db.Game `json:"game"`
	VoteCount int     `json:"voteCount"`
	HasVoted  bool    `json:"hasVoted"`
}

// UserUpdate holds the mutable user fields for partial updates.
type UserUpdate struct {
	Dice               *int
	TelegramID         *string
	IsTelegramVerified *bool
}

// GameUpdate holds the mutable game fields for partial updates.
type GameUpdate struct {
	Title       *string
	Description *string
	ImageURL    *string
	MinPlayers  *int
	MaxPlayers  *int
}

// EventUpdate holds the mutable event fields for partial updates.
// GameID is a double pointer so "set to null" and "leave alone" stay
// distinguishable.
type EventUpdate struct {
	Title       *string
	Description *string
	Date        *time.Time
	Location    *string
	MaxSeats    *int
	IsCompleted *bool
	GameID      **uint
}

// Storage is the single point of truth for club state.
type Storage interface {
	// Users
	GetUser(id uint) (db.User, error)
	GetUserByUsername(username string) (db.User, error)
	CreateUser(user db.User) (db.User, error)
	UpdateUser(id uint, updates UserUpdate) (db.User, error)
	AwardDice(userID uint, amount int) error

	// Games
	ListGames() ([]db.Game, error)
	GetGame(id uint) (db.Game, error)
	CreateGame(game db.Game) (db.Game, error)
	UpdateGame(id uint, updates GameUpdate) (db.Game, error)
	DeleteGame(id uint) error

	// Events
	ListEvents(viewerID uint) ([]EventWithDetails, error)
	GetEvent(id uint) (db.Event, error)
	CreateEvent(event db.Event) (db.Event, error)
	UpdateEvent(id uint, updates EventUpdate) (db.Event, error)
	DeleteEvent(id uint) error

	// Reservations
	ListReservationsByEvent(eventID uint) ([]ReservationWithUser, error)
	GetUserReservation(userID, eventID uint) (db.Reservation, error)
	CreateReservation(userID, eventID uint) (db.Reservation, error)
	DeleteReservation(userID, eventID uint) error
	// CompleteEventAttendance resets attendance for every reservation
	// of the event, marks the given users attended, and awards each of
	// them one die, all inside a single transaction.
	CompleteEventAttendance(eventID uint, userIDs []uint) error

	// Nominations and votes
	ListNominationsByEvent(eventID, viewerID uint) ([]NominationWithDetails, error)
	GetNomination(id uint) (db.Nomination, error)
	CreateNomination(userID, eventID, gameID uint) (db.Nomination, error)
	GetVote(userID, nominationID uint) (db.Vote, error)
	CreateVote(userID, nominationID uint) (db.Vote, error)

	// Game suggestions
	ListGameSuggestions() ([]db.GameSuggestion, error)
	CreateGameSuggestion(userID uint, title, description string) (db.GameSuggestion, error)
	UpdateGameSuggestionStatus(id uint, status string) (db.GameSuggestion, error)

	// Sessions
	CreateSession(id string, userID uint) error
	GetSession(id string) (db.Session, error)
	DeleteSession(id string) error
	TouchSession(id string) error

	// Activity feed
	RecordActivity(userID *uint, action string, payload map[string]any) error
	ListActivities(limit int) ([]db.Activity, error)
}
