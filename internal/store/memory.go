package store

import (
	"encoding/json"
	"sync"
	"time"

	"game-night/internal/db"
)

// memStore keeps everything in maps behind one mutex. It enforces the
// same uniqueness rules as the SQL schema so handler tests exercise
// real conflict paths.
type memStore struct {
	mu sync.Mutex

	nextID       map[string]uint
	users        map[uint]db.User
	games        map[uint]db.Game
	events       map[uint]db.Event
	reservations map[uint]db.Reservation
	nominations  map[uint]db.Nomination
	votes        map[uint]db.Vote
	suggestions  map[uint]db.GameSuggestion
	sessions     map[string]db.Session
	activities   []db.Activity
}

// NewMemory returns an empty in-memory Storage.
func NewMemory() Storage {
	return &memStore{
		nextID:       make(map[string]uint),
		users:        make(map[uint]db.User),
		games:        make(map[uint]db.Game),
		events:       make(map[uint]db.Event),
		reservations: make(map[uint]db.Reservation),
		nominations:  make(map[uint]db.Nomination),
		votes:        make(map[uint]db.Vote),
		suggestions:  make(map[uint]db.GameSuggestion),
		sessions:     make(map[string]db.Session),
	}
}

func (s *memStore) allocate(table string) uint {
	s.nextID[table]++
	return s.nextID[table]
}

// Users

func (s *memStore) GetUser(id uint) (db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return db.User{}, ErrNotFound
	}
	return user, nil
}

func (s *memStore) GetUserByUsername(username string) (db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return db.User{}, ErrNotFound
}

func (s *memStore) CreateUser(user db.User) (db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == user.Username {
			return db.User{}, ErrConflict
		}
	}
	user.ID = s.allocate("users")
	if user.Role == "" {
		user.Role = db.RoleMember
	}
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = user
	return user, nil
}

func (s *memStore) UpdateUser(id uint, updates UserUpdate) (db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return db.User{}, ErrNotFound
	}
	if updates.Dice != nil {
		user.Dice = *updates.Dice
	}
	if updates.TelegramID != nil {
		user.TelegramID = updates.TelegramID
	}
	if updates.IsTelegramVerified != nil {
		user.IsTelegramVerified = *updates.IsTelegramVerified
	}
	user.UpdatedAt = time.Now().UTC()
	s.users[id] = user
	return user, nil
}

func (s *memStore) AwardDice(userID uint, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.awardDiceLocked(userID, amount)
}

func (s *memStore) awardDiceLocked(userID uint, amount int) error {
	user, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	user.Dice += amount
	s.users[userID] = user
	return nil
}

// Games

func (s *memStore) ListGames() ([]db.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	games := make([]db.Game, 0, len(s.games))
	for _, game := range s.games {
		games = append(games, game)
	}
	sortGamesByTitle(games)
	return games, nil
}

func (s *memStore) GetGame(id uint) (db.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[id]
	if !ok {
		return db.Game{}, ErrNotFound
	}
	return game, nil
}

func (s *memStore) CreateGame(game db.Game) (db.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game.ID = s.allocate("games")
	game.CreatedAt = time.Now().UTC()
	game.UpdatedAt = game.CreatedAt
	s.games[game.ID] = game
	return game, nil
}

func (s *memStore) UpdateGame(id uint, updates GameUpdate) (db.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[id]
	if !ok {
		return db.Game{}, ErrNotFound
	}
	if updates.Title != nil {
		game.Title = *updates.Title
	}
	if updates.Description != nil {
		game.Description = updates.Description
	}
	if updates.ImageURL != nil {
		game.ImageURL = updates.ImageURL
	}
	if updates.MinPlayers != nil {
		game.MinPlayers = updates.MinPlayers
	}
	if updates.MaxPlayers != nil {
		game.MaxPlayers = updates.MaxPlayers
	}
	game.UpdatedAt = time.Now().UTC()
	s.games[id] = game
	return game, nil
}

func (s *memStore) DeleteGame(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return ErrNotFound
	}
	for nominationID, nomination := range s.nominations {
		if nomination.GameID != id {
			continue
		}
		for voteID, vote := range s.votes {
			if vote.NominationID == nominationID {
				delete(s.votes, voteID)
			}
		}
		delete(s.nominations, nominationID)
	}
	for eventID, event := range s.events {
		if event.GameID != nil && *event.GameID == id {
			event.GameID = nil
			s.events[eventID] = event
		}
	}
	delete(s.games, id)
	return nil
}

// Events

func (s *memStore) ListEvents(viewerID uint) ([]EventWithDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	details := make([]EventWithDetails, 0, len(s.events))
	for _, event := range s.events {
		row := EventWithDetails{Event: event}
		if event.GameID != nil {
			if game, ok := s.games[*event.GameID]; ok {
				row.Game = &game
			}
		}
		for _, reservation := range s.reservations {
			if reservation.EventID != event.ID {
				continue
			}
			row.AttendeeCount++
			if viewerID != 0 && reservation.UserID == viewerID {
				status := reservation.Status
				row.UserReservationStatus = &status
			}
		}
		details = append(details, row)
	}
	sortEventsByDateDesc(details)
	return details, nil
}

func (s *memStore) GetEvent(id uint) (db.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[id]
	if !ok {
		return db.Event{}, ErrNotFound
	}
	return event, nil
}

func (s *memStore) CreateEvent(event db.Event) (db.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event.ID = s.allocate("events")
	event.CreatedAt = time.Now().UTC()
	event.UpdatedAt = event.CreatedAt
	s.events[event.ID] = event
	return event, nil
}

func (s *memStore) UpdateEvent(id uint, updates EventUpdate) (db.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[id]
	if !ok {
		return db.Event{}, ErrNotFound
	}
	if updates.Title != nil {
		event.Title = *updates.Title
	}
	if updates.Description != nil {
		event.Description = *updates.Description
	}
	if updates.Date != nil {
		event.Date = *updates.Date
	}
	if updates.Location != nil {
		event.Location = *updates.Location
	}
	if updates.MaxSeats != nil {
		event.MaxSeats = *updates.MaxSeats
	}
	if updates.IsCompleted != nil {
		event.IsCompleted = *updates.IsCompleted
	}
	if updates.GameID != nil {
		event.GameID = *updates.GameID
	}
	event.UpdatedAt = time.Now().UTC()
	s.events[id] = event
	return event, nil
}

func (s *memStore) DeleteEvent(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return ErrNotFound
	}
	for nominationID, nomination := range s.nominations {
		if nomination.EventID != id {
			continue
		}
		for voteID, vote := range s.votes {
			if vote.NominationID == nominationID {
				delete(s.votes, voteID)
			}
		}
		delete(s.nominations, nominationID)
	}
	for reservationID, reservation := range s.reservations {
		if reservation.EventID == id {
			delete(s.reservations, reservationID)
		}
	}
	delete(s.events, id)
	return nil
}

// Reservations

func (s *memStore) ListReservationsByEvent(eventID uint) ([]ReservationWithUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]ReservationWithUser, 0)
	for _, reservation := range s.reservations {
		if reservation.EventID != eventID {
			continue
		}
		user, ok := s.users[reservation.UserID]
		if !ok {
			continue
		}
		rows = append(rows, ReservationWithUser{Reservation: reservation, User: user})
	}
	sortReservationsByID(rows)
	return rows, nil
}

func (s *memStore) GetUserReservation(userID, eventID uint) (db.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, reservation := range s.reservations {
		if reservation.UserID == userID && reservation.EventID == eventID {
			return reservation, nil
		}
	}
	return db.Reservation{}, ErrNotFound
}

func (s *memStore) CreateReservation(userID, eventID uint) (db.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.reservations {
		if existing.UserID == userID && existing.EventID == eventID {
			return db.Reservation{}, ErrConflict
		}
	}
	reservation := db.Reservation{
		ID:        s.allocate("reservations"),
		UserID:    userID,
		EventID:   eventID,
		Status:    db.ReservationConfirmed,
		CreatedAt: time.Now().UTC(),
	}
	reservation.UpdatedAt = reservation.CreatedAt
	s.reservations[reservation.ID] = reservation
	return reservation, nil
}

func (s *memStore) DeleteReservation(userID, eventID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, reservation := range s.reservations {
		if reservation.UserID == userID && reservation.EventID == eventID {
			delete(s.reservations, id)
		}
	}
	return nil
}

func (s *memStore) CompleteEventAttendance(eventID uint, userIDs []uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	attended := make(map[uint]bool, len(userIDs))
	for _, id := range userIDs {
		attended[id] = true
	}
	for id, reservation := range s.reservations {
		if reservation.EventID != eventID {
			continue
		}
		reservation.Attended = attended[reservation.UserID]
		s.reservations[id] = reservation
	}
	for _, userID := range userIDs {
		if err := s.awardDiceLocked(userID, 1); err != nil && err != ErrNotFound {
			return err
		}
	}
	return nil
}

// Nominations and votes

func (s *memStore) ListNominationsByEvent(eventID, viewerID uint) ([]NominationWithDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]NominationWithDetails, 0)
	for _, nomination := range s.nominations {
		if nomination.EventID != eventID {
			continue
		}
		game, ok := s.games[nomination.GameID]
		if !ok {
			continue
		}
		row := NominationWithDetails{Nomination: nomination, Game: game}
		for _, vote := range s.votes {
			if vote.NominationID != nomination.ID {
				continue
			}
			row.VoteCount++
			if viewerID != 0 && vote.UserID == viewerID {
				row.HasVoted = true
			}
		}
		rows = append(rows, row)
	}
	sortNominations(rows)
	return rows, nil
}

func (s *memStore) GetNomination(id uint) (db.Nomination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	nomination, ok := s.nominations[id]
	if !ok {
		return db.Nomination{}, ErrNotFound
	}
	return nomination, nil
}

func (s *memStore) CreateNomination(userID, eventID, gameID uint) (db.Nomination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	nomination := db.Nomination{
		ID:          s.allocate("nominations"),
		EventID:     eventID,
		GameID:      gameID,
		NominatedBy: userID,
		CreatedAt:   time.Now().UTC(),
	}
	nomination.UpdatedAt = nomination.CreatedAt
	s.nominations[nomination.ID] = nomination
	return nomination, nil
}

func (s *memStore) GetVote(userID, nominationID uint) (db.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, vote := range s.votes {
		if vote.UserID == userID && vote.NominationID == nominationID {
			return vote, nil
		}
	}
	return db.Vote{}, ErrNotFound
}

func (s *memStore) CreateVote(userID, nominationID uint) (db.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.votes {
		if existing.UserID == userID && existing.NominationID == nominationID {
			return db.Vote{}, ErrConflict
		}
	}
	vote := db.Vote{
		ID:           s.allocate("votes"),
		NominationID: nominationID,
		UserID:       userID,
		CreatedAt:    time.Now().UTC(),
	}
	vote.UpdatedAt = vote.CreatedAt
	s.votes[vote.ID] = vote
	return vote, nil
}

// Game suggestions

func (s *memStore) ListGameSuggestions() ([]db.GameSuggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	suggestions := make([]db.GameSuggestion, 0, len(s.suggestions))
	for _, suggestion := range s.suggestions {
		suggestions = append(suggestions, suggestion)
	}
	sortSuggestionsByCreatedDesc(suggestions)
	return suggestions, nil
}

func (s *memStore) CreateGameSuggestion(userID uint, title, description string) (db.GameSuggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	suggestion := db.GameSuggestion{
		ID:          s.allocate("suggestions"),
		Title:       title,
		Description: description,
		SuggestedBy: userID,
		Status:      db.SuggestionPending,
		CreatedAt:   time.Now().UTC(),
	}
	suggestion.UpdatedAt = suggestion.CreatedAt
	s.suggestions[suggestion.ID] = suggestion
	return suggestion, nil
}

func (s *memStore) UpdateGameSuggestionStatus(id uint, status string) (db.GameSuggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	suggestion, ok := s.suggestions[id]
	if !ok {
		return db.GameSuggestion{}, ErrNotFound
	}
	suggestion.Status = status
	suggestion.UpdatedAt = time.Now().UTC()
	s.suggestions[id] = suggestion
	return suggestion, nil
}

// Sessions

func (s *memStore) CreateSession(id string, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	s.sessions[id] = db.Session{ID: id, UserID: userID, CreatedAt: now, UpdatedAt: now}
	return nil
}

func (s *memStore) GetSession(id string) (db.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return db.Session{}, ErrNotFound
	}
	return session, nil
}

func (s *memStore) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *memStore) TouchSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	session.UpdatedAt = time.Now().UTC()
	s.sessions[id] = session
	return nil
}

// Activity feed

func (s *memStore) RecordActivity(userID *uint, action string, payload map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	s.activities = append(s.activities, db.Activity{
		ID:        s.allocate("activities"),
		UserID:    userID,
		Action:    action,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (s *memStore) ListActivities(limit int) ([]db.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	records := make([]db.Activity, 0, limit)
	for i := len(s.activities) - 1; i >= 0 && len(records) < limit; i-- {
		records = append(records, s.activities[i])
	}
	return records, nil
}
