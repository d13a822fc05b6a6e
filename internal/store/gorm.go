package store

import (
	"encoding/json"
	"errors"
	"sort"

	"game-night/internal/db"

	"gorm.io/gorm"
)

type gormStore struct {
	conn *gorm.DB
}

// NewGorm wraps a GORM connection in the Storage interface.
func NewGorm(conn *gorm.DB) Storage {
	return &gormStore{conn: conn}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	default:
		return err
	}
}

// Users

func (s *gormStore) GetUser(id uint) (db.User, error) {
	var user db.User
	err := s.conn.First(&user, id).Error
	return user, translate(err)
}

func (s *gormStore) GetUserByUsername(username string) (db.User, error) {
	var user db.User
	err := s.conn.Where("username = ?", username).First(&user).Error
	return user, translate(err)
}

func (s *gormStore) CreateUser(user db.User) (db.User, error) {
	err := s.conn.Create(&user).Error
	return user, translate(err)
}

func (s *gormStore) UpdateUser(id uint, updates UserUpdate) (db.User, error) {
	fields := map[string]any{}
	if updates.Dice != nil {
		fields["dice"] = *updates.Dice
	}
	if updates.TelegramID != nil {
		fields["telegram_id"] = *updates.TelegramID
	}
	if updates.IsTelegramVerified != nil {
		fields["is_telegram_verified"] = *updates.IsTelegramVerified
	}
	var user db.User
	if err := s.conn.First(&user, id).Error; err != nil {
		return user, translate(err)
	}
	if len(fields) > 0 {
		if err := s.conn.Model(&user).Updates(fields).Error; err != nil {
			return user, translate(err)
		}
	}
	return user, nil
}

func (s *gormStore) AwardDice(userID uint, amount int) error {
	result := s.conn.Model(&db.User{}).Where("id = ?", userID).
		Update("dice", gorm.Expr("dice + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Games

func (s *gormStore) ListGames() ([]db.Game, error) {
	var games []db.Game
	err := s.conn.Order("title asc").Find(&games).Error
	return games, err
}

func (s *gormStore) GetGame(id uint) (db.Game, error) {
	var game db.Game
	err := s.conn.First(&game, id).Error
	return game, translate(err)
}

func (s *gormStore) CreateGame(game db.Game) (db.Game, error) {
	err := s.conn.Create(&game).Error
	return game, translate(err)
}

func (s *gormStore) UpdateGame(id uint, updates GameUpdate) (db.Game, error) {
	var game db.Game
	if err := s.conn.First(&game, id).Error; err != nil {
		return game, translate(err)
	}
	fields := map[string]any{}
	if updates.Title != nil {
		fields["title"] = *updates.Title
	}
	if updates.Description != nil {
		fields["description"] = *updates.Description
	}
	if updates.ImageURL != nil {
		fields["image_url"] = *updates.ImageURL
	}
	if updates.MinPlayers != nil {
		fields["min_players"] = *updates.MinPlayers
	}
	if updates.MaxPlayers != nil {
		fields["max_players"] = *updates.MaxPlayers
	}
	if len(fields) > 0 {
		if err := s.conn.Model(&game).Updates(fields).Error; err != nil {
			return game, translate(err)
		}
	}
	return game, nil
}

// DeleteGame removes the game, drops any nominations (and their
// votes) that pointed at it, and reopens the fixed-game slot on
// events that had it pinned.
func (s *gormStore) DeleteGame(id uint) error {
	return s.conn.Transaction(func(tx *gorm.DB) error {
		var game db.Game
		if err := tx.First(&game, id).Error; err != nil {
			return translate(err)
		}
		var nominationIDs []uint
		if err := tx.Model(&db.Nomination{}).Where("game_id = ?", id).
			Pluck("id", &nominationIDs).Error; err != nil {
			return err
		}
		if len(nominationIDs) > 0 {
			if err := tx.Where("nomination_id IN ?", nominationIDs).Delete(&db.Vote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("game_id = ?", id).Delete(&db.Nomination{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&db.Event{}).Where("game_id = ?", id).
			Update("game_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Game{}, id).Error
	})
}

// Events

func (s *gormStore) ListEvents(viewerID uint) ([]EventWithDetails, error) {
	var events []db.Event
	if err := s.conn.Preload("Game").Order("date desc").Find(&events).Error; err != nil {
		return nil, err
	}

	type eventCount struct {
		EventID uint
		Total   int
	}
	var counts []eventCount
	if err := s.conn.Model(&db.Reservation{}).
		Select("event_id as event_id, count(*) as total").
		Group("event_id").Scan(&counts).Error; err != nil {
		return nil, err
	}
	countByEvent := make(map[uint]int, len(counts))
	for _, c := range counts {
		countByEvent[c.EventID] = c.Total
	}

	statusByEvent := map[uint]string{}
	if viewerID != 0 {
		var mine []db.Reservation
		if err := s.conn.Where("user_id = ?", viewerID).Find(&mine).Error; err != nil {
			return nil, err
		}
		for _, r := range mine {
			statusByEvent[r.EventID] = r.Status
		}
	}

	details := make([]EventWithDetails, 0, len(events))
	for _, event := range events {
		row := EventWithDetails{
			Event:         event,
			Game:          event.Game,
			AttendeeCount: countByEvent[event.ID],
		}
		if status, ok := statusByEvent[event.ID]; ok {
			row.UserReservationStatus = &status
		}
		details = append(details, row)
	}
	return details, nil
}

func (s *gormStore) GetEvent(id uint) (db.Event, error) {
	var event db.Event
	err := s.conn.Preload("Game").First(&event, id).Error
	return event, translate(err)
}

func (s *gormStore) CreateEvent(event db.Event) (db.Event, error) {
	err := s.conn.Create(&event).Error
	return event, translate(err)
}

func (s *gormStore) UpdateEvent(id uint, updates EventUpdate) (db.Event, error) {
	var event db.Event
	if err := s.conn.First(&event, id).Error; err != nil {
		return event, translate(err)
	}
	fields := map[string]any{}
	if updates.Title != nil {
		fields["title"] = *updates.Title
	}
	if updates.Description != nil {
		fields["description"] = *updates.Description
	}
	if updates.Date != nil {
		fields["date"] = *updates.Date
	}
	if updates.Location != nil {
		fields["location"] = *updates.Location
	}
	if updates.MaxSeats != nil {
		fields["max_seats"] = *updates.MaxSeats
	}
	if updates.IsCompleted != nil {
		fields["is_completed"] = *updates.IsCompleted
	}
	if updates.GameID != nil {
		fields["game_id"] = *updates.GameID
	}
	if len(fields) > 0 {
		if err := s.conn.Model(&event).Updates(fields).Error; err != nil {
			return event, translate(err)
		}
	}
	return event, nil
}

func (s *gormStore) DeleteEvent(id uint) error {
	return s.conn.Transaction(func(tx *gorm.DB) error {
		var event db.Event
		if err := tx.First(&event, id).Error; err != nil {
			return translate(err)
		}
		var nominationIDs []uint
		if err := tx.Model(&db.Nomination{}).Where("event_id = ?", id).
			Pluck("id", &nominationIDs).Error; err != nil {
			return err
		}
		if len(nominationIDs) > 0 {
			if err := tx.Where("nomination_id IN ?", nominationIDs).Delete(&db.Vote{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("event_id = ?", id).Delete(&db.Nomination{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&db.Reservation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Event{}, id).Error
	})
}

// Reservations

func (s *gormStore) ListReservationsByEvent(eventID uint) ([]ReservationWithUser, error) {
	var reservations []db.Reservation
	if err := s.conn.Where("event_id = ?", eventID).Find(&reservations).Error; err != nil {
		return nil, err
	}
	rows := make([]ReservationWithUser, 0, len(reservations))
	for _, reservation := range reservations {
		var user db.User
		if err := s.conn.First(&user, reservation.UserID).Error; err != nil {
			return nil, err
		}
		rows = append(rows, ReservationWithUser{Reservation: reservation, User: user})
	}
	return rows, nil
}

func (s *gormStore) GetUserReservation(userID, eventID uint) (db.Reservation, error) {
	var reservation db.Reservation
	err := s.conn.Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&reservation).Error
	return reservation, translate(err)
}

func (s *gormStore) CreateReservation(userID, eventID uint) (db.Reservation, error) {
	reservation := db.Reservation{
		UserID:  userID,
		EventID: eventID,
		Status:  db.ReservationConfirmed,
	}
	err := s.conn.Create(&reservation).Error
	return reservation, translate(err)
}

func (s *gormStore) DeleteReservation(userID, eventID uint) error {
	return s.conn.Where("user_id = ? AND event_id = ?", userID, eventID).
		Delete(&db.Reservation{}).Error
}

func (s *gormStore) CompleteEventAttendance(eventID uint, userIDs []uint) error {
	return s.conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Reservation{}).Where("event_id = ?", eventID).
			Update("attended", false).Error; err != nil {
			return err
		}
		if len(userIDs) == 0 {
			return nil
		}
		if err := tx.Model(&db.Reservation{}).
			Where("event_id = ? AND user_id IN ?", eventID, userIDs).
			Update("attended", true).Error; err != nil {
			return err
		}
		for _, userID := range userIDs {
			if err := tx.Model(&db.User{}).Where("id = ?", userID).
				Update("dice", gorm.Expr("dice + ?", 1)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Nominations and votes

func (s *gormStore) ListNominationsByEvent(eventID, viewerID uint) ([]NominationWithDetails, error) {
	var nominations []db.Nomination
	if err := s.conn.Where("event_id = ?", eventID).Find(&nominations).Error; err != nil {
		return nil, err
	}

	rows := make([]NominationWithDetails, 0, len(nominations))
	for _, nomination := range nominations {
		var game db.Game
		if err := s.conn.First(&game, nomination.GameID).Error; err != nil {
			return nil, err
		}
		var voteCount int64
		if err := s.conn.Model(&db.Vote{}).Where("nomination_id = ?", nomination.ID).
			Count(&voteCount).Error; err != nil {
			return nil, err
		}
		hasVoted := false
		if viewerID != 0 {
			var matched int64
			if err := s.conn.Model(&db.Vote{}).
				Where("nomination_id = ? AND user_id = ?", nomination.ID, viewerID).
				Count(&matched).Error; err != nil {
				return nil, err
			}
			hasVoted = matched > 0
		}
		rows = append(rows, NominationWithDetails{
			Nomination: nomination,
			Game:       game,
			VoteCount:  int(voteCount),
			HasVoted:   hasVoted,
		})
	}
	sortNominations(rows)
	return rows, nil
}

// sortNominations orders by vote count descending with id ascending
// as the tie-break so the listing is stable between fetches.
func sortNominations(rows []NominationWithDetails) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].VoteCount != rows[j].VoteCount {
			return rows[i].VoteCount > rows[j].VoteCount
		}
		return rows[i].ID < rows[j].ID
	})
}

func (s *gormStore) GetNomination(id uint) (db.Nomination, error) {
	var nomination db.Nomination
	err := s.conn.First(&nomination, id).Error
	return nomination, translate(err)
}

func (s *gormStore) CreateNomination(userID, eventID, gameID uint) (db.Nomination, error) {
	nomination := db.Nomination{
		EventID:     eventID,
		GameID:      gameID,
		NominatedBy: userID,
	}
	err := s.conn.Create(&nomination).Error
	return nomination, translate(err)
}

func (s *gormStore) GetVote(userID, nominationID uint) (db.Vote, error) {
	var vote db.Vote
	err := s.conn.Where("user_id = ? AND nomination_id = ?", userID, nominationID).
		First(&vote).Error
	return vote, translate(err)
}

func (s *gormStore) CreateVote(userID, nominationID uint) (db.Vote, error) {
	vote := db.Vote{
		NominationID: nominationID,
		UserID:       userID,
	}
	err := s.conn.Create(&vote).Error
	return vote, translate(err)
}

// Game suggestions

func (s *gormStore) ListGameSuggestions() ([]db.GameSuggestion, error) {
	var suggestions []db.GameSuggestion
	err := s.conn.Order("created_at desc").Find(&suggestions).Error
	return suggestions, err
}

func (s *gormStore) CreateGameSuggestion(userID uint, title, description string) (db.GameSuggestion, error) {
	suggestion := db.GameSuggestion{
		Title:       title,
		Description: description,
		SuggestedBy: userID,
		Status:      db.SuggestionPending,
	}
	err := s.conn.Create(&suggestion).Error
	return suggestion, translate(err)
}

func (s *gormStore) UpdateGameSuggestionStatus(id uint, status string) (db.GameSuggestion, error) {
	var suggestion db.GameSuggestion
	if err := s.conn.First(&suggestion, id).Error; err != nil {
		return suggestion, translate(err)
	}
	if err := s.conn.Model(&suggestion).Update("status", status).Error; err != nil {
		return suggestion, err
	}
	return suggestion, nil
}

// Sessions

func (s *gormStore) CreateSession(id string, userID uint) error {
	record := db.Session{ID: id, UserID: userID}
	return s.conn.Save(&record).Error
}

func (s *gormStore) GetSession(id string) (db.Session, error) {
	var record db.Session
	err := s.conn.Where("id = ?", id).First(&record).Error
	return record, translate(err)
}

func (s *gormStore) DeleteSession(id string) error {
	return s.conn.Delete(&db.Session{}, "id = ?", id).Error
}

func (s *gormStore) TouchSession(id string) error {
	return s.conn.Model(&db.Session{}).Where("id = ?", id).
		Update("updated_at", gorm.Expr("now()")).Error
}

// Activity feed

func (s *gormStore) RecordActivity(userID *uint, action string, payload map[string]any) error {
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	record := db.Activity{
		UserID:  userID,
		Action:  action,
		Payload: raw,
	}
	return s.conn.Create(&record).Error
}

func (s *gormStore) ListActivities(limit int) ([]db.Activity, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var records []db.Activity
	err := s.conn.Order("created_at desc").Limit(limit).Find(&records).Error
	return records, err
}
