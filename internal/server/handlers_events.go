package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"game-night/internal/db"
	"game-night/internal/store"

	"github.com/gin-gonic/gin"
)

type createEventRequest struct {
	Title       string    `json:"title" binding:"required,max=128"`
	Description string    `json:"description" binding:"required,max=2048"`
	Date        time.Time `json:"date" binding:"required"`
	Location    string    `json:"location" binding:"required,max=256"`
	MaxSeats    int       `json:"maxSeats" binding:"required,gt=0"`
	GameID      *uint     `json:"gameId"`
}

// updateEventRequest is a partial body. GameID stays raw JSON so an
// explicit null (clear the fixed game) is distinguishable from the
// field being absent.
type updateEventRequest struct {
	Title       *string         `json:"title" binding:"omitempty,max=128"`
	Description *string         `json:"description" binding:"omitempty,max=2048"`
	Date        *time.Time      `json:"date"`
	Location    *string         `json:"location" binding:"omitempty,max=256"`
	MaxSeats    *int            `json:"maxSeats" binding:"omitempty,gt=0"`
	GameID      json.RawMessage `json:"gameId"`
	IsCompleted *bool           `json:"isCompleted"`
	AttendeeIDs []uint          `json:"attendeeIds"`
}

func (s *Server) handleListEvents(c *gin.Context) {
	var viewerID uint
	if user, ok := userFrom(c); ok {
		viewerID = user.ID
	}
	events, err := s.store.ListEvents(viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load events"})
		return
	}
	c.JSON(http.StatusOK, events)
}

func (s *Server) handleCreateEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid event body"})
		return
	}
	if req.GameID != nil {
		if _, err := s.store.GetGame(*req.GameID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Game not found"})
			return
		}
	}

	event, err := s.store.CreateEvent(db.Event{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		MaxSeats:    req.MaxSeats,
		GameID:      req.GameID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create event"})
		return
	}

	admin, _ := userFrom(c)
	s.recordActivity(&admin.ID, "event_created", map[string]any{"eventId": event.ID, "title": event.Title})
	log.Printf("event created event_id=%d max_seats=%d", event.ID, event.MaxSeats)
	c.JSON(http.StatusCreated, event)
}

func (s *Server) handleUpdateEvent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid event body"})
		return
	}

	updates := store.EventUpdate{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		MaxSeats:    req.MaxSeats,
		IsCompleted: req.IsCompleted,
	}
	if len(req.GameID) > 0 {
		gameID, cleared, err := parseNullableID(req.GameID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid event body"})
			return
		}
		if cleared {
			var empty *uint
			updates.GameID = &empty
		} else {
			if _, err := s.store.GetGame(*gameID); err != nil {
				c.JSON(http.StatusNotFound, gin.H{"message": "Game not found"})
				return
			}
			updates.GameID = &gameID
		}
	}

	event, err := s.store.UpdateEvent(id, updates)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update event"})
		return
	}

	// Completing an event settles attendance and pays out loyalty
	// dice in one transactional pass.
	if req.IsCompleted != nil && *req.IsCompleted && req.AttendeeIDs != nil {
		if err := s.store.CompleteEventAttendance(id, req.AttendeeIDs); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to record attendance"})
			return
		}
		log.Printf("event completed event_id=%d attendees=%d", id, len(req.AttendeeIDs))
	}

	admin, _ := userFrom(c)
	s.recordActivity(&admin.ID, "event_updated", map[string]any{"eventId": event.ID})
	c.JSON(http.StatusOK, event)
}

func (s *Server) handleDeleteEvent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.store.DeleteEvent(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete event"})
		return
	}
	admin, _ := userFrom(c)
	s.recordActivity(&admin.ID, "event_deleted", map[string]any{"eventId": id})
	log.Printf("event deleted event_id=%d", id)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListEventReservations(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if _, err := s.store.GetEvent(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		return
	}
	reservations, err := s.store.ListReservationsByEvent(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load reservations"})
		return
	}
	c.JSON(http.StatusOK, reservations)
}

// parseNullableID reads a JSON value that is either a positive
// integer or an explicit null.
func parseNullableID(raw json.RawMessage) (*uint, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, true, nil
	}
	value, err := strconv.ParseUint(string(trimmed), 10, 32)
	if err != nil || value == 0 {
		return nil, false, errors.New("invalid id")
	}
	id := uint(value)
	return &id, false, nil
}
