package server

import (
	"errors"
	"log"
	"net/http"

	"game-night/internal/store"

	"github.com/gin-gonic/gin"
)

// handleReserveSeat books the caller onto an event. Every reservation
// is written as "confirmed"; seats are not counted against MaxSeats
// here (waitlist policy is still an open product question). The
// advisory existence check keeps the common path friendly; the unique
// (user, event) index in the store is what actually prevents a
// double-book under racing requests.
func (s *Server) handleReserveSeat(c *gin.Context) {
	eventID, ok := pathID(c)
	if !ok {
		return
	}
	user, _ := userFrom(c)

	if _, err := s.store.GetUserReservation(user.ID, eventID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Already reserved"})
		return
	}
	if _, err := s.store.GetEvent(eventID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		return
	}

	reservation, err := s.store.CreateReservation(user.ID, eventID)
	if errors.Is(err, store.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"message": "Already reserved"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to reserve seat"})
		return
	}

	s.recordActivity(&user.ID, "reservation_created", map[string]any{"eventId": eventID})
	log.Printf("reservation created event_id=%d user_id=%d", eventID, user.ID)
	c.JSON(http.StatusOK, reservation)
}

// handleCancelReservation deletes the caller's reservation row.
// Idempotent: cancelling a seat that was never booked still succeeds.
func (s *Server) handleCancelReservation(c *gin.Context) {
	eventID, ok := pathID(c)
	if !ok {
		return
	}
	user, _ := userFrom(c)

	if err := s.store.DeleteReservation(user.ID, eventID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to cancel reservation"})
		return
	}
	s.recordActivity(&user.ID, "reservation_cancelled", map[string]any{"eventId": eventID})
	log.Printf("reservation cancelled event_id=%d user_id=%d", eventID, user.ID)
	c.Status(http.StatusNoContent)
}
