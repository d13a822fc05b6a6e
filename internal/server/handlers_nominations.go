package server

import (
	"errors"
	"log"
	"net/http"

	"game-night/internal/store"

	"github.com/gin-gonic/gin"
)

type nominateRequest struct {
	GameID uint `json:"gameId" binding:"required"`
}

func (s *Server) handleListNominations(c *gin.Context) {
	eventID, ok := pathID(c)
	if !ok {
		return
	}
	var viewerID uint
	if user, ok := userFrom(c); ok {
		viewerID = user.ID
	}
	nominations, err := s.store.ListNominationsByEvent(eventID, viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load nominations"})
		return
	}
	c.JSON(http.StatusOK, nominations)
}

func (s *Server) handleNominateGame(c *gin.Context) {
	eventID, ok := pathID(c)
	if !ok {
		return
	}
	user, _ := userFrom(c)

	event, err := s.store.GetEvent(eventID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		return
	}
	if event.GameID != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Nominations are closed because a game is already set for this event."})
		return
	}

	var req nominateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "gameId is required"})
		return
	}
	if _, err := s.store.GetGame(req.GameID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Game not found"})
		return
	}

	nomination, err := s.store.CreateNomination(user.ID, eventID, req.GameID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to nominate game"})
		return
	}

	s.recordActivity(&user.ID, "nomination_created", map[string]any{"eventId": eventID, "gameId": req.GameID})
	log.Printf("nomination created event_id=%d game_id=%d user_id=%d", eventID, req.GameID, user.ID)
	c.JSON(http.StatusCreated, nomination)
}

func (s *Server) handleCastVote(c *gin.Context) {
	nominationID, ok := pathID(c)
	if !ok {
		return
	}
	user, _ := userFrom(c)

	if _, err := s.store.GetNomination(nominationID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Nomination not found"})
		return
	}
	if _, err := s.store.GetVote(user.ID, nominationID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Already voted"})
		return
	}

	vote, err := s.store.CreateVote(user.ID, nominationID)
	if errors.Is(err, store.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"message": "Already voted"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to cast vote"})
		return
	}

	s.recordActivity(&user.ID, "vote_cast", map[string]any{"nominationId": nominationID})
	log.Printf("vote cast nomination_id=%d user_id=%d", nominationID, user.ID)
	c.JSON(http.StatusOK, vote)
}
