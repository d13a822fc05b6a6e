package server

import (
	"errors"
	"log"
	"net/http"

	"game-night/internal/store"

	"github.com/gin-gonic/gin"
)

type suggestGameRequest struct {
	Title       string `json:"title" binding:"required,max=128"`
	Description string `json:"description" binding:"required,max=1024"`
}

type updateSuggestionRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

func (s *Server) handleSuggestGame(c *gin.Context) {
	var req suggestGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Title and description are required"})
		return
	}
	user, _ := userFrom(c)

	suggestion, err := s.store.CreateGameSuggestion(user.ID, req.Title, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to submit suggestion"})
		return
	}
	s.recordActivity(&user.ID, "suggestion_created", map[string]any{"suggestionId": suggestion.ID, "title": suggestion.Title})
	log.Printf("suggestion created suggestion_id=%d user_id=%d", suggestion.ID, user.ID)
	c.JSON(http.StatusCreated, suggestion)
}

func (s *Server) handleListSuggestions(c *gin.Context) {
	suggestions, err := s.store.ListGameSuggestions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load suggestions"})
		return
	}
	c.JSON(http.StatusOK, suggestions)
}

// handleUpdateSuggestion moves a suggestion to approved or rejected.
// Approval does not add the game to the catalog; that stays a manual
// admin step.
func (s *Server) handleUpdateSuggestion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Status must be approved or rejected"})
		return
	}
	suggestion, err := s.store.UpdateGameSuggestionStatus(id, req.Status)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Suggestion not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update suggestion"})
		return
	}
	admin, _ := userFrom(c)
	s.recordActivity(&admin.ID, "suggestion_updated", map[string]any{"suggestionId": id, "status": req.Status})
	log.Printf("suggestion updated suggestion_id=%d status=%s", id, req.Status)
	c.JSON(http.StatusOK, suggestion)
}
