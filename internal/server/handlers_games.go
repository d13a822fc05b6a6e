package server

import (
	"errors"
	"log"
	"net/http"

	"game-night/internal/db"
	"game-night/internal/store"

	"github.com/gin-gonic/gin"
)

type createGameRequest struct {
	Title       string  `json:"title" binding:"required,max=128"`
	Description *string `json:"description" binding:"omitempty,max=1024"`
	ImageURL    *string `json:"imageUrl" binding:"omitempty,url,max=512"`
	MinPlayers  *int    `json:"minPlayers" binding:"omitempty,gt=0"`
	MaxPlayers  *int    `json:"maxPlayers" binding:"omitempty,gt=0"`
}

type updateGameRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=128"`
	Description *string `json:"description" binding:"omitempty,max=1024"`
	ImageURL    *string `json:"imageUrl" binding:"omitempty,url,max=512"`
	MinPlayers  *int    `json:"minPlayers" binding:"omitempty,gt=0"`
	MaxPlayers  *int    `json:"maxPlayers" binding:"omitempty,gt=0"`
}

func (s *Server) handleListGames(c *gin.Context) {
	games, err := s.store.ListGames()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load games"})
		return
	}
	c.JSON(http.StatusOK, games)
}

func (s *Server) handleCreateGame(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid game body"})
		return
	}
	game, err := s.store.CreateGame(db.Game{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		MinPlayers:  req.MinPlayers,
		MaxPlayers:  req.MaxPlayers,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create game"})
		return
	}
	admin, _ := userFrom(c)
	s.recordActivity(&admin.ID, "game_created", map[string]any{"gameId": game.ID, "title": game.Title})
	log.Printf("game created game_id=%d title=%q", game.ID, game.Title)
	c.JSON(http.StatusCreated, game)
}

func (s *Server) handleUpdateGame(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid game body"})
		return
	}
	game, err := s.store.UpdateGame(id, store.GameUpdate{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		MinPlayers:  req.MinPlayers,
		MaxPlayers:  req.MaxPlayers,
	})
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Game not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update game"})
		return
	}
	admin, _ := userFrom(c)
	s.recordActivity(&admin.ID, "game_updated", map[string]any{"gameId": game.ID})
	c.JSON(http.StatusOK, game)
}

func (s *Server) handleDeleteGame(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.store.DeleteGame(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Game not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete game"})
		return
	}
	admin, _ := userFrom(c)
	s.recordActivity(&admin.ID, "game_deleted", map[string]any{"gameId": id})
	log.Printf("game deleted game_id=%d", id)
	c.Status(http.StatusNoContent)
}
