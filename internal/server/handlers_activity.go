package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleListActivity(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			limit = value
		}
	}
	records, err := s.store.ListActivities(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load activity"})
		return
	}
	c.JSON(http.StatusOK, records)
}
