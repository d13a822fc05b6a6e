package server

import (
	"errors"
	"log"
	"net/http"
	"time"

	"game-night/internal/db"
	"game-night/internal/store"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const contextUserKey = "currentUser"

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32,username"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// currentUser resolves the session cookie and stashes the user in the
// gin context. Anonymous requests pass through untouched.
func (s *Server) currentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := s.sessions.UserID(c); userID != 0 {
			if user, err := s.store.GetUser(userID); err == nil {
				c.Set(contextUserKey, user)
			}
		}
		c.Next()
	}
}

func (s *Server) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := userFrom(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			return
		}
		c.Next()
	}
}

func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := userFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			return
		}
		if user.Role != db.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
			return
		}
		c.Next()
	}
}

func userFrom(c *gin.Context) (db.User, bool) {
	value, ok := c.Get(contextUserKey)
	if !ok {
		return db.User{}, false
	}
	user, ok := value.(db.User)
	return user, ok
}

func (s *Server) sessionTTL() time.Duration {
	return time.Duration(s.cfg.SessionTTLHours) * time.Hour
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username and password are required"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to register"})
		return
	}

	user, err := s.store.CreateUser(db.User{
		Username: req.Username,
		Password: string(hash),
		Role:     db.RoleMember,
	})
	if errors.Is(err, store.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"message": "Username already taken"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to register"})
		return
	}

	if err := s.sessions.Issue(c, user.ID, s.sessionTTL()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to register"})
		return
	}
	s.recordActivity(&user.ID, "user_registered", map[string]any{"username": user.Username})
	log.Printf("user registered user_id=%d username=%s", user.ID, user.Username)
	c.JSON(http.StatusCreated, user)
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username and password are required"})
		return
	}

	user, err := s.store.GetUserByUsername(req.Username)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password"})
		return
	}

	if err := s.sessions.Issue(c, user.ID, s.sessionTTL()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to log in"})
		return
	}
	log.Printf("user logged in user_id=%d username=%s", user.ID, user.Username)
	c.JSON(http.StatusOK, user)
}

func (s *Server) handleLogout(c *gin.Context) {
	s.sessions.Clear(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (s *Server) handleCurrentUser(c *gin.Context) {
	user, ok := userFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// recordActivity appends to the audit trail; feed failures are logged
// and never fail the request that triggered them.
func (s *Server) recordActivity(userID *uint, action string, payload map[string]any) {
	if err := s.store.RecordActivity(userID, action, payload); err != nil {
		log.Printf("activity record failed action=%s err=%v", action, err)
	}
}
