package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"game-night/internal/store"

	"github.com/gin-gonic/gin"
)

// telegramAuthMaxAge bounds how old a login-widget payload may be.
const telegramAuthMaxAge = 24 * time.Hour

// telegramVerifyRequest is the payload the Telegram Login Widget
// hands to the client, forwarded verbatim.
type telegramVerifyRequest struct {
	ID        int64  `json:"id" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	PhotoURL  string `json:"photo_url"`
	AuthDate  int64  `json:"auth_date" binding:"required"`
	Hash      string `json:"hash" binding:"required"`
}

// handleTelegramVerify checks the widget signature and, when valid,
// pins the caller's Telegram identity to their club account.
func (s *Server) handleTelegramVerify(c *gin.Context) {
	if s.cfg.TelegramBotToken == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Telegram login is not configured"})
		return
	}
	var req telegramVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid Telegram payload"})
		return
	}
	if time.Since(time.Unix(req.AuthDate, 0)) > telegramAuthMaxAge {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Telegram login expired"})
		return
	}
	if !verifyTelegramHash(req, s.cfg.TelegramBotToken) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Telegram signature check failed"})
		return
	}

	user, _ := userFrom(c)
	telegramID := strconv.FormatInt(req.ID, 10)
	verified := true
	updated, err := s.store.UpdateUser(user.ID, store.UserUpdate{
		TelegramID:         &telegramID,
		IsTelegramVerified: &verified,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to verify Telegram account"})
		return
	}

	s.recordActivity(&user.ID, "telegram_verified", map[string]any{"telegramId": telegramID})
	log.Printf("telegram verified user_id=%d telegram_id=%s", user.ID, telegramID)
	c.JSON(http.StatusOK, updated)
}

// verifyTelegramHash recomputes the widget HMAC: SHA-256 over the
// newline-joined, key-sorted "key=value" lines of every field except
// hash, keyed with SHA-256(bot token).
func verifyTelegramHash(req telegramVerifyRequest, botToken string) bool {
	fields := map[string]string{
		"id":        strconv.FormatInt(req.ID, 10),
		"auth_date": strconv.FormatInt(req.AuthDate, 10),
	}
	if req.FirstName != "" {
		fields["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		fields["last_name"] = req.LastName
	}
	if req.Username != "" {
		fields["username"] = req.Username
	}
	if req.PhotoURL != "" {
		fields["photo_url"] = req.PhotoURL
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, fmt.Sprintf("%s=%s", key, fields[key]))
	}

	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(strings.Join(lines, "\n")))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(req.Hash)))
}
