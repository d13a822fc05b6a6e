package server

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"time"

	"game-night/internal/store"

	"github.com/gin-gonic/gin"
)

const sessionCookie = "gn_session"

// sessionStore binds the session cookie to a row in the sessions
// table. The cookie carries only a random id; everything else lives
// server side.
type sessionStore struct {
	store store.Storage
}

func newSessionStore(st store.Storage) *sessionStore {
	return &sessionStore{store: st}
}

// Issue creates a fresh session for the user and sets the cookie. Any
// session already named by the request cookie is discarded first so a
// login never reuses a pre-auth id.
func (s *sessionStore) Issue(c *gin.Context, userID uint, ttl time.Duration) error {
	if cookie, err := c.Cookie(sessionCookie); err == nil && cookie != "" {
		_ = s.store.DeleteSession(cookie)
	}
	id := newSessionID()
	if err := s.store.CreateSession(id, userID); err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, int(ttl.Seconds()), "/", "", false, true)
	return nil
}

// UserID resolves the request cookie to a user id, refreshing the
// session row's idle timer on the way. Returns 0 when the request
// carries no live session.
func (s *sessionStore) UserID(c *gin.Context) uint {
	cookie, err := c.Cookie(sessionCookie)
	if err != nil || cookie == "" {
		return 0
	}
	session, err := s.store.GetSession(cookie)
	if err != nil {
		return 0
	}
	_ = s.store.TouchSession(session.ID)
	return session.UserID
}

// Clear deletes the session row and expires the cookie.
func (s *sessionStore) Clear(c *gin.Context) {
	if cookie, err := c.Cookie(sessionCookie); err == nil && cookie != "" {
		_ = s.store.DeleteSession(cookie)
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
}

func newSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("sess-%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("%x", buf)
}
