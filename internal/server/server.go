package server

import (
	"game-night/internal/config"
	"game-night/internal/store"

	"github.com/gin-gonic/gin"
)

type Server struct {
	store    store.Storage
	cfg      config.Config
	sessions *sessionStore
}

func New(st store.Storage, cfg config.Config) *Server {
	registerValidators()
	return &Server{
		store:    st,
		cfg:      cfg,
		sessions: newSessionStore(st),
	}
}

// Router wires the public API. Every route passes through currentUser
// so handlers can distinguish anonymous callers; requireUser and
// requireAdmin gate the mutating surfaces.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")
	api.Use(s.currentUser())

	api.POST("/register", s.handleRegister)
	api.POST("/login", s.handleLogin)
	api.POST("/logout", s.handleLogout)
	api.GET("/user", s.handleCurrentUser)

	api.GET("/events", s.handleListEvents)
	api.POST("/events", s.requireAdmin(), s.handleCreateEvent)
	api.PATCH("/events/:id", s.requireAdmin(), s.handleUpdateEvent)
	api.DELETE("/events/:id", s.requireAdmin(), s.handleDeleteEvent)
	api.GET("/events/:id/reservations", s.requireAdmin(), s.handleListEventReservations)

	api.POST("/events/:id/reserve", s.requireUser(), s.handleReserveSeat)
	api.DELETE("/events/:id/reserve", s.requireUser(), s.handleCancelReservation)

	api.GET("/events/:id/nominations", s.handleListNominations)
	api.POST("/events/:id/nominations", s.requireUser(), s.handleNominateGame)
	api.POST("/nominations/:id/vote", s.requireUser(), s.handleCastVote)

	api.GET("/games", s.handleListGames)
	api.POST("/games", s.requireAdmin(), s.handleCreateGame)
	api.POST("/games/suggest", s.requireUser(), s.handleSuggestGame)
	api.GET("/games/suggestions", s.requireAdmin(), s.handleListSuggestions)
	api.PATCH("/games/suggestions/:id", s.requireAdmin(), s.handleUpdateSuggestion)
	api.PATCH("/games/:id", s.requireAdmin(), s.handleUpdateGame)
	api.DELETE("/games/:id", s.requireAdmin(), s.handleDeleteGame)

	api.POST("/telegram/verify", s.requireUser(), s.handleTelegramVerify)
	api.GET("/activity", s.requireAdmin(), s.handleListActivity)

	return r
}
