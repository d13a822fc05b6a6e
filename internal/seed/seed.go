// Package seed loads the starter catalog used for demos and first
// deployments. Every loader is idempotent: it only writes into an
// empty table or when the named record is missing.
package seed

import (
	"log"
	"time"

	"game-night/internal/db"
	"game-night/internal/store"

	"golang.org/x/crypto/bcrypt"
)

func str(s string) *string { return &s }
func num(n int) *int       { return &n }

// DemoData inserts a handful of classic games and the weekly game
// night when the catalog is empty.
func DemoData(st store.Storage) error {
	games, err := st.ListGames()
	if err != nil {
		return err
	}
	if len(games) == 0 {
		starters := []db.Game{
			{Title: "Catan", Description: str("Trade, build, settle."), MinPlayers: num(3), MaxPlayers: num(4)},
			{Title: "Dixit", Description: str("A picture is worth a thousand words."), MinPlayers: num(3), MaxPlayers: num(6)},
			{Title: "Codenames", Description: str("The top secret word game."), MinPlayers: num(4), MaxPlayers: num(8)},
			{Title: "Ticket to Ride", Description: str("A cross-country train adventure."), MinPlayers: num(2), MaxPlayers: num(5)},
		}
		for _, game := range starters {
			if _, err := st.CreateGame(game); err != nil {
				return err
			}
		}
		log.Printf("seeded %d starter games", len(starters))
	}

	events, err := st.ListEvents(0)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		if _, err := st.CreateEvent(db.Event{
			Title:       "Friday Game Night",
			Description: "Join us for our weekly game night! Beginners welcome.",
			Date:        nextFriday(time.Now()),
			Location:    "English Club Center",
			MaxSeats:    20,
		}); err != nil {
			return err
		}
		log.Println("seeded weekly game night event")
	}
	return nil
}

// Admin makes sure the configured admin account exists. Skipped when
// no credentials are configured.
func Admin(st store.Storage, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	if _, err := st.GetUserByUsername(username); err == nil {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if _, err := st.CreateUser(db.User{
		Username: username,
		Password: string(hash),
		Role:     db.RoleAdmin,
	}); err != nil {
		return err
	}
	log.Printf("seeded admin account username=%s", username)
	return nil
}

// nextFriday returns the upcoming Friday at 19:00 local time.
func nextFriday(now time.Time) time.Time {
	days := (int(time.Friday) - int(now.Weekday()) + 7) % 7
	friday := now.AddDate(0, 0, days)
	return time.Date(friday.Year(), friday.Month(), friday.Day(), 19, 0, 0, 0, now.Location())
}
