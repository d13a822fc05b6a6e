package store

import (
	"errors"
	"testing"
	"time"

	"game-night/internal/db"
)

func seedUser(t *testing.T, st Storage, username string) db.User {
	t.Helper()
	user, err := st.CreateUser(db.User{Username: username, Password: "x"})
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func seedEvent(t *testing.T, st Storage) db.Event {
	t.Helper()
	event, err := st.CreateEvent(db.Event{
		Title:       "Game Night",
		Description: "Weekly session.",
		Date:        time.Now().Add(48 * time.Hour),
		Location:    "Club Center",
		MaxSeats:    12,
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return event
}

func seedGame(t *testing.T, st Storage, title string) db.Game {
	t.Helper()
	game, err := st.CreateGame(db.Game{Title: title})
	if err != nil {
		t.Fatalf("create game %s: %v", title, err)
	}
	return game
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	st := NewMemory()
	seedUser(t, st, "ada")

	_, err := st.CreateUser(db.User{Username: "ada", Password: "y"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestReservationUniquePerUserEvent(t *testing.T) {
	st := NewMemory()
	user := seedUser(t, st, "ada")
	event := seedEvent(t, st)

	if _, err := st.CreateReservation(user.ID, event.ID); err != nil {
		t.Fatalf("first reservation: %v", err)
	}
	_, err := st.CreateReservation(user.ID, event.ID)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// A different event is a fresh slot.
	other := seedEvent(t, st)
	if _, err := st.CreateReservation(user.ID, other.ID); err != nil {
		t.Fatalf("reservation on second event: %v", err)
	}
}

func TestVoteUniquePerUserNomination(t *testing.T) {
	st := NewMemory()
	user := seedUser(t, st, "ada")
	event := seedEvent(t, st)
	game := seedGame(t, st, "Catan")
	nomination, err := st.CreateNomination(user.ID, event.ID, game.ID)
	if err != nil {
		t.Fatalf("create nomination: %v", err)
	}

	if _, err := st.CreateVote(user.ID, nomination.ID); err != nil {
		t.Fatalf("first vote: %v", err)
	}
	_, err = st.CreateVote(user.ID, nomination.ID)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestDeleteGameCascade(t *testing.T) {
	st := NewMemory()
	user := seedUser(t, st, "ada")
	event := seedEvent(t, st)
	game := seedGame(t, st, "Catan")

	nomination, err := st.CreateNomination(user.ID, event.ID, game.ID)
	if err != nil {
		t.Fatalf("create nomination: %v", err)
	}
	if _, err := st.CreateVote(user.ID, nomination.ID); err != nil {
		t.Fatalf("create vote: %v", err)
	}
	gameID := &game.ID
	if _, err := st.UpdateEvent(event.ID, EventUpdate{GameID: &gameID}); err != nil {
		t.Fatalf("fix game on event: %v", err)
	}

	if err := st.DeleteGame(game.ID); err != nil {
		t.Fatalf("delete game: %v", err)
	}

	if _, err := st.GetNomination(nomination.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected nomination cascaded, got %v", err)
	}
	if _, err := st.GetVote(user.ID, nomination.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected vote cascaded, got %v", err)
	}
	updated, err := st.GetEvent(event.ID)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if updated.GameID != nil {
		t.Fatalf("expected event game slot cleared, got %v", *updated.GameID)
	}
}

func TestDeleteEventCascade(t *testing.T) {
	st := NewMemory()
	user := seedUser(t, st, "ada")
	event := seedEvent(t, st)
	game := seedGame(t, st, "Catan")

	if _, err := st.CreateReservation(user.ID, event.ID); err != nil {
		t.Fatalf("create reservation: %v", err)
	}
	nomination, err := st.CreateNomination(user.ID, event.ID, game.ID)
	if err != nil {
		t.Fatalf("create nomination: %v", err)
	}
	if _, err := st.CreateVote(user.ID, nomination.ID); err != nil {
		t.Fatalf("create vote: %v", err)
	}

	if err := st.DeleteEvent(event.ID); err != nil {
		t.Fatalf("delete event: %v", err)
	}

	if _, err := st.GetUserReservation(user.ID, event.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected reservation cascaded, got %v", err)
	}
	if _, err := st.GetNomination(nomination.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected nomination cascaded, got %v", err)
	}
	// The game itself survives its event.
	if _, err := st.GetGame(game.ID); err != nil {
		t.Fatalf("expected game to survive, got %v", err)
	}
}

func TestCompleteEventAttendance(t *testing.T) {
	st := NewMemory()
	ada := seedUser(t, st, "ada")
	bob := seedUser(t, st, "bob")
	event := seedEvent(t, st)
	for _, u := range []db.User{ada, bob} {
		if _, err := st.CreateReservation(u.ID, event.ID); err != nil {
			t.Fatalf("create reservation: %v", err)
		}
	}

	if err := st.CompleteEventAttendance(event.ID, []uint{ada.ID}); err != nil {
		t.Fatalf("complete attendance: %v", err)
	}

	adaAfter, _ := st.GetUser(ada.ID)
	if adaAfter.Dice != 1 {
		t.Fatalf("expected ada to hold 1 die, got %d", adaAfter.Dice)
	}
	bobAfter, _ := st.GetUser(bob.ID)
	if bobAfter.Dice != 0 {
		t.Fatalf("expected bob to hold 0 dice, got %d", bobAfter.Dice)
	}

	// Re-running with a corrected list resets the previous marks and
	// pays the newly listed attendees.
	if err := st.CompleteEventAttendance(event.ID, []uint{bob.ID}); err != nil {
		t.Fatalf("complete attendance again: %v", err)
	}
	rows, err := st.ListReservationsByEvent(event.ID)
	if err != nil {
		t.Fatalf("list reservations: %v", err)
	}
	for _, row := range rows {
		want := row.UserID == bob.ID
		if row.Attended != want {
			t.Fatalf("reservation user_id=%d attended=%v, want %v", row.UserID, row.Attended, want)
		}
	}
	adaAfter, _ = st.GetUser(ada.ID)
	if adaAfter.Dice != 1 {
		t.Fatalf("reset must not claw back dice, ada holds %d", adaAfter.Dice)
	}
}

func TestAwardDice(t *testing.T) {
	st := NewMemory()
	user := seedUser(t, st, "ada")

	if err := st.AwardDice(user.ID, 3); err != nil {
		t.Fatalf("award dice: %v", err)
	}
	after, _ := st.GetUser(user.ID)
	if after.Dice != 3 {
		t.Fatalf("expected 3 dice, got %d", after.Dice)
	}
	if err := st.AwardDice(999, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	st := NewMemory()
	user := seedUser(t, st, "ada")

	if err := st.CreateSession("abc123", user.ID); err != nil {
		t.Fatalf("create session: %v", err)
	}
	session, err := st.GetSession("abc123")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if session.UserID != user.ID {
		t.Fatalf("expected session for user %d, got %d", user.ID, session.UserID)
	}
	if err := st.TouchSession("abc123"); err != nil {
		t.Fatalf("touch session: %v", err)
	}
	if err := st.DeleteSession("abc123"); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, err := st.GetSession("abc123"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
