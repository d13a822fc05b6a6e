package store

import (
	"sort"
	"strings"

	"game-night/internal/db"
)

func sortGamesByTitle(games []db.Game) {
	sort.SliceStable(games, func(i, j int) bool {
		return strings.ToLower(games[i].Title) < strings.ToLower(games[j].Title)
	})
}

func sortEventsByDateDesc(events []EventWithDetails) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.After(events[j].Date)
		}
		return events[i].ID < events[j].ID
	})
}

func sortReservationsByID(rows []ReservationWithUser) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ID < rows[j].ID
	})
}

func sortSuggestionsByCreatedDesc(suggestions []db.GameSuggestion) {
	sort.SliceStable(suggestions, func(i, j int) bool {
		if !suggestions[i].CreatedAt.Equal(suggestions[j].CreatedAt) {
			return suggestions[i].CreatedAt.After(suggestions[j].CreatedAt)
		}
		return suggestions[i].ID > suggestions[j].ID
	})
}
