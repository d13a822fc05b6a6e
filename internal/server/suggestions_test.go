package server

import (
	"net/http"
	"testing"
)

func TestSuggestGame(t *testing.T) {
	ts, _ := newTestServer(t)
	member := newClient(t)
	memberID := registerMember(t, member, ts, "ada")

	resp := doRequest(t, member, ts, http.MethodPost, "/api/games/suggest", map[string]any{
		"title":       "Wingspan",
		"description": "Engine building with birds.",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	suggestion := decodeBody(t, resp)
	if suggestion["status"] != "pending" {
		t.Fatalf("expected status pending, got %v", suggestion["status"])
	}
	if suggestion["suggestedBy"] != float64(memberID) {
		t.Fatalf("expected suggestedBy %d, got %v", memberID, suggestion["suggestedBy"])
	}
}

func TestSuggestGameRequiresLogin(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doRequest(t, newClient(t), ts, http.MethodPost, "/api/games/suggest", map[string]any{
		"title":       "Wingspan",
		"description": "Engine building with birds.",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, resp.StatusCode)
	}
}

func TestListSuggestionsAdminOnly(t *testing.T) {
	ts, st := newTestServer(t)
	member := newClient(t)
	registerMember(t, member, ts, "ada")
	doRequest(t, member, ts, http.MethodPost, "/api/games/suggest", map[string]any{
		"title":       "Wingspan",
		"description": "Engine building with birds.",
	})

	resp := doRequest(t, member, ts, http.MethodGet, "/api/games/suggestions", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, resp.StatusCode)
	}

	admin := newClient(t)
	loginAdmin(t, admin, ts, st)
	resp = doRequest(t, admin, ts, http.MethodGet, "/api/games/suggestions", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	suggestions := decodeList(t, resp)
	if len(suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
	}
}

func TestApproveSuggestionDoesNotCreateGame(t *testing.T) {
	ts, st := newTestServer(t)
	member := newClient(t)
	registerMember(t, member, ts, "ada")
	resp := doRequest(t, member, ts, http.MethodPost, "/api/games/suggest", map[string]any{
		"title":       "Wingspan",
		"description": "Engine building with birds.",
	})
	suggestionID := uint(decodeBody(t, resp)["id"].(float64))

	admin := newClient(t)
	loginAdmin(t, admin, ts, st)
	resp = doRequest(t, admin, ts, http.MethodPatch, "/api/games/suggestions/"+itoa(suggestionID), map[string]any{
		"status": "approved",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	suggestion := decodeBody(t, resp)
	if suggestion["status"] != "approved" {
		t.Fatalf("expected status approved, got %v", suggestion["status"])
	}

	games, err := st.ListGames()
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 0 {
		t.Fatalf("approval must not touch the catalog, got %d games", len(games))
	}
}

func TestUpdateSuggestionValidation(t *testing.T) {
	ts, st := newTestServer(t)
	admin := newClient(t)
	loginAdmin(t, admin, ts, st)

	resp := doRequest(t, admin, ts, http.MethodPatch, "/api/games/suggestions/1", map[string]any{
		"status": "maybe",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	resp = doRequest(t, admin, ts, http.MethodPatch, "/api/games/suggestions/404", map[string]any{
		"status": "rejected",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}
