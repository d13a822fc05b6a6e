package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"game-night/internal/config"
	"game-night/internal/seed"
	"game-night/internal/store"

	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*httptest.Server, store.Storage) {
	t.Helper()
	st := store.NewMemory()
	srv := New(st, config.Default())
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, st
}

// newClient returns a client with its own cookie jar so each caller
// keeps a separate session.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func doRequest(t *testing.T, client *http.Client, ts *httptest.Server, method, path string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func decodeList(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()
	var body []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	return body
}

// registerMember signs a fresh member up and leaves the session
// cookie in the client's jar.
func registerMember(t *testing.T, client *http.Client, ts *httptest.Server, username string) uint {
	t.Helper()
	resp := doRequest(t, client, ts, http.MethodPost, "/api/register", map[string]string{
		"username": username,
		"password": "hunter22",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	return uint(body["id"].(float64))
}

// loginAdmin seeds the admin account and logs the client into it.
func loginAdmin(t *testing.T, client *http.Client, ts *httptest.Server, st store.Storage) {
	t.Helper()
	if err := seed.Admin(st, "boss", "letmein99"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	resp := doRequest(t, client, ts, http.MethodPost, "/api/login", map[string]string{
		"username": "boss",
		"password": "letmein99",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

func createEvent(t *testing.T, admin *http.Client, ts *httptest.Server, maxSeats int) uint {
	t.Helper()
	resp := doRequest(t, admin, ts, http.MethodPost, "/api/events", map[string]any{
		"title":       "Friday Game Night",
		"description": "Weekly session in the back room.",
		"date":        time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
		"location":    "Club Center",
		"maxSeats":    maxSeats,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	return uint(body["id"].(float64))
}

func itoa(id uint) string {
	return fmt.Sprintf("%d", id)
}

func eventPath(eventID uint) string {
	return fmt.Sprintf("/api/events/%d", eventID)
}

func reservePath(eventID uint) string {
	return fmt.Sprintf("/api/events/%d/reserve", eventID)
}

func nominationsPath(eventID uint) string {
	return fmt.Sprintf("/api/events/%d/nominations", eventID)
}

func votePath(nominationID uint) string {
	return fmt.Sprintf("/api/nominations/%d/vote", nominationID)
}

func createGame(t *testing.T, admin *http.Client, ts *httptest.Server, title string) uint {
	t.Helper()
	resp := doRequest(t, admin, ts, http.MethodPost, "/api/games", map[string]any{
		"title": title,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	return uint(body["id"].(float64))
}
