package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"game-night/internal/config"
	"game-night/internal/store"
)

const testBotToken = "123456:TEST-TOKEN"

func newTelegramServer(t *testing.T) (*httptest.Server, store.Storage) {
	t.Helper()
	st := store.NewMemory()
	cfg := config.Default()
	cfg.TelegramBotToken = testBotToken
	srv := New(st, cfg)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, st
}

// signTelegramFields computes the hash the login widget would send.
func signTelegramFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, key+"="+fields[key])
	}
	secret := sha256.Sum256([]byte(testBotToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestTelegramVerify(t *testing.T) {
	ts, st := newTelegramServer(t)
	member := newClient(t)
	memberID := registerMember(t, member, ts, "ada")

	authDate := time.Now().Unix()
	hash := signTelegramFields(map[string]string{
		"id":         "777000",
		"first_name": "Ada",
		"username":   "ada_l",
		"auth_date":  fmt.Sprintf("%d", authDate),
	})

	resp := doRequest(t, member, ts, http.MethodPost, "/api/telegram/verify", map[string]any{
		"id":         777000,
		"first_name": "Ada",
		"username":   "ada_l",
		"auth_date":  authDate,
		"hash":       hash,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["isTelegramVerified"] != true {
		t.Fatalf("expected isTelegramVerified true, got %v", body["isTelegramVerified"])
	}
	if body["telegramId"] != "777000" {
		t.Fatalf("expected telegramId 777000, got %v", body["telegramId"])
	}

	user, err := st.GetUser(memberID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if !user.IsTelegramVerified || user.TelegramID == nil || *user.TelegramID != "777000" {
		t.Fatalf("expected stored telegram identity, got %+v", user)
	}
}

func TestTelegramVerifyBadSignature(t *testing.T) {
	ts, _ := newTelegramServer(t)
	member := newClient(t)
	registerMember(t, member, ts, "ada")

	resp := doRequest(t, member, ts, http.MethodPost, "/api/telegram/verify", map[string]any{
		"id":        777000,
		"auth_date": time.Now().Unix(),
		"hash":      strings.Repeat("ab", 32),
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestTelegramVerifyExpired(t *testing.T) {
	ts, _ := newTelegramServer(t)
	member := newClient(t)
	registerMember(t, member, ts, "ada")

	authDate := time.Now().Add(-48 * time.Hour).Unix()
	hash := signTelegramFields(map[string]string{
		"id":        "777000",
		"auth_date": fmt.Sprintf("%d", authDate),
	})
	resp := doRequest(t, member, ts, http.MethodPost, "/api/telegram/verify", map[string]any{
		"id":        777000,
		"auth_date": authDate,
		"hash":      hash,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestTelegramVerifyUnconfigured(t *testing.T) {
	ts, _ := newTestServer(t)
	member := newClient(t)
	registerMember(t, member, ts, "ada")

	resp := doRequest(t, member, ts, http.MethodPost, "/api/telegram/verify", map[string]any{
		"id":        777000,
		"auth_date": time.Now().Unix(),
		"hash":      strings.Repeat("cd", 32),
	})
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, resp.StatusCode)
	}
}
