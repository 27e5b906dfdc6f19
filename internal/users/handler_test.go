package users

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bundler-sim/bundler_sim/internal/logging"
)

type envelopeBody struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) (*fiber.App, *Service) {
	t.Helper()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := newTestService(t, &now)
	h := NewHandler(svc, logging.Discard())
	app := fiber.New()
	app.Post("/api/users/login", h.Login)
	app.Post("/api/users/create", h.Create)
	app.Post("/api/users/update", h.Update)
	app.Post("/api/users/delete", h.Delete)
	app.Get("/api/users", h.List)
	app.Get("/api/users/sessions", h.Sessions)
	return app, svc
}

func post(t *testing.T, app *fiber.App, path, body string) envelopeBody {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return do(t, app, req)
}

func do(t *testing.T, app *fiber.App, req *http.Request) envelopeBody {
	t.Helper()
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out envelopeBody
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestLoginHandler(t *testing.T) {
	app, _ := newTestApp(t)

	out := post(t, app, "/api/users/login", `{"username":"walshadmin","pin":"612599"}`)
	if !out.Success {
		t.Fatalf("expected success, got %q", out.Error)
	}
	var data struct {
		User    userResponse    `json:"user"`
		Session sessionResponse `json:"session"`
	}
	if err := json.Unmarshal(out.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.User.Role != RoleAdmin || data.Session.SessionID == "" {
		t.Fatalf("unexpected login payload %+v", data)
	}
	if strings.Contains(string(out.Data), "pin") {
		t.Fatal("login response must not expose the PIN hash")
	}

	for body, msg := range map[string]string{
		`{"username":"walshadmin","pin":"000000"}`: "Invalid username or PIN",
		`{"username":"walshadmin"}`:                "Username and PIN are required",
		`not json`:                                 "Username and PIN are required",
	} {
		out := post(t, app, "/api/users/login", body)
		if out.Success || out.Error != msg {
			t.Fatalf("%s: expected %q, got %+v", body, msg, out)
		}
	}
}

func TestUserLifecycleHandlers(t *testing.T) {
	app, svc := newTestApp(t)
	admin := adminSession(t, svc)

	out := post(t, app, "/api/users/create", `{"username":"carol","pin":"123","admin_session":"`+admin+`"}`)
	if out.Error != "PIN must be exactly 6 digits" {
		t.Fatalf("unexpected error %q", out.Error)
	}
	out = post(t, app, "/api/users/create", `{"username":"carol","pin":"123456","admin_session":"nope"}`)
	if out.Error != "Admin authentication required" {
		t.Fatalf("unexpected error %q", out.Error)
	}

	out = post(t, app, "/api/users/create", `{"username":"carol","pin":"123456","admin_session":"`+admin+`"}`)
	if !out.Success {
		t.Fatalf("create failed: %q", out.Error)
	}
	var created struct {
		User userResponse `json:"user"`
	}
	if err := json.Unmarshal(out.Data, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	out = post(t, app, "/api/users/update", `{"user_id":"`+created.User.ID+`","admin_session":"`+admin+`","updates":{"role":"admin"}}`)
	if !out.Success {
		t.Fatalf("update failed: %q", out.Error)
	}

	out = post(t, app, "/api/users/delete", `{"user_id":"admin","admin_session":"`+admin+`"}`)
	if out.Error != "Cannot delete admin user" {
		t.Fatalf("unexpected error %q", out.Error)
	}
	out = post(t, app, "/api/users/delete", `{"user_id":"`+created.User.ID+`","admin_session":"`+admin+`"}`)
	if !out.Success {
		t.Fatalf("delete failed: %q", out.Error)
	}

	out = do(t, app, httptest.NewRequest(http.MethodGet, "/api/users", nil))
	var listed struct {
		Users      []userResponse `json:"users"`
		TotalCount int            `json:"total_count"`
	}
	if err := json.Unmarshal(out.Data, &listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if listed.TotalCount != 2 || len(listed.Users) != 2 {
		t.Fatalf("expected seeded users only, got %+v", listed)
	}

	out = do(t, app, httptest.NewRequest(http.MethodGet, "/api/users/sessions", nil))
	var sessions struct {
		ActiveCount int `json:"active_count"`
	}
	if err := json.Unmarshal(out.Data, &sessions); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sessions.ActiveCount != 1 {
		t.Fatalf("expected the admin session, got %d", sessions.ActiveCount)
	}
}
