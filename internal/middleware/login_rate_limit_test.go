package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/bundler-sim/bundler_sim/internal/logging"
)

func loginApp(cache *redis.Client, limit int) *fiber.App {
	app := fiber.New()
	app.Post("/login", LoginRateLimit(cache, limit, logging.Discard()), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func attempt(t *testing.T, app *fiber.App, body string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestLoginRateLimitPerUsername(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()
	app := loginApp(cache, 2)

	for i := 0; i < 2; i++ {
		if code := attempt(t, app, `{"username":"demo","pin":"000000"}`); code != fiber.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i, code)
		}
	}
	if code := attempt(t, app, `{"username":"DEMO","pin":"000000"}`); code != fiber.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}
	if code := attempt(t, app, `{"username":"walshadmin","pin":"612599"}`); code != fiber.StatusOK {
		t.Fatalf("other usernames must not be limited, got %d", code)
	}
	if ttl := mr.TTL(loginRateLimitPrefix + "demo"); ttl <= 0 {
		t.Fatalf("expected counter expiry, got %v", ttl)
	}
}

func TestLoginRateLimitWithoutRedis(t *testing.T) {
	app := loginApp(nil, 1)
	for i := 0; i < 3; i++ {
		if code := attempt(t, app, `{"username":"demo"}`); code != fiber.StatusOK {
			t.Fatalf("expected no limiting without redis, got %d", code)
		}
	}
}
