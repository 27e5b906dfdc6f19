package envelope

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/bundler-sim/bundler_sim/internal/logging"
)

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logging.Discard())})
	app.Post("/bind", func(c *fiber.Ctx) error {
		req := struct {
			Count int `json:"count"`
		}{Count: 5}
		Bind(c, &req, logging.Discard())
		return OK(c, req.Count)
	})
	app.Get("/fail", func(c *fiber.Ctx) error { return Fail(c, "Treasury address is required") })
	app.Get("/boom", func(c *fiber.Ctx) error { return fiber.NewError(http.StatusTooManyRequests, "slow down") })
	return app
}

func decode(t *testing.T, resp *http.Response) Response {
	t.Helper()
	defer resp.Body.Close()
	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestBindIsLenient(t *testing.T) {
	app := newApp()
	for body, want := range map[string]float64{
		`{"count": 9}`:         9,
		`{"count": "many"}`:    5,
		`not json`:             5,
		``:                     5,
		`{"count":3,"x":true}`: 3,
	} {
		req := httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(body))
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		out := decode(t, resp)
		if !out.Success || out.Data != want {
			t.Fatalf("body %q: expected %v, got %+v", body, want, out)
		}
	}
}

func TestFailIsInBand(t *testing.T) {
	resp, err := newApp().Test(httptest.NewRequest(http.MethodGet, "/fail", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	out := decode(t, resp)
	if out.Success || out.Error != "Treasury address is required" {
		t.Fatalf("unexpected envelope %+v", out)
	}
}

func TestErrorHandler(t *testing.T) {
	app := newApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get(fiber.HeaderContentType); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("expected plain text, got %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if len(body) == 0 {
		t.Fatal("expected a body")
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
	if out := decode(t, resp); out.Success || out.Error != "slow down" {
		t.Fatalf("unexpected envelope %+v", out)
	}
}

func TestNumberMapsNonFiniteToZero(t *testing.T) {
	for _, raw := range []string{`"NaN"`, `"Inf"`, `"+Infinity"`, `"-inf"`, `"abc"`} {
		n := Number(7)
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			t.Fatalf("%s: unexpected error %v", raw, err)
		}
		if n != 0 {
			t.Fatalf("%s: expected 0, got %v", raw, n)
		}
	}

	var n Number
	if err := json.Unmarshal([]byte(`"1.5"`), &n); err != nil || n != 1.5 {
		t.Fatalf("expected 1.5, got %v (%v)", n, err)
	}
}

func TestBindDiscardsPartiallyDecodedBody(t *testing.T) {
	type request struct {
		Wallets []string `json:"wallets"`
		Count   int      `json:"count"`
	}
	var got request
	app := fiber.New()
	app.Post("/bind", func(c *fiber.Ctx) error {
		got = request{Count: 5}
		Bind(c, &got, logging.Discard())
		return c.SendStatus(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(`{"wallets":["a"],"count":"x"}`))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if got.Wallets != nil || got.Count != 5 {
		t.Fatalf("expected untouched request, got %+v", got)
	}
}
