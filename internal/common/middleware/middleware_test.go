package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
)

func newApp(origins ...string) *fiber.App {
	app := fiber.New()
	app.Use(Logger())
	app.Use(CORS(origins...))
	app.Get("/ping", func(c fiber.Ctx) error {
		return c.SendString("pong")
	})
	return app
}

func TestCORSAllowsAnyOriginByDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")

	resp, err := newApp().Test(req)
	if err != nil {
		t.Fatalf("test: %v", err)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard origin, got %q", got)
	}
}

func TestCORSRestrictsConfiguredOrigins(t *testing.T) {
	app := newApp("https://plans.example.com")

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("test: %v", err)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no allow-origin for a foreign origin, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://plans.example.com")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("test: %v", err)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://plans.example.com" {
		t.Errorf("expected configured origin echoed, got %q", got)
	}
}

func TestLoggerQuietPrefixes(t *testing.T) {
	quiet := []string{"/health", ""}

	if !hasAnyPrefix("/health/ready", quiet) {
		t.Error("expected health probes to be skipped")
	}
	if hasAnyPrefix("/sessions/abc/pointer/up", quiet) {
		t.Error("expected session routes to be logged")
	}
	if hasAnyPrefix("/health", nil) {
		t.Error("expected nothing skipped without prefixes")
	}
}
