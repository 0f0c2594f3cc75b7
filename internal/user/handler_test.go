package user

import (
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

// fakeGate stands in for the session middleware: it trusts an X-User-ID
// header so handler tests do not need real tokens.
func fakeGate(c *fiber.Ctx) error {
	raw := c.Get("X-User-ID")
	if raw == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "authentication required"})
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "authentication required"})
	}
	WithUserID(c, id)
	return c.Next()
}

func newUserTestApp() (*fiber.App, *InMemoryRepository) {
	repo := NewInMemoryRepository(nil)
	handler := NewHandler(NewService(repo, &stubTokens{}))

	app := fiber.New()
	handler.RegisterPublicRoutes(app)
	app.Use(fakeGate)
	handler.RegisterProtectedRoutes(app)
	return app, repo
}

func registerBody() string {
	return `{
		"email": "ana@example.com",
		"password": "Secret123",
		"confirmPassword": "Secret123",
		"firstName": "Ana",
		"lastName": "Vargas",
		"address": "Calle Falsa 123"
	}`
}

func TestRegisterEndpoint(t *testing.T) {
	app, _ := newUserTestApp()

	req := httptest.NewRequest("POST", "/users/register", strings.NewReader(registerBody()))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", res.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["message"] != "user registered successfully" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestRegisterEndpointValidation(t *testing.T) {
	app, _ := newUserTestApp()

	req := httptest.NewRequest("POST", "/users/register", strings.NewReader(`{"email":"bad"}`))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}

	var body struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Message == "" {
		t.Fatal("expected a message with the first validation error")
	}
	if _, ok := body.Errors["email"]; !ok {
		t.Fatal("expected an email field error")
	}
	if _, ok := body.Errors["password"]; !ok {
		t.Fatal("expected a password field error")
	}
}

func TestRegisterEndpointDuplicateEmail(t *testing.T) {
	app, _ := newUserTestApp()

	for i, want := range []int{fiber.StatusCreated, fiber.StatusConflict} {
		req := httptest.NewRequest("POST", "/users/register", strings.NewReader(registerBody()))
		req.Header.Set("Content-Type", "application/json")
		res, err := app.Test(req)
		if err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
		if res.StatusCode != want {
			t.Fatalf("request %d: expected %d, got %d", i, want, res.StatusCode)
		}
	}
}

func TestLoginEndpoint(t *testing.T) {
	app, _ := newUserTestApp()

	req := httptest.NewRequest("POST", "/users/register", strings.NewReader(registerBody()))
	req.Header.Set("Content-Type", "application/json")
	if _, err := app.Test(req); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	req = httptest.NewRequest("POST", "/users/login", strings.NewReader(`{"email":"ana@example.com","password":"Secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	var body LoginResult
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.AuthToken == "" || body.RefreshToken == "" {
		t.Fatal("expected both tokens in the login payload")
	}
	if body.Email != "ana@example.com" {
		t.Fatalf("unexpected email: %s", body.Email)
	}
}

func TestLoginEndpointBadCredentials(t *testing.T) {
	app, _ := newUserTestApp()

	req := httptest.NewRequest("POST", "/users/login", strings.NewReader(`{"email":"nobody@example.com","password":"Whatever1"}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}
}

func TestLogoutEndpoint(t *testing.T) {
	app, repo := newUserTestApp()

	created, err := repo.Create(User{Email: "x@y.z", Password: "irrelevant"})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	req := httptest.NewRequest("POST", "/users/logout", nil)
	req.Header.Set("X-User-ID", strconv.Itoa(created.ID))
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	// without the gate's user the route is closed
	res, err = app.Test(httptest.NewRequest("POST", "/users/logout", nil))
	if err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}
}
