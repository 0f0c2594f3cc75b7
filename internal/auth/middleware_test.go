package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/avargasq/tienda-backend/internal/user"
)

func makeProtectedApp(ts *TokenService, repo *user.InMemoryRepository) *fiber.App {
	app := fiber.New()
	app.Use(NewGate(ts, repo).Handle)
	app.Get("/protected", func(c *fiber.Ctx) error {
		id, err := user.UserIDFromCtx(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"userId": id})
	})
	return app
}

// seedSession stores a refresh token for user 7 and returns it. It is issued
// with a shorter TTL than the gate uses so a rotated replacement is always a
// different string.
func seedSession(t *testing.T, ts *TokenService, repo *user.InMemoryRepository) string {
	t.Helper()

	seedTS := NewTokenService([]byte("access-secret"), []byte("refresh-secret"))
	seedTS.RefreshTTL = RefreshTokenTTL - time.Hour

	refresh, err := seedTS.IssueRefreshToken(7)
	if err != nil {
		t.Fatalf("failed to issue refresh token: %v", err)
	}
	access, err := seedTS.IssueAccessToken(7)
	if err != nil {
		t.Fatalf("failed to issue access token: %v", err)
	}

	u, err := repo.GetByID(7)
	if err != nil {
		t.Fatalf("seed user missing: %v", err)
	}
	if _, err := repo.UpdateTokens(7, access, refresh, u.TokenVersion); err != nil {
		t.Fatalf("failed to store tokens: %v", err)
	}
	return refresh
}

func expiredAccessToken(t *testing.T, userID int) string {
	t.Helper()

	expiredTS := NewTokenService([]byte("access-secret"), []byte("refresh-secret"))
	expiredTS.AccessTTL = -time.Minute
	token, err := expiredTS.IssueAccessToken(userID)
	if err != nil {
		t.Fatalf("failed to issue expired token: %v", err)
	}
	return token
}

func TestGateRejectsMissingCredentials(t *testing.T) {
	ts := newTestTokenService()
	repo := user.NewInMemoryRepository([]user.User{{ID: 7, Email: "a@b.c"}})
	app := makeProtectedApp(ts, repo)

	// no headers at all
	res, _ := app.Test(httptest.NewRequest("GET", "/protected", nil))
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", res.StatusCode)
	}

	// access token without refresh header
	access, _ := ts.IssueAccessToken(7)
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without refresh header, got %d", res.StatusCode)
	}
}

func TestGateFastPathDoesNotRotate(t *testing.T) {
	ts := newTestTokenService()
	repo := user.NewInMemoryRepository([]user.User{{ID: 7, Email: "a@b.c"}})
	app := makeProtectedApp(ts, repo)
	storedRefresh := seedSession(t, ts, repo)

	access, _ := ts.IssueAccessToken(7)
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	req.Header.Set(RefreshTokenHeader, storedRefresh)

	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 on fast path, got %d", res.StatusCode)
	}
	if res.Header.Get(RefreshTokenHeader) != "" {
		t.Fatal("fast path must not emit rotation headers")
	}

	u, _ := repo.GetByID(7)
	if u.RefreshToken == nil || *u.RefreshToken != storedRefresh {
		t.Fatal("fast path must not touch the stored token pair")
	}
}

func TestGateRotatesOnExpiredAccessToken(t *testing.T) {
	ts := newTestTokenService()
	repo := user.NewInMemoryRepository([]user.User{{ID: 7, Email: "a@b.c"}})
	app := makeProtectedApp(ts, repo)
	storedRefresh := seedSession(t, ts, repo)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+expiredAccessToken(t, 7))
	req.Header.Set(RefreshTokenHeader, storedRefresh)

	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 after rotation, got %d", res.StatusCode)
	}

	newAccess := res.Header.Get("Authorization")
	newRefresh := res.Header.Get(RefreshTokenHeader)
	if newAccess == "" || newRefresh == "" {
		t.Fatal("rotation must emit both response headers")
	}
	if newRefresh == storedRefresh {
		t.Fatal("rotated refresh token must differ from the old one")
	}

	// the persisted pair must match what the client was handed
	u, _ := repo.GetByID(7)
	if u.RefreshToken == nil || *u.RefreshToken != newRefresh {
		t.Fatal("store must hold the rotated refresh token")
	}

	// the old refresh token is now permanently unusable
	req2 := httptest.NewRequest("GET", "/protected", nil)
	req2.Header.Set("Authorization", "Bearer "+expiredAccessToken(t, 7))
	req2.Header.Set(RefreshTokenHeader, storedRefresh)
	res2, _ := app.Test(req2)
	if res2.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for rotated-out refresh token, got %d", res2.StatusCode)
	}
}

func TestGateRejectsUnverifiableRefreshToken(t *testing.T) {
	ts := newTestTokenService()
	repo := user.NewInMemoryRepository([]user.User{{ID: 7, Email: "a@b.c"}})
	app := makeProtectedApp(ts, repo)
	seedSession(t, ts, repo)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+expiredAccessToken(t, 7))
	req.Header.Set(RefreshTokenHeader, "garbage")

	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for unverifiable refresh token, got %d", res.StatusCode)
	}
}

func TestGateRejectsMismatchedRefreshToken(t *testing.T) {
	ts := newTestTokenService()
	repo := user.NewInMemoryRepository([]user.User{{ID: 7, Email: "a@b.c"}})
	app := makeProtectedApp(ts, repo)
	seedSession(t, ts, repo)

	// validly signed for the same user, but not the stored one
	otherTS := newTestTokenService()
	otherTS.RefreshTTL = RefreshTokenTTL - 2*time.Hour
	foreignRefresh, _ := otherTS.IssueRefreshToken(7)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+expiredAccessToken(t, 7))
	req.Header.Set(RefreshTokenHeader, foreignRefresh)

	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for mismatched refresh token, got %d", res.StatusCode)
	}
}

func TestGateRejectsUnknownUser(t *testing.T) {
	ts := newTestTokenService()
	repo := user.NewInMemoryRepository(nil)
	app := makeProtectedApp(ts, repo)

	refresh, _ := ts.IssueRefreshToken(99)
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+expiredAccessToken(t, 99))
	req.Header.Set(RefreshTokenHeader, refresh)

	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown user, got %d", res.StatusCode)
	}
}
