package auth

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/avargasq/tienda-backend/internal/user"
)

// RefreshTokenHeader carries the refresh token on requests and, after a
// rotation, the replacement token on responses.
const RefreshTokenHeader = "Refresh-Token"

// UserStore is the slice of the credential store the gate needs.
type UserStore interface {
	GetByID(id int) (user.User, error)
	UpdateTokens(id int, authToken, refreshToken string, expectedVersion int) (user.User, error)
}

// Gate authenticates protected requests. The fast path verifies the access
// token without touching the store; when it is invalid, a verified and
// matching refresh token buys a freshly rotated pair.
type Gate struct {
	tokens *TokenService
	users  UserStore
}

func NewGate(tokens *TokenService, users UserStore) *Gate {
	return &Gate{tokens: tokens, users: users}
}

func (g *Gate) Handle(c *fiber.Ctx) error {
	accessToken := bearerToken(c.Get(fiber.HeaderAuthorization))
	refreshToken := c.Get(RefreshTokenHeader)
	if accessToken == "" || refreshToken == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "authentication required"})
	}

	if userID, ok := g.tokens.VerifyAccessToken(accessToken); ok {
		user.WithUserID(c, userID)
		return c.Next()
	}

	userID, ok := g.tokens.VerifyRefreshToken(refreshToken)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "session expired, please log in again"})
	}

	// Only the most recently issued refresh token per user is honored. A
	// mismatch means the presented token was rotated out or stolen.
	u, err := g.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid refresh token"})
		}
		slog.Error("credential lookup failed during token rotation", "error", err, "userId", userID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "server error"})
	}
	if u.RefreshToken == nil || *u.RefreshToken != refreshToken {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid refresh token"})
	}

	newAccess, err := g.tokens.IssueAccessToken(userID)
	if err != nil {
		slog.Error("failed to issue access token", "error", err, "userId", userID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "server error"})
	}
	newRefresh, err := g.tokens.IssueRefreshToken(userID)
	if err != nil {
		slog.Error("failed to issue refresh token", "error", err, "userId", userID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "server error"})
	}

	if _, err := g.users.UpdateTokens(userID, newAccess, newRefresh, u.TokenVersion); err != nil {
		// A version conflict means a concurrent request rotated the pair
		// first; the token this request presented is no longer current.
		if errors.Is(err, user.ErrVersionConflict) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid refresh token"})
		}
		slog.Error("failed to persist rotated tokens", "error", err, "userId", userID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "server error"})
	}

	// The client must adopt both headers for subsequent calls.
	c.Set(fiber.HeaderAuthorization, "Bearer "+newAccess)
	c.Set(RefreshTokenHeader, newRefresh)

	user.WithUserID(c, userID)
	return c.Next()
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
