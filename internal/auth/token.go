// Package auth implements the access/refresh token pair and the session
// middleware that enforces the rotation protocol on protected routes.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	// AccessTokenTTL bounds the exposure window of a stolen access token.
	AccessTokenTTL = 5 * time.Minute

	// RefreshTokenTTL is the controlled re-issuance window before a full re-login.
	RefreshTokenTTL = 24 * time.Hour
)

// TokenService signs and verifies the two token types. Access and refresh
// tokens use independent secrets so that compromise of one cannot forge the
// other. Verification never consults the credential store.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte

	// TTLs are variables so tests can issue already-expired tokens.
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewTokenService(accessSecret, refreshSecret []byte) *TokenService {
	return &TokenService{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		AccessTTL:     AccessTokenTTL,
		RefreshTTL:    RefreshTokenTTL,
	}
}

func (s *TokenService) IssueAccessToken(userID int) (string, error) {
	return sign(userID, s.accessSecret, s.AccessTTL)
}

func (s *TokenService) IssueRefreshToken(userID int) (string, error) {
	return sign(userID, s.refreshSecret, s.RefreshTTL)
}

// VerifyAccessToken checks signature and expiry of an access token. A failed
// verification is a normal outcome, not an error, so it reports ok=false.
func (s *TokenService) VerifyAccessToken(token string) (int, bool) {
	return verify(token, s.accessSecret)
}

// VerifyRefreshToken checks signature and expiry of a refresh token.
func (s *TokenService) VerifyRefreshToken(token string) (int, bool) {
	return verify(token, s.refreshSecret)
}

func sign(userID int, secret []byte, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func verify(token string, secret []byte) (int, bool) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, false
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return 0, false
	}
	return int(id), true
}
