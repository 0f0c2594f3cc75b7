package user

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/avargasq/tienda-backend/internal/apperr"
)

// TokenIssuer is the slice of the token service the credential flows need.
type TokenIssuer interface {
	IssueAccessToken(userID int) (string, error)
	IssueRefreshToken(userID int) (string, error)
}

type Service struct {
	repo   Repository
	tokens TokenIssuer
}

func NewService(repo Repository, tokens TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	Address         string
}

// LoginResult is the public login payload: profile fields plus the freshly
// issued pair. The password hash is never part of it.
type LoginResult struct {
	UserID       int    `json:"userId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	AuthToken    string `json:"authToken"`
	RefreshToken string `json:"refreshToken"`
}

func (s *Service) Register(in RegisterInput) error {
	if errs := validateRegistration(in); len(errs) > 0 {
		return apperr.Validation(firstValidationError(errs), errs)
	}

	if _, err := s.repo.GetByEmail(in.Email); err == nil {
		return apperr.Conflict("email already registered")
	} else if !errors.Is(err, ErrNotFound) {
		return apperr.Internal(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal(err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.repo.Create(User{
		Email:     in.Email,
		Password:  string(hashed),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		// Another registration for the same email may have won the race
		// between the lookup above and this insert.
		if errors.Is(err, ErrEmailExists) {
			return apperr.Conflict("email already registered")
		}
		return apperr.Internal(err)
	}

	return nil
}

// Login verifies credentials and issues a fresh token pair, overwriting any
// previous pair so earlier sessions' refresh tokens stop working. Unknown
// email, wrong password and missing fields all yield the same generic error
// so responses cannot be used to enumerate accounts.
func (s *Service) Login(email, password string) (LoginResult, error) {
	if email == "" || password == "" {
		return LoginResult{}, apperr.Unauthorized("invalid credentials")
	}

	u, err := s.repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return LoginResult{}, apperr.Unauthorized("invalid credentials")
		}
		return LoginResult{}, apperr.Internal(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return LoginResult{}, apperr.Unauthorized("invalid credentials")
	}

	authToken, err := s.tokens.IssueAccessToken(u.ID)
	if err != nil {
		return LoginResult{}, apperr.Internal(err)
	}
	refreshToken, err := s.tokens.IssueRefreshToken(u.ID)
	if err != nil {
		return LoginResult{}, apperr.Internal(err)
	}

	// A login always wins over an in-flight gate rotation: retry the
	// compare-and-swap against the reloaded version a couple of times.
	for attempt := 0; ; attempt++ {
		if _, err := s.repo.UpdateTokens(u.ID, authToken, refreshToken, u.TokenVersion); err == nil {
			break
		} else if !errors.Is(err, ErrVersionConflict) || attempt >= 2 {
			return LoginResult{}, apperr.Internal(err)
		}
		if u, err = s.repo.GetByID(u.ID); err != nil {
			return LoginResult{}, apperr.Internal(err)
		}
	}

	return LoginResult{
		UserID:       u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		AuthToken:    authToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout clears the stored pair, making any outstanding refresh token for
// the user permanently unusable. The current access token stays verifiable
// until its own expiry elapses since verification never consults the store;
// revocation is best effort, bounded by the access token lifetime.
func (s *Service) Logout(userID int) error {
	if _, err := s.repo.GetByID(userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal(err)
	}

	if err := s.repo.ClearTokens(userID); err != nil {
		return apperr.Internal(err)
	}

	return nil
}
