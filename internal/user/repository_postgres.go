package user

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	getUserByIDQuery = `
		SELECT user_id, email, password, first_name, last_name, address, auth_token, refresh_token, token_version, created_at, updated_at
		FROM users
		WHERE user_id = $1
	`
	getUserByEmailQuery = `
		SELECT user_id, email, password, first_name, last_name, address, auth_token, refresh_token, token_version, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	insertUserQuery = `
		INSERT INTO users (email, password, first_name, last_name, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING user_id
	`
	updateTokensQuery = `
		UPDATE users
		SET auth_token = $1,
			refresh_token = $2,
			token_version = token_version + 1,
			updated_at = $3
		WHERE user_id = $4 AND token_version = $5
		RETURNING token_version
	`
	clearTokensQuery = `
		UPDATE users
		SET auth_token = NULL,
			refresh_token = NULL,
			token_version = token_version + 1,
			updated_at = $1
		WHERE user_id = $2
	`
)

const uniqueViolationCode = "23505"

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	u, err := scanUser(r.db.QueryRow(getUserByIDQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	u, err := scanUser(r.db.QueryRow(getUserByEmailQuery, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) Create(u User) (User, error) {
	err := r.db.QueryRow(
		insertUserQuery,
		u.Email,
		u.Password,
		u.FirstName,
		u.LastName,
		u.Address,
		u.CreatedAt,
		u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return User{}, ErrEmailExists
		}
		return User{}, err
	}

	return u, nil
}

// UpdateTokens swaps in a new token pair only when the stored version still
// matches expectedVersion. A no-row result on an existing user means another
// request rotated first.
func (r *PostgresRepository) UpdateTokens(id int, authToken, refreshToken string, expectedVersion int) (User, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	var version int
	err := r.db.QueryRow(updateTokensQuery, authToken, refreshToken, now, id, expectedVersion).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, lookupErr := r.GetByID(id); errors.Is(lookupErr, ErrNotFound) {
				return User{}, ErrNotFound
			}
			return User{}, ErrVersionConflict
		}
		return User{}, err
	}

	return User{
		ID:           id,
		AuthToken:    &authToken,
		RefreshToken: &refreshToken,
		TokenVersion: version,
		UpdatedAt:    now,
	}, nil
}

func (r *PostgresRepository) ClearTokens(id int) error {
	now := time.Now().UTC().Format(time.RFC3339)

	res, err := r.db.Exec(clearTokensQuery, now, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row rowScanner) (User, error) {
	var (
		u            User
		authToken    sql.NullString
		refreshToken sql.NullString
	)

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Password,
		&u.FirstName,
		&u.LastName,
		&u.Address,
		&authToken,
		&refreshToken,
		&u.TokenVersion,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return User{}, err
	}

	if authToken.Valid {
		u.AuthToken = &authToken.String
	}
	if refreshToken.Valid {
		u.RefreshToken = &refreshToken.String
	}

	return u, nil
}
