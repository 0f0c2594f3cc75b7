package cart

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	getCartQuery = `SELECT items FROM carts WHERE user_id = $1`

	saveCartQuery = `
		INSERT INTO carts (user_id, items, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET items = EXCLUDED.items, updated_at = EXCLUDED.updated_at
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(userID int) (Cart, error) {
	var raw []byte
	if err := r.db.QueryRow(getCartQuery, userID).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Cart{}, ErrNotFound
		}
		return Cart{}, err
	}

	cart := Cart{UserID: userID, Items: []Item{}}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cart.Items); err != nil {
			return Cart{}, err
		}
	}
	return cart, nil
}

func (r *PostgresRepository) Save(cart Cart) error {
	if cart.Items == nil {
		cart.Items = []Item{}
	}
	items, err := json.Marshal(cart.Items)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = r.db.Exec(saveCartQuery, cart.UserID, items, now)
	return err
}
