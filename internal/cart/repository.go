package cart

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("cart not found")

// Repository stores at most one cart per user.
type Repository interface {
	Get(userID int) (Cart, error)
	Save(cart Cart) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu    sync.RWMutex
	carts map[int]Cart
}

func NewInMemoryRepository(seed []Cart) *InMemoryRepository {
	r := &InMemoryRepository{carts: make(map[int]Cart, len(seed))}
	for _, c := range seed {
		r.carts[c.UserID] = c
	}
	return r
}

func (r *InMemoryRepository) Get(userID int) (Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.carts[userID]
	if !ok {
		return Cart{}, ErrNotFound
	}

	out := Cart{UserID: c.UserID, Items: make([]Item, len(c.Items))}
	copy(out.Items, c.Items)
	return out, nil
}

func (r *InMemoryRepository) Save(cart Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := Cart{UserID: cart.UserID, Items: make([]Item, len(cart.Items))}
	copy(stored.Items, cart.Items)
	r.carts[cart.UserID] = stored
	return nil
}
