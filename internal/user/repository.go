package user

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrNotFound        = errors.New("user not found")
	ErrEmailExists     = errors.New("email already exists")
	ErrVersionConflict = errors.New("token version conflict")
)

// Repository provides access to stored users. Token writes are guarded by a
// compare-and-swap on the record's token version so only one of two racing
// rotations can win.
type Repository interface {
	GetByID(id int) (User, error)
	GetByEmail(email string) (User, error)
	Create(u User) (User, error)
	UpdateTokens(id int, authToken, refreshToken string, expectedVersion int) (User, error)
	ClearTokens(id int) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.RWMutex
	users  []User
	nextID int
}

func NewInMemoryRepository(seed []User) *InMemoryRepository {
	repo := &InMemoryRepository{
		users:  make([]User, 0, len(seed)),
		nextID: 1,
	}

	maxID := 0
	for _, u := range seed {
		repo.users = append(repo.users, u)
		if u.ID > maxID {
			maxID = u.ID
		}
	}

	repo.nextID = maxID + 1
	return repo
}

func (r *InMemoryRepository) GetByID(id int) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}

	return User{}, ErrNotFound
}

func (r *InMemoryRepository) GetByEmail(email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}

	return User{}, ErrNotFound
}

func (r *InMemoryRepository) Create(u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == u.Email {
			return User{}, ErrEmailExists
		}
	}

	if u.ID == 0 {
		u.ID = r.nextID
		r.nextID++
	}

	r.users = append(r.users, u)
	return u, nil
}

func (r *InMemoryRepository) UpdateTokens(id int, authToken, refreshToken string, expectedVersion int) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, u := range r.users {
		if u.ID != id {
			continue
		}
		if u.TokenVersion != expectedVersion {
			return User{}, ErrVersionConflict
		}
		u.AuthToken = &authToken
		u.RefreshToken = &refreshToken
		u.TokenVersion++
		u.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
		r.users[i] = u
		return u, nil
	}

	return User{}, ErrNotFound
}

func (r *InMemoryRepository) ClearTokens(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, u := range r.users {
		if u.ID != id {
			continue
		}
		u.AuthToken = nil
		u.RefreshToken = nil
		u.TokenVersion++
		u.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
		r.users[i] = u
		return nil
	}

	return ErrNotFound
}
