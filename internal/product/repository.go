package product

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

var ErrNotFound = errors.New("product not found")

// listLimit caps browse and search results.
const listLimit = 10

type Repository interface {
	// List returns up to 10 products sorted by name ascending.
	List() ([]Product, error)
	// Search returns up to 10 case-insensitive substring name matches.
	Search(query string) ([]Product, error)
	GetByID(id int) (Product, error)
	// ListByIDs resolves the given ids, silently skipping ones that no
	// longer exist, preserving the requested order.
	ListByIDs(ids []int) ([]Product, error)
	// Reset replaces the whole catalog with the provided list (reseeding).
	Reset(products []Product) error
}

// InMemoryRepository is a simple in-memory implementation useful for tests
// and seeding local data.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Product
	nextID  int
}

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	r := &InMemoryRepository{
		storage: make([]Product, 0, len(seed)),
		nextID:  1,
	}

	maxID := 0
	for _, p := range seed {
		r.storage = append(r.storage, p)
		if p.ID > maxID {
			maxID = p.ID
		}
	}

	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) List() ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, len(r.storage))
	copy(out, r.storage)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if len(out) > listLimit {
		out = out[:listLimit]
	}
	return out, nil
}

func (r *InMemoryRepository) Search(query string) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(query)
	out := make([]Product, 0)
	for _, p := range r.storage {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
			if len(out) == listLimit {
				break
			}
		}
	}
	return out, nil
}

func (r *InMemoryRepository) GetByID(id int) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.storage {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) ListByIDs(ids []int) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byID := make(map[int]Product, len(r.storage))
	for _, p := range r.storage {
		byID[p.ID] = p
	}

	out := make([]Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Reset(products []Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.storage = make([]Product, 0, len(products))
	for _, p := range products {
		if p.ID == 0 {
			p.ID = r.nextID
			r.nextID++
		} else if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
		r.storage = append(r.storage, p)
	}
	return nil
}
