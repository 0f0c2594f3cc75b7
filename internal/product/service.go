package product

import (
	"errors"

	"github.com/avargasq/tienda-backend/internal/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List() ([]Product, error) {
	products, err := s.repo.List()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return products, nil
}

func (s *Service) Search(query string) ([]Product, error) {
	products, err := s.repo.Search(query)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return products, nil
}

func (s *Service) GetByID(id int) (Product, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Product{}, apperr.NotFound("product not found")
		}
		return Product{}, apperr.Internal(err)
	}
	return p, nil
}

// ListByIDs resolves product references, skipping ones that no longer exist.
func (s *Service) ListByIDs(ids []int) ([]Product, error) {
	products, err := s.repo.ListByIDs(ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return products, nil
}

// Reset replaces the whole catalog with the given list (reseeding).
func (s *Service) Reset(products []Product) error {
	if err := s.repo.Reset(products); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
