package cart

import (
	"errors"

	"github.com/avargasq/tienda-backend/internal/apperr"
	"github.com/avargasq/tienda-backend/internal/product"
)

// Catalog is the slice of the product service the cart engine needs to check
// existence and resolve items for display.
type Catalog interface {
	GetByID(id int) (product.Product, error)
	ListByIDs(ids []int) ([]product.Product, error)
}

// Service implements the cart state machine: add merges duplicates, remove
// is idempotent, checkout purchases the selected subset, and every read
// purges items whose product no longer resolves.
type Service struct {
	repo     Repository
	products Catalog
}

func NewService(repo Repository, products Catalog) *Service {
	return &Service{repo: repo, products: products}
}

// Get returns the user's cart, lazily creating an empty one. Dangling items
// are purged and the purge is persisted only when something was removed.
func (s *Service) Get(userID int) (View, error) {
	cart, err := s.repo.Get(userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return View{}, apperr.Internal(err)
		}
		cart = Cart{UserID: userID, Items: []Item{}}
		if err := s.repo.Save(cart); err != nil {
			return View{}, apperr.Internal(err)
		}
	}

	return s.cleanAndResolve(cart)
}

// Add puts one unit of the product in the cart; a second add of the same
// product increments the existing row instead of duplicating it.
func (s *Service) Add(userID, productID int) (View, error) {
	if _, err := s.products.GetByID(productID); err != nil {
		return View{}, err
	}

	cart, err := s.repo.Get(userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return View{}, apperr.Internal(err)
		}
		cart = Cart{UserID: userID, Items: []Item{}}
	}

	if i := cart.findItem(productID); i >= 0 {
		cart.Items[i].Quantity++
	} else {
		cart.Items = append(cart.Items, Item{ProductID: productID, Quantity: 1, Selected: true})
	}

	if err := s.repo.Save(cart); err != nil {
		return View{}, apperr.Internal(err)
	}

	return s.cleanAndResolve(cart)
}

// Remove drops the matching item. Removing a product that is not in the cart
// is a silent no-op.
func (s *Service) Remove(userID, productID int) (View, error) {
	cart, err := s.loadCart(userID)
	if err != nil {
		return View{}, err
	}

	if i := cart.findItem(productID); i >= 0 {
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		if err := s.repo.Save(cart); err != nil {
			return View{}, apperr.Internal(err)
		}
	}

	return s.cleanAndResolve(cart)
}

func (s *Service) UpdateQuantity(userID, productID, quantity int) (View, error) {
	if quantity < 1 {
		return View{}, apperr.Validation("quantity must be at least 1", nil)
	}

	cart, err := s.loadCart(userID)
	if err != nil {
		return View{}, err
	}

	i := cart.findItem(productID)
	if i < 0 {
		return View{}, apperr.NotFound("product not found in cart")
	}

	cart.Items[i].Quantity = quantity
	if err := s.repo.Save(cart); err != nil {
		return View{}, apperr.Internal(err)
	}

	return s.cleanAndResolve(cart)
}

func (s *Service) ToggleSelect(userID, productID int, selected bool) (View, error) {
	cart, err := s.loadCart(userID)
	if err != nil {
		return View{}, err
	}

	i := cart.findItem(productID)
	if i < 0 {
		return View{}, apperr.NotFound("product not found in cart")
	}

	cart.Items[i].Selected = selected
	if err := s.repo.Save(cart); err != nil {
		return View{}, apperr.Internal(err)
	}

	return s.cleanAndResolve(cart)
}

// Checkout removes every selected item from the cart and reports how many
// were purchased; unselected items stay. No order record is created.
func (s *Service) Checkout(userID int) (View, int, error) {
	cart, err := s.repo.Get(userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return View{}, 0, apperr.NotFound("cart not found or empty")
		}
		return View{}, 0, apperr.Internal(err)
	}
	if len(cart.Items) == 0 {
		return View{}, 0, apperr.NotFound("cart not found or empty")
	}

	remaining := make([]Item, 0, len(cart.Items))
	purchased := 0
	for _, item := range cart.Items {
		if item.Selected {
			purchased++
		} else {
			remaining = append(remaining, item)
		}
	}
	if purchased == 0 {
		return View{}, 0, apperr.Validation("no items selected for purchase", nil)
	}

	cart.Items = remaining
	if err := s.repo.Save(cart); err != nil {
		return View{}, 0, apperr.Internal(err)
	}

	view, err := s.cleanAndResolve(cart)
	if err != nil {
		return View{}, 0, err
	}
	return view, purchased, nil
}

func (s *Service) loadCart(userID int) (Cart, error) {
	cart, err := s.repo.Get(userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Cart{}, apperr.NotFound("cart not found")
		}
		return Cart{}, apperr.Internal(err)
	}
	return cart, nil
}

// cleanAndResolve resolves item products in one lookup, drops items whose
// reference is dangling, and persists the cart only when a purge happened.
func (s *Service) cleanAndResolve(cart Cart) (View, error) {
	ids := make([]int, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.products.ListByIDs(ids)
	if err != nil {
		return View{}, err
	}
	byID := make(map[int]product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	view := View{UserID: cart.UserID, Items: make([]ItemView, 0, len(cart.Items))}
	kept := make([]Item, 0, len(cart.Items))
	for _, item := range cart.Items {
		p, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		kept = append(kept, item)
		view.Items = append(view.Items, ItemView{Product: p, Quantity: item.Quantity, Selected: item.Selected})
	}

	if len(kept) != len(cart.Items) {
		cart.Items = kept
		if err := s.repo.Save(cart); err != nil {
			return View{}, apperr.Internal(err)
		}
	}

	return view, nil
}
