package cart

import "github.com/avargasq/tienda-backend/internal/product"

// Item is a cart row: a weak reference to a product plus quantity and the
// selection flag checkout honors. At most one item exists per product.
type Item struct {
	ProductID int  `json:"productId"`
	Quantity  int  `json:"quantity"`
	Selected  bool `json:"selected"`
}

// Cart is the persistent per-user cart. Item order is append order.
type Cart struct {
	UserID int    `json:"userId"`
	Items  []Item `json:"items"`
}

// ItemView is an item with its product reference resolved for display.
type ItemView struct {
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`
	Selected bool            `json:"selected"`
}

// View is the cart shape returned to clients.
type View struct {
	UserID int        `json:"userId"`
	Items  []ItemView `json:"items"`
}

func (c *Cart) findItem(productID int) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
