package product

// Product represents a catalog entry. AdditionalInfo is an open-ended bag of
// secondary attributes (category, brand, rating, stock) kept schemaless the
// way the external catalog provider delivers them.
type Product struct {
	ID             int            `json:"productId"`
	Name           string         `json:"name"`
	Price          float64        `json:"price"`
	Description    string         `json:"description"`
	ImageURL       string         `json:"imageUrl"`
	AdditionalInfo map[string]any `json:"additionalInfo,omitempty"`
}
