package product

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"time"
)

// Seeder pulls sample products from the external catalog provider
// (DummyJSON-compatible payload shape).
type Seeder struct {
	client *http.Client
	url    string
}

func NewSeeder(url string) *Seeder {
	return &Seeder{
		client: &http.Client{Timeout: 15 * time.Second},
		url:    url,
	}
}

type providerResponse struct {
	Products []providerProduct `json:"products"`
}

type providerProduct struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Thumbnail   string  `json:"thumbnail"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	Rating      float64 `json:"rating"`
	Stock       int     `json:"stock"`
}

// Fetch downloads the provider catalog and maps it to products. Prices are
// randomized in [10, 510) since the provider's prices are in another scale.
func (s *Seeder) Fetch(ctx context.Context) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}

	res, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog provider returned status %d", res.StatusCode)
	}

	var payload providerResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}

	products := make([]Product, 0, len(payload.Products))
	for _, item := range payload.Products {
		products = append(products, Product{
			Name:        item.Title,
			Price:       math.Round((rand.Float64()*500+10)*100) / 100,
			Description: item.Description,
			ImageURL:    item.Thumbnail,
			AdditionalInfo: map[string]any{
				"category": item.Category,
				"brand":    item.Brand,
				"rating":   item.Rating,
				"stock":    item.Stock,
			},
		})
	}

	return products, nil
}
