package catalog

import (
	"context"

	"github.com/ridoy-adhikary/towerCrane/internal/cart"
)

// CartSource adapts the catalog service to the cart's product lookup.
type CartSource struct {
	svc *Service
}

// NewCartSource wires the adapter.
func NewCartSource(svc *Service) *CartSource {
	return &CartSource{svc: svc}
}

// ProductsByIDs implements cart.ProductSource.
func (c *CartSource) ProductsByIDs(ctx context.Context, ids []string) (map[string]cart.ProductSummary, error) {
	products, err := c.svc.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]cart.ProductSummary, len(products))
	for id, product := range products {
		out[id] = cart.ProductSummary{
			ID:       product.ID,
			Title:    product.Title,
			Price:    product.Price,
			Category: product.Category,
			Location: product.Location,
			Images:   product.Images,
			Status:   product.Status,
		}
	}
	return out, nil
}
