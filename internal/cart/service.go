package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ridoy-adhikary/towerCrane/internal/common"
	"github.com/ridoy-adhikary/towerCrane/internal/obs"
)

// ProductSummary is the catalog view attached to cart lines.
type ProductSummary struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Price    int64    `json:"price"`
	Category string   `json:"category"`
	Location string   `json:"location"`
	Images   []string `json:"images"`
	Status   string   `json:"status"`
}

// ProductSource resolves product summaries for cart enrichment.
type ProductSource interface {
	ProductsByIDs(ctx context.Context, ids []string) (map[string]ProductSummary, error)
}

// Line is a cart item joined with its catalog product. Product is null when
// the referenced listing no longer exists.
type Line struct {
	ProductID string          `json:"productId"`
	Quantity  int64           `json:"quantity"`
	Product   *ProductSummary `json:"product"`
}

// View is the cart as returned to clients.
type View struct {
	Products []Line `json:"products"`
}

// Service implements cart reads and mutations on top of the store.
type Service struct {
	store    Store
	products ProductSource
}

// NewService wires a cart service.
func NewService(store Store, products ProductSource) *Service {
	return &Service{store: store, products: products}
}

// GetCart returns the owner's cart. An absent cart document reads as an
// empty cart.
func (s *Service) GetCart(ctx context.Context, owner string) (View, error) {
	doc, err := s.store.Get(ctx, owner)
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			return View{Products: []Line{}}, nil
		}
		return View{}, fmt.Errorf("get cart: %w", err)
	}
	return s.enrich(ctx, doc)
}

// AddToCart merges quantity into an existing line for the product or appends
// a new line. Quantity must be positive.
func (s *Service) AddToCart(ctx context.Context, owner, productID string, quantity int64) (view View, err error) {
	defer func() { obs.ObserveCartMutation("add", err) }()

	productID = strings.TrimSpace(productID)
	if productID == "" {
		return View{}, common.ErrInvalid("productId is required")
	}
	if quantity <= 0 {
		return View{}, common.ErrInvalid("quantity must be greater than zero")
	}

	if err = s.store.AddItem(ctx, owner, productID, quantity); err != nil {
		return View{}, fmt.Errorf("add to cart: %w", err)
	}
	obs.ObserveCartItemsAdded(quantity)

	return s.GetCart(ctx, owner)
}

// RemoveFromCart deletes the product line from the owner's cart. Removing a
// product that is not in the cart succeeds; removing from a never-created
// cart is a not-found.
func (s *Service) RemoveFromCart(ctx context.Context, owner, productID string) (view View, err error) {
	defer func() { obs.ObserveCartMutation("remove", err) }()

	productID = strings.TrimSpace(productID)
	if productID == "" {
		return View{}, common.ErrInvalid("productId is required")
	}

	if err = s.store.RemoveItem(ctx, owner, productID); err != nil {
		if errors.Is(err, ErrCartNotFound) {
			return View{}, common.ErrNotFound("cart not found")
		}
		return View{}, fmt.Errorf("remove from cart: %w", err)
	}

	return s.GetCart(ctx, owner)
}

func (s *Service) enrich(ctx context.Context, doc Document) (View, error) {
	view := View{Products: make([]Line, 0, len(doc.Items))}
	if len(doc.Items) == 0 {
		return view, nil
	}

	ids := make([]string, 0, len(doc.Items))
	for _, item := range doc.Items {
		ids = append(ids, item.ProductID)
	}

	summaries := map[string]ProductSummary{}
	if s.products != nil {
		found, err := s.products.ProductsByIDs(ctx, ids)
		if err != nil {
			return View{}, fmt.Errorf("enrich cart: %w", err)
		}
		summaries = found
	}

	for _, item := range doc.Items {
		line := Line{ProductID: item.ProductID, Quantity: item.Quantity}
		if summary, ok := summaries[item.ProductID]; ok {
			s := summary
			line.Product = &s
		}
		view.Products = append(view.Products, line)
	}
	return view, nil
}
