package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ridoy-adhikary/towerCrane/internal/common"
	"github.com/ridoy-adhikary/towerCrane/internal/obs"
)

// SellerContact is returned by ContactSeller.
type SellerContact struct {
	ProductID    string `json:"productId"`
	ProductTitle string `json:"productTitle"`
	SellerName   string `json:"sellerName"`
	SellerEmail  string `json:"sellerEmail"`
}

// Service implements catalog reads and seller-gated mutations.
type Service struct {
	store Store
	cache *Cache
	log   zerolog.Logger
}

// NewService wires a catalog service. cache may be nil.
func NewService(store Store, cache *Cache, log zerolog.Logger) *Service {
	return &Service{store: store, cache: cache, log: log}
}

// List returns all listings, serving from the cache when warm.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	if cached, ok := s.cache.GetList(ctx); ok {
		return cached, nil
	}
	products, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	s.cache.SetList(ctx, products)
	return products, nil
}

// Get returns one listing by id.
func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	product, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return Product{}, common.ErrNotFound("product not found")
		}
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// ListMine returns the listings owned by the calling seller.
func (s *Service) ListMine(ctx context.Context, sellerID string) ([]Product, error) {
	products, err := s.store.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list own products: %w", err)
	}
	return products, nil
}

// Create inserts a new listing owned by sellerID.
func (s *Service) Create(ctx context.Context, params CreateParams) (product Product, err error) {
	defer func() { obs.ObserveProductMutation("create", err) }()

	if err = validateCreate(params); err != nil {
		return Product{}, err
	}
	product, err = s.store.Create(ctx, params)
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	s.invalidate(ctx)
	return product, nil
}

// Update applies a partial update when the caller owns the listing.
func (s *Service) Update(ctx context.Context, sellerID, id string, params UpdateParams) (product Product, err error) {
	defer func() { obs.ObserveProductMutation("update", err) }()

	if err = s.checkOwnership(ctx, sellerID, id); err != nil {
		return Product{}, err
	}
	product, err = s.store.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return Product{}, common.ErrNotFound("product not found")
		}
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	s.invalidate(ctx)
	return product, nil
}

// Delete removes a listing when the caller owns it.
func (s *Service) Delete(ctx context.Context, sellerID, id string) (err error) {
	defer func() { obs.ObserveProductMutation("delete", err) }()

	if err = s.checkOwnership(ctx, sellerID, id); err != nil {
		return err
	}
	if err = s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return common.ErrNotFound("product not found")
		}
		return fmt.Errorf("delete product: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

// ContactSeller returns the seller contact details for a listing.
func (s *Service) ContactSeller(ctx context.Context, id string) (SellerContact, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return SellerContact{}, err
	}
	return SellerContact{
		ProductID:    product.ID,
		ProductTitle: product.Title,
		SellerName:   product.SellerName,
		SellerEmail:  product.SellerEmail,
	}, nil
}

// ProductsByIDs resolves the listings referenced by the given ids. Missing
// ids are simply absent from the result.
func (s *Service) ProductsByIDs(ctx context.Context, ids []string) (map[string]Product, error) {
	products, err := s.store.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}
	out := make(map[string]Product, len(products))
	for _, product := range products {
		out[product.ID] = product
	}
	return out, nil
}

func (s *Service) checkOwnership(ctx context.Context, sellerID, id string) error {
	product, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return common.ErrNotFound("product not found")
		}
		return fmt.Errorf("check ownership: %w", err)
	}
	if product.SellerID != sellerID {
		return common.ErrForbidden("you do not own this product")
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
}

func validateCreate(params CreateParams) error {
	switch {
	case strings.TrimSpace(params.Title) == "":
		return common.ErrInvalid("title is required")
	case strings.TrimSpace(params.Description) == "":
		return common.ErrInvalid("description is required")
	case params.Price < 0:
		return common.ErrInvalid("price must not be negative")
	case strings.TrimSpace(params.Category) == "":
		return common.ErrInvalid("category is required")
	case strings.TrimSpace(params.Location) == "":
		return common.ErrInvalid("location is required")
	}
	return nil
}
