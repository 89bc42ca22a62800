package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/seller-portal-api/internal/domain"
	"github.com/seller-portal-api/internal/pkg/validate"
)

// DeleteResult reports the outcome of a product removal. Warning is
// non-empty when the associated image could not be released; the catalog
// entry is removed regardless (best-effort cleanup).
type DeleteResult struct {
	RemainingCount int
	Warning        string
}

// Service maintains one seller's embedded product collection: name-addressed
// CRUD and guarded quantity changes.
type Service interface {
	Add(ctx context.Context, sellerID string, in domain.ProductInput) (*domain.Product, error)
	List(ctx context.Context, sellerID string) ([]domain.Product, error)
	Edit(ctx context.Context, sellerID, name string, req domain.UpdateProductRequest) (*domain.Product, error)
	Delete(ctx context.Context, sellerID, name string) (*DeleteResult, error)
	AdjustQuantity(ctx context.Context, sellerID, name string, increase bool) (*domain.Product, error)
}

type sellerStore interface {
	Get(ctx context.Context, sellerID string) (*domain.Seller, error)
	AppendProduct(ctx context.Context, sellerID string, p domain.Product) error
	SetProductAt(ctx context.Context, sellerID string, i int, p domain.Product) error
	RemoveProductAt(ctx context.Context, sellerID string, i int) error
}

type objectStore interface {
	Delete(ctx context.Context, key string) error
}

type service struct {
	repo   sellerStore
	images objectStore
	now    func() time.Time
}

func NewService(repo sellerStore, images objectStore) Service {
	return &service{repo: repo, images: images, now: time.Now}
}

// Add validates and appends a product. Duplicate names are not rejected
// here; name-addressed operations resolve to the first match.
func (s *service) Add(ctx context.Context, sellerID string, in domain.ProductInput) (*domain.Product, error) {
	if err := validate.Struct(&in); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	now := s.now().UTC()
	p := domain.Product{
		Name:          in.Name,
		Description:   in.Description,
		Category:      in.Category,
		Price:         in.Price,
		Quantity:      in.Quantity,
		ImageURL:      in.ImageURL,
		ImagePublicID: in.ImagePublicID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.AppendProduct(ctx, sellerID, p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *service) List(ctx context.Context, sellerID string) ([]domain.Product, error) {
	seller, err := s.repo.Get(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	return seller.Products, nil
}

// Edit applies the supplied fields onto the name-matched entry and leaves
// the rest untouched. The name itself is immutable through this operation.
func (s *service) Edit(ctx context.Context, sellerID, name string, req domain.UpdateProductRequest) (*domain.Product, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	seller, i, err := s.find(ctx, sellerID, name)
	if err != nil {
		return nil, err
	}
	p := seller.Products[i]
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Quantity != nil {
		p.Quantity = *req.Quantity
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}
	if req.ImagePublicID != nil {
		p.ImagePublicID = *req.ImagePublicID
	}
	p.UpdatedAt = s.now().UTC()
	if err := s.repo.SetProductAt(ctx, sellerID, i, p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete releases the product's stored image first, then removes the entry.
// Image release failure is logged and surfaced as a warning, never a
// failure: there is no compensating transaction for a half-done delete.
func (s *service) Delete(ctx context.Context, sellerID, name string) (*DeleteResult, error) {
	seller, i, err := s.find(ctx, sellerID, name)
	if err != nil {
		return nil, err
	}
	res := &DeleteResult{}
	if key := seller.Products[i].ImagePublicID; key != "" {
		if err := s.images.Delete(ctx, key); err != nil {
			slog.Warn("failed to release product image", "seller_id", sellerID, "key", key, "err", err)
			res.Warning = "product deleted but its image could not be released"
		}
	}
	if err := s.repo.RemoveProductAt(ctx, sellerID, i); err != nil {
		return nil, err
	}
	res.RemainingCount = len(seller.Products) - 1
	return res, nil
}

// AdjustQuantity moves stock by one. Increase always succeeds; decrease is
// clamped at zero and reports the floor with the unchanged entry so the
// caller can distinguish "already at zero" from "product vanished".
func (s *service) AdjustQuantity(ctx context.Context, sellerID, name string, increase bool) (*domain.Product, error) {
	seller, i, err := s.find(ctx, sellerID, name)
	if err != nil {
		return nil, err
	}
	p := seller.Products[i]
	if increase {
		p.Quantity++
	} else {
		if p.Quantity == 0 {
			return nil, &domain.QuantityFloorError{Product: &p}
		}
		p.Quantity--
	}
	p.UpdatedAt = s.now().UTC()
	if err := s.repo.SetProductAt(ctx, sellerID, i, p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *service) find(ctx context.Context, sellerID, name string) (*domain.Seller, int, error) {
	seller, err := s.repo.Get(ctx, sellerID)
	if err != nil {
		return nil, 0, err
	}
	for i := range seller.Products {
		if seller.Products[i].Name == name {
			return seller, i, nil
		}
	}
	return nil, 0, fmt.Errorf("product with name %q not found: %w", name, domain.ErrNotFound)
}
