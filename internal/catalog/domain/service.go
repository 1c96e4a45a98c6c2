package domain

import (
	"context"
	"errors"
)

// Service is the reconciler plus the local read side of the catalog. Remote
// records always overwrite local rows; the device never originates catalog
// writes, so there is nothing to merge.
type Service interface {
	ApplyCategories(ctx context.Context, records []Category) error
	ApplyProducts(ctx context.Context, records []ProductRecord) error

	ListCategories(ctx context.Context, includeDeleted bool) ([]Category, error)
	ListProducts(ctx context.Context, req ListProductsRequest) ([]Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	GetProductIngredients(ctx context.Context, productID string) ([]ProductIngredient, error)
}

var (
	ErrNotFound  = errors.New("not_found")
	ErrInvalidID = errors.New("invalid_id")
)
