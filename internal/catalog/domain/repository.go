package domain

import (
	"context"

	"gorm.io/gorm"
)

type ListProductsRequest struct {
	Keyword        string
	CategoryID     string
	IncludeDeleted bool
	Limit          int
	Offset         int
}

type Repository interface {
	UpsertCategory(ctx context.Context, db *gorm.DB, category *Category) error
	FindCategoryByID(ctx context.Context, db *gorm.DB, id string) (*Category, error)
	FindAllCategories(ctx context.Context, db *gorm.DB, includeDeleted bool) ([]Category, error)

	UpsertProduct(ctx context.Context, db *gorm.DB, product *Product) error
	FindProductByID(ctx context.Context, db *gorm.DB, id string) (*Product, error)
	ListProducts(ctx context.Context, db *gorm.DB, filter ListProductsRequest) ([]Product, error)

	ReplaceIngredients(ctx context.Context, db *gorm.DB, productID string, ingredients []ProductIngredient) error
	FindIngredients(ctx context.Context, db *gorm.DB, productID string) ([]ProductIngredient, error)
}
