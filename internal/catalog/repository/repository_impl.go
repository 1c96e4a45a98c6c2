package repository

import (
	"context"

	"github.com/smallbiznis/kasira/internal/catalog/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) UpsertCategory(ctx context.Context, db *gorm.DB, category *domain.Category) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(category).Error
}

func (r *repo) FindCategoryByID(ctx context.Context, db *gorm.DB, id string) (*domain.Category, error) {
	var c domain.Category
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, description, created_at, updated_at, deleted_at
		 FROM categories WHERE id = ?`,
		id,
	).Scan(&c).Error
	if err != nil {
		return nil, err
	}
	if c.ID == "" {
		return nil, nil
	}
	return &c, nil
}

func (r *repo) FindAllCategories(ctx context.Context, db *gorm.DB, includeDeleted bool) ([]domain.Category, error) {
	var items []domain.Category
	stmt := db.WithContext(ctx).Model(&domain.Category{})
	if !includeDeleted {
		stmt = stmt.Where("deleted_at IS NULL")
	}
	if err := stmt.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpsertProduct(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(product).Error
}

func (r *repo) FindProductByID(ctx context.Context, db *gorm.DB, id string) (*domain.Product, error) {
	var p domain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM products WHERE id = ?`,
		id,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) ListProducts(ctx context.Context, db *gorm.DB, filter domain.ListProductsRequest) ([]domain.Product, error) {
	var items []domain.Product
	stmt := db.WithContext(ctx).Model(&domain.Product{})

	if filter.Keyword != "" {
		keyword := "%" + filter.Keyword + "%"
		stmt = stmt.Where("name LIKE ? OR barcode LIKE ?", keyword, keyword)
	}
	if filter.CategoryID != "" {
		stmt = stmt.Where("category_id = ?", filter.CategoryID)
	}
	if !filter.IncludeDeleted {
		stmt = stmt.Where("deleted_at IS NULL")
	}
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit).Offset(filter.Offset)
	}

	if err := stmt.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ReplaceIngredients is a destructive refresh: the server's view replaces the
// local set wholesale. Callers run it inside the same transaction as the
// product upsert.
func (r *repo) ReplaceIngredients(ctx context.Context, db *gorm.DB, productID string, ingredients []domain.ProductIngredient) error {
	if err := db.WithContext(ctx).Exec(
		`DELETE FROM product_ingredients WHERE product_id = ?`,
		productID,
	).Error; err != nil {
		return err
	}
	if len(ingredients) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&ingredients).Error
}

func (r *repo) FindIngredients(ctx context.Context, db *gorm.DB, productID string) ([]domain.ProductIngredient, error) {
	var items []domain.ProductIngredient
	err := db.WithContext(ctx).Raw(
		`SELECT id, product_id, name, quantity, measure_unit_code, measure_unit_name
		 FROM product_ingredients WHERE product_id = ? ORDER BY name ASC`,
		productID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
